package routes

import (
	"github.com/M4N4N22/SubHub/handlers/plans"
	"github.com/M4N4N22/SubHub/middleware"

	"github.com/gin-gonic/gin"
)

func PlansRoutes(r *gin.Engine) {
	// Public reads
	r.GET("/plans/:id", plans.GetPlan)
	r.GET("/creators/:address/plans", plans.GetCreatorPlans)

	// Protected creator operations
	plansRoutes := r.Group("/plans")
	plansRoutes.Use(middleware.WalletAuth())
	{
		plansRoutes.POST("", plans.CreatePlan)
		plansRoutes.PATCH("/:id/active", plans.SetPlanActive)
	}
}
