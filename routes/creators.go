package routes

import (
	"github.com/M4N4N22/SubHub/handlers/creators"
	"github.com/M4N4N22/SubHub/middleware"

	"github.com/gin-gonic/gin"
)

func CreatorsRoutes(r *gin.Engine) {
	// Public registry reads
	r.GET("/creators", creators.GetAllCreators)
	r.GET("/creators/count", creators.GetCreatorCount)
	r.GET("/creators/index/:index", creators.GetCreatorByIndex)
	r.GET("/creators/:address/profile", creators.GetProfile)

	// Protected profile write
	profileRoutes := r.Group("/profile")
	profileRoutes.Use(middleware.WalletAuth())
	{
		profileRoutes.PUT("", creators.SetProfile)
	}
}
