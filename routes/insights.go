package routes

import (
	"github.com/M4N4N22/SubHub/handlers/insights"

	"github.com/gin-gonic/gin"
)

func InsightsRoutes(r *gin.Engine) {
	r.GET("/creators/:address/insights", insights.GetCreatorInsights)
}
