package routes

import (
	"github.com/M4N4N22/SubHub/handlers/events"

	"github.com/gin-gonic/gin"
)

func EventsRoutes(r *gin.Engine) {
	r.GET("/events", events.GetEvents)
}
