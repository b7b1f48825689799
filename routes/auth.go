package routes

import (
	"github.com/M4N4N22/SubHub/handlers/auth"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	r.POST("/auth/nonce", auth.RequestNonce)
	r.POST("/auth/login", auth.Login)
}
