package ping

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Liveness check
// @Description Returns pong when the service is up
// @Tags ping
// @Produce json
// @Success 200 {object} map[string]string "message: pong"
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
