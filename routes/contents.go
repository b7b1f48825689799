package routes

import (
	"github.com/M4N4N22/SubHub/handlers/contents"
	"github.com/M4N4N22/SubHub/middleware"

	"github.com/gin-gonic/gin"
)

func ContentsRoutes(r *gin.Engine) {
	// Public reads
	r.GET("/contents/:id", contents.GetContent)
	r.GET("/contents/:id/access", contents.ResolveAccess)
	r.GET("/creators/:address/contents", contents.GetCreatorContents)

	// Protected publishing
	contentsRoutes := r.Group("/contents")
	contentsRoutes.Use(middleware.WalletAuth())
	{
		contentsRoutes.POST("", contents.PostContent)
		contentsRoutes.POST("/media", contents.UploadMedia)
		contentsRoutes.POST("/metadata", contents.UploadMetadata)
	}
}
