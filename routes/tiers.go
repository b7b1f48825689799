package routes

import (
	"github.com/M4N4N22/SubHub/handlers/tiers"
	"github.com/M4N4N22/SubHub/middleware"

	"github.com/gin-gonic/gin"
)

func TiersRoutes(r *gin.Engine) {
	// Public reads
	r.GET("/tiers/:id", tiers.GetTier)
	r.GET("/tiers/:id/holders", tiers.GetTierHolders)
	r.GET("/creators/:address/tiers", tiers.GetCreatorTiers)
	r.GET("/tokens/:id", tiers.GetToken)
	r.GET("/tokens/count", tiers.TotalSupply)
	r.GET("/tokens/index/:index", tiers.TokenByIndex)

	// Protected creator and holder operations
	tiersRoutes := r.Group("/tiers")
	tiersRoutes.Use(middleware.WalletAuth())
	{
		tiersRoutes.POST("", tiers.CreateTier)
		tiersRoutes.PATCH("/:id/active", tiers.SetTierActive)
		tiersRoutes.POST("/:id/mint", tiers.Mint)
	}

	tokensRoutes := r.Group("/tokens")
	tokensRoutes.Use(middleware.WalletAuth())
	{
		tokensRoutes.POST("/:id/transfer", tiers.TransferToken)
	}
}
