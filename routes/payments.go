package routes

import (
	"github.com/M4N4N22/SubHub/handlers/payments"
	"github.com/M4N4N22/SubHub/middleware"

	"github.com/gin-gonic/gin"
)

func PaymentsRoutes(r *gin.Engine) {
	// Public ledger reads
	r.GET("/plans/:id/expiry", payments.GetExpiry)
	r.GET("/plans/:id/join-time", payments.GetJoinTime)
	r.GET("/plans/:id/subscribers", payments.GetSubscribers)
	r.GET("/creators/:address/balances", payments.GetBalances)

	// Protected payment rails
	subscriptionsRoutes := r.Group("/subscriptions")
	subscriptionsRoutes.Use(middleware.WalletAuth())
	{
		subscriptionsRoutes.POST("/native", payments.SubscribeNative)
		subscriptionsRoutes.POST("/stablecoin", payments.SubscribeStablecoin)
	}

	withdrawalsRoutes := r.Group("/withdrawals")
	withdrawalsRoutes.Use(middleware.WalletAuth())
	{
		withdrawalsRoutes.POST("/native", payments.WithdrawNative)
		withdrawalsRoutes.POST("/stablecoin", payments.WithdrawStablecoin)
	}
}
