package main

import (
	"log"

	"github.com/M4N4N22/SubHub/chain"
	"github.com/M4N4N22/SubHub/db"
	_ "github.com/M4N4N22/SubHub/docs"
	"github.com/M4N4N22/SubHub/routes"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
)

// @title SubHub API
// @version 1.0
// @description Creator monetization backend: subscription plans, membership NFTs, payment ledger and content gating
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitIPFS(); err != nil {
		log.Printf("Warning: IPFS pinning init failed: %v", err)
		log.Println("Media and metadata uploads will not work correctly.")
	}

	if err := chain.Init(); err != nil {
		log.Printf("Warning: payment rail init failed: %v", err)
		log.Println("Stablecoin pulls and withdrawal payouts will be rejected.")
	}

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting server:", err)
	}
}
