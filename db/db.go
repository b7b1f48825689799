package db

import (
	"os"

	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogError(err, "Warning: could not load the .env file")
		utils.LogInfo("The environment variable DB_URL must be defined in the system environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "DB_URL is not set")
		panic("database URL not configured")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.Creator{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.MembershipTier{},
		&models.MembershipToken{},
		&models.ContentPost{},
		&models.EscrowAccount{},
		&models.PaymentRecord{},
		&models.Withdrawal{},
		&models.LedgerEvent{},
		&models.AuthNonce{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("could not migrate database")
	}

	utils.LogSuccess("Database connection successful")
}
