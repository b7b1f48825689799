package models

import (
	"time"
)

// SubscriptionPlan is a creator's recurring offering. Price and frequency are
// immutable once the plan exists; only Active ever changes.
type SubscriptionPlan struct {
	ID          uint64    `json:"planId" gorm:"primaryKey;autoIncrement"`
	Creator     string    `json:"creator" gorm:"size:42;index;not null"`
	PriceWei    *BigInt   `json:"priceWei" gorm:"type:numeric(78,0);not null"`
	Frequency   uint64    `json:"frequency" gorm:"not null"`
	MetadataCid string    `json:"metadataCid"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// PlanCreate mirrors the createPlan(price, frequency, metadataCID) call.
// PriceWei comes in as a decimal string because wei does not fit in JSON numbers.
type PlanCreate struct {
	PriceWei    string `json:"priceWei" binding:"required" example:"1000000000000000000"`
	Frequency   uint64 `json:"frequency" binding:"required" example:"86400"`
	MetadataCid string `json:"metadataCid" example:"ipfs://QmPlanMeta"`
}

// ActiveUpdate toggles a plan or tier. Pointer so that `false` binds.
type ActiveUpdate struct {
	Active *bool `json:"active" binding:"required"`
}
