package models

import (
	"time"
)

// MembershipTier is a creator's NFT offering. Price, supply cap and royalty
// are immutable after creation; Minted only ever grows and stays within
// MaxSupply unless MaxSupply is 0 (unlimited).
type MembershipTier struct {
	ID          uint64    `json:"tierId" gorm:"primaryKey;autoIncrement"`
	Creator     string    `json:"creator" gorm:"size:42;index;not null"`
	PriceWei    *BigInt   `json:"priceWei" gorm:"type:numeric(78,0);not null"`
	MaxSupply   uint64    `json:"maxSupply"`
	RoyaltyBps  uint32    `json:"royaltyBps"`
	MetadataCid string    `json:"metadataCid"`
	Active      bool      `json:"active"`
	Minted      uint64    `json:"minted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (MembershipTier) TableName() string {
	return "membership_tiers"
}

// TierCreate mirrors createTier(price, maxSupply, royaltyBps, metadataCID).
type TierCreate struct {
	PriceWei    string `json:"priceWei" binding:"required" example:"5000000000000000000"`
	MaxSupply   uint64 `json:"maxSupply" example:"100"`
	RoyaltyBps  uint32 `json:"royaltyBps" example:"500"`
	MetadataCid string `json:"metadataCid" example:"ipfs://QmTierMeta"`
}

// MintRequest carries the attached value for a mint, exact-match against the
// tier price.
type MintRequest struct {
	AmountWei string `json:"amountWei" binding:"required" example:"5000000000000000000"`
}
