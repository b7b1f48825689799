package models

import (
	"time"
)

// MembershipToken is one minted membership NFT. TokenIds are dense and
// sequential; the tier assignment never changes, only the owner does (via
// transfer).
type MembershipToken struct {
	ID        uint64    `json:"tokenId" gorm:"primaryKey;autoIncrement"`
	TierID    uint64    `json:"tierId" gorm:"index;not null"`
	Owner     string    `json:"owner" gorm:"size:42;index;not null"`
	CreatedAt time.Time `json:"mintedAt"`
	UpdatedAt time.Time `json:"-"`
}

func (MembershipToken) TableName() string {
	return "membership_tokens"
}

// TokenTransfer is the body for moving a token to a new owner.
type TokenTransfer struct {
	To string `json:"to" binding:"required" example:"0x0f4F2Ac550A1b4e2280d04c21cEa7EBD822934b5"`
}
