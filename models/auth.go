package models

import (
	"time"
)

// AuthNonce is a one-time login challenge bound to a wallet address.
type AuthNonce struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Address   string    `json:"address" gorm:"size:42;index;not null"`
	Nonce     string    `json:"nonce" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AuthNonce) TableName() string {
	return "auth_nonces"
}

// NonceRequest asks for a challenge for an address.
type NonceRequest struct {
	Address string `json:"address" binding:"required" example:"0x0f4F2Ac550A1b4e2280d04c21cEa7EBD822934b5"`
}

// LoginRequest presents the personal-sign signature over the challenge text.
type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required" example:"0x..."`
}
