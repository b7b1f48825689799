package models

import (
	"time"
)

// Subscription tracks one (subscriber, plan) billing relationship. A row is
// created on the first successful payment and never deleted, which is what
// keeps getSubscribers append-only even after expiry. Timestamps are unix
// seconds to match the contract surface (0 = never subscribed).
type Subscription struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PlanID     uint64    `json:"planId" gorm:"not null;uniqueIndex:idx_subscriptions_plan_subscriber"`
	Subscriber string    `json:"subscriber" gorm:"size:42;not null;uniqueIndex:idx_subscriptions_plan_subscriber;index"`
	ExpiresAt  int64     `json:"expiresAt"`
	JoinedAt   int64     `json:"joinedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// ActiveAt reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return s.ExpiresAt > t.Unix()
}

// SubscribeNative is the body for the native-coin rail. AmountWei plays the
// role of msg.value and must equal the plan price exactly.
type SubscribeNative struct {
	PlanID    uint64 `json:"planId" binding:"required" example:"1"`
	AmountWei string `json:"amountWei" binding:"required" example:"1000000000000000000"`
}

// SubscribeStablecoin is the body for the allowance-gated stablecoin rail.
type SubscribeStablecoin struct {
	PlanID uint64 `json:"planId" binding:"required" example:"1"`
}
