package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Ledger event types, one per state change. Off-chain indexers reconstruct
// ownership and billing history from this feed instead of replaying tables.
const (
	EventPlanCreated      = "PlanCreated"
	EventPlanToggled      = "PlanToggled"
	EventTierCreated      = "TierCreated"
	EventTierToggled      = "TierToggled"
	EventTokenMinted      = "TokenMinted"
	EventTokenTransferred = "TokenTransferred"
	EventSubscriptionPaid = "SubscriptionPaid"
	EventWithdrawn        = "Withdrawn"
	EventContentPosted    = "ContentPosted"
	EventProfileUpdated   = "ProfileUpdated"
)

// LedgerEvent is appended in the same transaction as the write it describes.
type LedgerEvent struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid"`
	Type      string          `json:"type" gorm:"index;not null"`
	Payload   json.RawMessage `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"createdAt" gorm:"index"`
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}

// NewLedgerEvent marshals the payload and assigns the event id.
func NewLedgerEvent(eventType string, payload interface{}) (*LedgerEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &LedgerEvent{
		ID:      uuid.NewString(),
		Type:    eventType,
		Payload: raw,
	}, nil
}
