package models

import (
	"time"
)

// Currency is a payment rail.
type Currency string

const (
	CurrencyNative     Currency = "NATIVE"
	CurrencyStablecoin Currency = "USDC"
)

// PaymentKind distinguishes subscription renewals from tier mints.
type PaymentKind string

const (
	PaymentSubscription PaymentKind = "SUBSCRIPTION"
	PaymentMint         PaymentKind = "MINT"
)

// PaymentRecord is one settled payment. Records are append-only and feed the
// revenue totals and earnings graph in creator insights.
type PaymentRecord struct {
	ID       string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Kind     PaymentKind `json:"kind" gorm:"type:varchar(20);not null"`
	Currency Currency    `json:"currency" gorm:"type:varchar(10);not null"`
	PlanID   *uint64     `json:"planId,omitempty" gorm:"index"`
	TierID   *uint64     `json:"tierId,omitempty" gorm:"index"`
	TokenID  *uint64     `json:"tokenId,omitempty"`
	Payer    string      `json:"payer" gorm:"size:42;index;not null"`
	Creator  string      `json:"creator" gorm:"size:42;index;not null"`
	Amount   *BigInt     `json:"amount" gorm:"type:numeric(78,0);not null"`
	PaidAt   time.Time   `json:"paidAt"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

// Withdrawal is a full-balance payout to a creator's own address.
type Withdrawal struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Creator   string    `json:"creator" gorm:"size:42;index;not null"`
	Currency  Currency  `json:"currency" gorm:"type:varchar(10);not null"`
	Amount    *BigInt   `json:"amount" gorm:"type:numeric(78,0);not null"`
	TxHash    string    `json:"txHash"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
