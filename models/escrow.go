package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EscrowAccount holds funds collected on a creator's behalf, one row per
// (creator, currency). The only mutations are credit-on-payment and
// zero-on-withdrawal, both inside the transaction that caused them, so the
// balance can never go negative.
type EscrowAccount struct {
	Creator   string    `json:"creator" gorm:"primaryKey;size:42"`
	Currency  Currency  `json:"currency" gorm:"primaryKey;type:varchar(10)"`
	Balance   *BigInt   `json:"balance" gorm:"type:numeric(78,0);not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (EscrowAccount) TableName() string {
	return "escrow_accounts"
}

// CreditEscrow adds amount to a creator's balance for one currency, creating
// the account row on first payment. The row is locked for the rest of the
// surrounding transaction so concurrent payments serialize cleanly.
func CreditEscrow(tx *gorm.DB, creator string, currency Currency, amount *BigInt) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "creator"}, {Name: "currency"}},
		DoNothing: true,
	}).Create(&EscrowAccount{
		Creator:  creator,
		Currency: currency,
		Balance:  NewBigInt(0),
	}).Error
	if err != nil {
		return err
	}

	var acct EscrowAccount
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "creator = ? AND currency = ?", creator, currency).Error
	if err != nil {
		return err
	}

	return tx.Model(&EscrowAccount{}).
		Where("creator = ? AND currency = ?", creator, currency).
		Update("balance", acct.Balance.Add(amount)).Error
}
