package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Creator is a registered wallet address plus its profile pointer. An address
// joins the set on its first profile, plan, tier or content write and is never
// removed. Seq gives the enumeration order the discover page iterates with.
type Creator struct {
	Address    string    `json:"address" gorm:"primaryKey;size:42"`
	Seq        uint64    `json:"-" gorm:"autoIncrement;uniqueIndex"`
	ProfileCid string    `json:"profileCid"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Creator) TableName() string {
	return "creators"
}

// RegisterCreator adds an address to the creator set if it is not already
// there. Called from every first-write path (profile, plan, tier, content) so
// the enumerable set stays complete.
func RegisterCreator(tx *gorm.DB, address string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Create(&Creator{Address: address}).Error
}

// ProfileUpdate is the body for setting the caller's profile CID.
type ProfileUpdate struct {
	ProfileCid string `json:"profileCid" binding:"required" example:"ipfs://QmProfile"`
}
