package models

import (
	"time"
)

// GateType is the access rule attached to a content post. The numeric values
// are part of the wire format the frontend already uses.
type GateType uint8

const (
	GatePublic GateType = iota
	GateSubscriptionOnly
	GateAnyMembershipNFT
	GateSpecificTier
	GateSubscriptionOrNFT
)

func (g GateType) Valid() bool {
	return g <= GateSubscriptionOrNFT
}

func (g GateType) String() string {
	switch g {
	case GatePublic:
		return "PUBLIC"
	case GateSubscriptionOnly:
		return "SUBSCRIPTION_ONLY"
	case GateAnyMembershipNFT:
		return "ANY_MEMBERSHIP_NFT"
	case GateSpecificTier:
		return "SPECIFIC_TIER"
	case GateSubscriptionOrNFT:
		return "SUBSCRIPTION_OR_NFT"
	default:
		return "UNKNOWN"
	}
}

// ContentPost is an immutable published item: a CID plus its gate. PlanID is
// set for gates 1 and 4, TierID for gate 3 (and optionally 4).
type ContentPost struct {
	ID         uint64    `json:"contentId" gorm:"primaryKey;autoIncrement"`
	Creator    string    `json:"creator" gorm:"size:42;index;not null"`
	ContentCid string    `json:"contentCid" gorm:"not null"`
	Gate       GateType  `json:"gate" gorm:"not null"`
	PlanID     *uint64   `json:"planId,omitempty"`
	TierID     *uint64   `json:"tierId,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

func (ContentPost) TableName() string {
	return "content_posts"
}

// ContentCreate mirrors postContent(gate, planId, tierId, contentCID).
// Zero plan/tier ids mean "not set", matching the frontend which passes 0
// for the unused slot.
type ContentCreate struct {
	Gate       GateType `json:"gate" example:"1"`
	PlanID     uint64   `json:"planId" example:"1"`
	TierID     uint64   `json:"tierId" example:"0"`
	ContentCid string   `json:"contentCid" binding:"required" example:"ipfs://QmContentMeta"`
}

// AccessDecision is the result of resolving a gate for a requester.
type AccessDecision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason"`
}
