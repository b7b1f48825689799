package contents

import (
	"github.com/M4N4N22/SubHub/models"
)

// EntitlementSource answers the two questions a gate can ask about a
// requester. Implementations must be read-only; Resolve never mutates state.
type EntitlementSource interface {
	// HasActiveSubscription reports whether the requester's subscription to
	// the plan covers the current time.
	HasActiveSubscription(planID uint64) bool
	// OwnsTierToken reports whether the requester holds at least one token of
	// the tier.
	OwnsTierToken(tierID uint64) bool
	// OwnsAnyTokenOf reports whether the requester holds at least one token
	// across any tier created by the given creator. Membership is
	// creator-scoped: tokens from other creators never count.
	OwnsAnyTokenOf(creator string) bool
}

// Resolve turns a post's gate into an allow/deny decision. Deny is the
// default for every malformed configuration; the function is pure and safe to
// call any number of times.
func Resolve(post *models.ContentPost, src EntitlementSource) models.AccessDecision {
	switch post.Gate {
	case models.GatePublic:
		return models.AccessDecision{Allow: true, Reason: "public"}

	case models.GateSubscriptionOnly:
		if post.PlanID == nil {
			return models.AccessDecision{Allow: false, Reason: "gate missing plan"}
		}
		if src.HasActiveSubscription(*post.PlanID) {
			return models.AccessDecision{Allow: true, Reason: "active subscription"}
		}
		return models.AccessDecision{Allow: false, Reason: "no active subscription"}

	case models.GateAnyMembershipNFT:
		if src.OwnsAnyTokenOf(post.Creator) {
			return models.AccessDecision{Allow: true, Reason: "membership token held"}
		}
		return models.AccessDecision{Allow: false, Reason: "no membership token"}

	case models.GateSpecificTier:
		if post.TierID == nil {
			return models.AccessDecision{Allow: false, Reason: "gate missing tier"}
		}
		if src.OwnsTierToken(*post.TierID) {
			return models.AccessDecision{Allow: true, Reason: "tier token held"}
		}
		return models.AccessDecision{Allow: false, Reason: "tier token not held"}

	case models.GateSubscriptionOrNFT:
		if post.PlanID != nil && src.HasActiveSubscription(*post.PlanID) {
			return models.AccessDecision{Allow: true, Reason: "active subscription"}
		}
		if post.TierID != nil {
			if src.OwnsTierToken(*post.TierID) {
				return models.AccessDecision{Allow: true, Reason: "tier token held"}
			}
		} else if src.OwnsAnyTokenOf(post.Creator) {
			return models.AccessDecision{Allow: true, Reason: "membership token held"}
		}
		return models.AccessDecision{Allow: false, Reason: "no subscription or membership token"}

	default:
		return models.AccessDecision{Allow: false, Reason: "unknown gate"}
	}
}
