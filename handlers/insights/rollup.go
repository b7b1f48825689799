package insights

import (
	"sort"
	"time"

	"github.com/M4N4N22/SubHub/models"
)

// Shapes mirror what the creator dashboard consumes.

type SubscriberEntry struct {
	Wallet   string          `json:"wallet"`
	JoinedAt int64           `json:"joinedAt"`
	Active   bool            `json:"active"`
	PlanID   uint64          `json:"planId"`
	Amount   *models.BigInt  `json:"amount"`
}

type PlanInsight struct {
	PlanID            uint64         `json:"planId"`
	MetadataCid       string         `json:"metadataCid"`
	PriceWei          *models.BigInt `json:"priceWei"`
	Frequency         uint64         `json:"frequency"`
	Subscribers       int            `json:"subscribers"`
	ActiveSubscribers int            `json:"activeSubscribers"`
	Revenue           *models.BigInt `json:"revenue"`
}

type EarningsPoint struct {
	Date    string         `json:"date"`
	Revenue *models.BigInt `json:"revenue"`
}

type HolderEntry struct {
	Wallet  string `json:"wallet"`
	TokenID uint64 `json:"tokenId"`
	TierID  uint64 `json:"tierId"`
}

type TierInsight struct {
	TierID      uint64         `json:"tierId"`
	MetadataCid string         `json:"metadataCid"`
	PriceWei    *models.BigInt `json:"priceWei"`
	MaxSupply   uint64         `json:"maxSupply"`
	Minted      uint64         `json:"minted"`
	Holders     []HolderEntry  `json:"holders"`
}

type SubscriptionOverview struct {
	TotalSubscribers  int            `json:"totalSubscribers"`
	ActiveSubscribers int            `json:"activeSubscribers"`
	TotalRevenue      *models.BigInt `json:"totalRevenue"`
}

type SubscriptionInsights struct {
	Overview      SubscriptionOverview `json:"overview"`
	Plans         []PlanInsight        `json:"plans"`
	Subscribers   []SubscriberEntry    `json:"subscribers"`
	EarningsGraph []EarningsPoint      `json:"earningsGraph"`
}

type NFTInsights struct {
	TotalHolders int           `json:"totalHolders"`
	TotalMinted  uint64        `json:"totalMinted"`
	Tiers        []TierInsight `json:"tiers"`
	Holders      []HolderEntry `json:"holders"`
}

type CombinedInsights struct {
	TotalCommunitySize int `json:"totalCommunitySize"`
	OverlapCount       int `json:"overlapCount"`
}

type CreatorInsights struct {
	Subscription SubscriptionInsights `json:"subscription"`
	NFT          NFTInsights          `json:"nft"`
	Combined     CombinedInsights     `json:"combined"`
}

// SummarizePlan rolls one plan's subscriber rows and payments into a
// PlanInsight. Subscribers counts every row ever created; active filters by
// expiry, the same split the dashboard makes.
func SummarizePlan(plan *models.SubscriptionPlan, subs []models.Subscription, payments []models.PaymentRecord, now time.Time) PlanInsight {
	out := PlanInsight{
		PlanID:      plan.ID,
		MetadataCid: plan.MetadataCid,
		PriceWei:    plan.PriceWei,
		Frequency:   plan.Frequency,
		Revenue:     models.NewBigInt(0),
	}

	for _, sub := range subs {
		out.Subscribers++
		if sub.ActiveAt(now) {
			out.ActiveSubscribers++
		}
	}

	for _, p := range payments {
		if p.PlanID != nil && *p.PlanID == plan.ID {
			out.Revenue = out.Revenue.Add(p.Amount)
		}
	}

	return out
}

// BuildEarningsGraph groups payments into daily revenue buckets, oldest
// first.
func BuildEarningsGraph(payments []models.PaymentRecord) []EarningsPoint {
	buckets := make(map[string]*models.BigInt)
	for _, p := range payments {
		day := p.PaidAt.UTC().Format("2006-01-02")
		buckets[day] = buckets[day].Add(p.Amount)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	graph := make([]EarningsPoint, 0, len(days))
	for _, day := range days {
		graph = append(graph, EarningsPoint{Date: day, Revenue: buckets[day]})
	}
	return graph
}

// CombineCommunity computes the unique community size across subscribers and
// holders, and how many wallets appear in both.
func CombineCommunity(subscriberWallets, holderWallets []string) CombinedInsights {
	subs := make(map[string]struct{}, len(subscriberWallets))
	for _, w := range subscriberWallets {
		subs[w] = struct{}{}
	}

	holders := make(map[string]struct{}, len(holderWallets))
	for _, w := range holderWallets {
		holders[w] = struct{}{}
	}

	overlap := 0
	for w := range subs {
		if _, ok := holders[w]; ok {
			overlap++
		}
	}

	union := len(subs)
	for w := range holders {
		if _, ok := subs[w]; !ok {
			union++
		}
	}

	return CombinedInsights{
		TotalCommunitySize: union,
		OverlapCount:       overlap,
	}
}
