package insights

import (
	"testing"
	"time"

	"github.com/M4N4N22/SubHub/models"

	"github.com/stretchr/testify/assert"
)

func wei(v int64) *models.BigInt { return models.NewBigInt(v) }

func TestSummarizePlan_SplitsActiveFromLapsed(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	planID := uint64(1)
	plan := &models.SubscriptionPlan{ID: planID, PriceWei: wei(500), Frequency: 86400}

	subs := []models.Subscription{
		{PlanID: planID, Subscriber: "0xaa", ExpiresAt: now.Unix() + 100},
		{PlanID: planID, Subscriber: "0xbb", ExpiresAt: now.Unix() - 100},
	}
	payments := []models.PaymentRecord{
		{PlanID: &planID, Amount: wei(500)},
		{PlanID: &planID, Amount: wei(500)},
	}

	insight := SummarizePlan(plan, subs, payments, now)

	assert.Equal(t, 2, insight.Subscribers)
	assert.Equal(t, 1, insight.ActiveSubscribers)
	assert.Equal(t, 0, insight.Revenue.Cmp(wei(1000)))
}

func TestSummarizePlan_IgnoresOtherPlansPayments(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	planID := uint64(1)
	otherID := uint64(2)
	plan := &models.SubscriptionPlan{ID: planID, PriceWei: wei(500), Frequency: 86400}

	payments := []models.PaymentRecord{
		{PlanID: &planID, Amount: wei(500)},
		{PlanID: &otherID, Amount: wei(900)},
	}

	insight := SummarizePlan(plan, nil, payments, now)

	assert.Equal(t, 0, insight.Revenue.Cmp(wei(500)))
}

func TestBuildEarningsGraph_BucketsByDayOldestFirst(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

	payments := []models.PaymentRecord{
		{PaidAt: day2, Amount: wei(300)},
		{PaidAt: day1, Amount: wei(100)},
		{PaidAt: day1.Add(5 * time.Hour), Amount: wei(200)},
	}

	graph := BuildEarningsGraph(payments)

	assert.Len(t, graph, 2)
	assert.Equal(t, "2025-03-01", graph[0].Date)
	assert.Equal(t, 0, graph[0].Revenue.Cmp(wei(300)))
	assert.Equal(t, "2025-03-02", graph[1].Date)
	assert.Equal(t, 0, graph[1].Revenue.Cmp(wei(300)))
}

func TestBuildEarningsGraph_Empty(t *testing.T) {
	assert.Empty(t, BuildEarningsGraph(nil))
}

func TestCombineCommunity_UnionAndOverlap(t *testing.T) {
	subs := []string{"0xaa", "0xbb", "0xcc"}
	holders := []string{"0xbb", "0xdd"}

	combined := CombineCommunity(subs, holders)

	assert.Equal(t, 4, combined.TotalCommunitySize)
	assert.Equal(t, 1, combined.OverlapCount)
}

func TestCombineCommunity_DuplicatesCountOnce(t *testing.T) {
	combined := CombineCommunity([]string{"0xaa", "0xaa"}, []string{"0xaa"})

	assert.Equal(t, 1, combined.TotalCommunitySize)
	assert.Equal(t, 1, combined.OverlapCount)
}
