package insights

import (
	"net/http"
	"time"

	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
)

// @Summary Creator analytics snapshot
// @Description Read-only rollup recomputed from the ledger on every request. Eventually consistent: concurrent payments may or may not be included.
// @Tags insights
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {object} insights.CreatorInsights
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /creators/{address}/insights [get]
func GetCreatorInsights(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	now := time.Now()

	var plans []models.SubscriptionPlan
	if err := db.DB.Where("creator = ?", address).Order("id ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving plans: " + err.Error()})
		return
	}

	var payments []models.PaymentRecord
	if err := db.DB.Where("creator = ? AND kind = ?", address, models.PaymentSubscription).
		Order("paid_at ASC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving payments: " + err.Error()})
		return
	}

	subscription := SubscriptionInsights{
		Overview:      SubscriptionOverview{TotalRevenue: models.NewBigInt(0)},
		Plans:         []PlanInsight{},
		Subscribers:   []SubscriberEntry{},
		EarningsGraph: BuildEarningsGraph(payments),
	}
	subscriberWallets := []string{}

	for i := range plans {
		plan := &plans[i]

		var subs []models.Subscription
		if err := db.DB.Where("plan_id = ?", plan.ID).Order("created_at ASC").Find(&subs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving subscribers: " + err.Error()})
			return
		}

		insight := SummarizePlan(plan, subs, payments, now)
		subscription.Plans = append(subscription.Plans, insight)
		subscription.Overview.TotalSubscribers += insight.Subscribers
		subscription.Overview.ActiveSubscribers += insight.ActiveSubscribers
		subscription.Overview.TotalRevenue = subscription.Overview.TotalRevenue.Add(insight.Revenue)

		for _, sub := range subs {
			subscriberWallets = append(subscriberWallets, sub.Subscriber)
			subscription.Subscribers = append(subscription.Subscribers, SubscriberEntry{
				Wallet:   sub.Subscriber,
				JoinedAt: sub.JoinedAt,
				Active:   sub.ActiveAt(now),
				PlanID:   plan.ID,
				Amount:   plan.PriceWei,
			})
		}
	}

	var tiers []models.MembershipTier
	if err := db.DB.Where("creator = ?", address).Order("id ASC").Find(&tiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tiers: " + err.Error()})
		return
	}

	nft := NFTInsights{
		Tiers:   []TierInsight{},
		Holders: []HolderEntry{},
	}
	holderWallets := []string{}
	uniqueHolders := make(map[string]struct{})

	for i := range tiers {
		tier := &tiers[i]

		var tokens []models.MembershipToken
		if err := db.DB.Where("tier_id = ?", tier.ID).Order("id ASC").Find(&tokens).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tokens: " + err.Error()})
			return
		}

		tierInsight := TierInsight{
			TierID:      tier.ID,
			MetadataCid: tier.MetadataCid,
			PriceWei:    tier.PriceWei,
			MaxSupply:   tier.MaxSupply,
			Minted:      tier.Minted,
			Holders:     []HolderEntry{},
		}

		for _, token := range tokens {
			entry := HolderEntry{
				Wallet:  token.Owner,
				TokenID: token.ID,
				TierID:  tier.ID,
			}
			tierInsight.Holders = append(tierInsight.Holders, entry)
			nft.Holders = append(nft.Holders, entry)
			holderWallets = append(holderWallets, token.Owner)
			uniqueHolders[token.Owner] = struct{}{}
		}

		nft.TotalMinted += tier.Minted
		nft.Tiers = append(nft.Tiers, tierInsight)
	}
	nft.TotalHolders = len(uniqueHolders)

	c.JSON(http.StatusOK, CreatorInsights{
		Subscription: subscription,
		NFT:          nft,
		Combined:     CombineCommunity(subscriberWallets, holderWallets),
	})
}
