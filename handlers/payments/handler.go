package payments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/M4N4N22/SubHub/chain"
	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadActivePlan fetches a plan for a payment, translating the failure modes
// into the ledger taxonomy.
func loadActivePlan(tx *gorm.DB, planID uint64) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if !plan.Active {
		return nil, models.ErrPlanInactive
	}
	return &plan, nil
}

// applyCycle upserts the (subscriber, plan) row with the compounded expiry.
// JoinedAt is written exactly once, on the first payment.
func applyCycle(tx *gorm.DB, plan *models.SubscriptionPlan, subscriber string, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sub, "plan_id = ? AND subscriber = ?", plan.ID, subscriber).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Subscription{
			PlanID:     plan.ID,
			Subscriber: subscriber,
			ExpiresAt:  NextExpiry(now.Unix(), 0, plan.Frequency),
			JoinedAt:   now.Unix(),
		}
		if err := tx.Create(&sub).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		sub.ExpiresAt = NextExpiry(now.Unix(), sub.ExpiresAt, plan.Frequency)
		if err := tx.Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Update("expires_at", sub.ExpiresAt).Error; err != nil {
			return nil, err
		}
	}
	return &sub, nil
}

// recordPayment writes the escrow credit, the payment record and the ledger
// event for a successful subscription payment.
func recordPayment(tx *gorm.DB, plan *models.SubscriptionPlan, sub *models.Subscription, payer string, currency models.Currency, amount *models.BigInt, now time.Time) error {
	if err := models.CreditEscrow(tx, plan.Creator, currency, amount); err != nil {
		return err
	}

	planID := plan.ID
	payment := models.PaymentRecord{
		Kind:     models.PaymentSubscription,
		Currency: currency,
		PlanID:   &planID,
		Payer:    payer,
		Creator:  plan.Creator,
		Amount:   amount,
		PaidAt:   now,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return err
	}

	event, err := models.NewLedgerEvent(models.EventSubscriptionPaid, gin.H{
		"planId":     plan.ID,
		"subscriber": payer,
		"creator":    plan.Creator,
		"currency":   currency,
		"amount":     amount,
		"expiresAt":  sub.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

// @Summary Subscribe with native currency
// @Description Pay exactly the plan price to extend the subscription by one billing period. Early renewals compound forward from the current expiry.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body models.SubscribeNative true "Plan and attached value"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 402 {object} map[string]string "error: Wrong amount"
// @Failure 409 {object} map[string]string "error: Plan inactive"
// @Router /subscriptions/native [post]
func SubscribeNative(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	subscriber := wallet.(string)

	var req models.SubscribeNative
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	amount, err := models.ParseBigInt(req.AmountWei)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + err.Error()})
		return
	}

	now := time.Now()
	var sub *models.Subscription
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		plan, err := loadActivePlan(tx, req.PlanID)
		if err != nil {
			return err
		}
		if amount.Cmp(plan.PriceWei) != 0 {
			return models.ErrWrongAmount
		}

		sub, err = applyCycle(tx, plan, subscriber, now)
		if err != nil {
			return err
		}
		return recordPayment(tx, plan, sub, subscriber, models.CurrencyNative, amount, now)
	})
	if err != nil {
		utils.LogErrorWithWallet(subscriber, err, "Native subscription failed")
		utils.SendLedgerError(c, err)
		return
	}

	utils.LogSuccessWithWallet(subscriber, "Native subscription paid")
	c.JSON(http.StatusOK, sub)
}

// @Summary Subscribe with the stablecoin
// @Description Pull the plan price from the caller via the pre-approved stablecoin allowance, then extend the billing cycle.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body models.SubscribeStablecoin true "Plan"
// @Security BearerAuth
// @Success 200 {object} models.Subscription
// @Failure 402 {object} map[string]string "error: Insufficient allowance"
// @Failure 502 {object} map[string]string "error: Transfer failed"
// @Router /subscriptions/stablecoin [post]
func SubscribeStablecoin(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	subscriber := wallet.(string)

	var req models.SubscribeStablecoin
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	if chain.Rail == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment rail is not configured"})
		return
	}

	now := time.Now()
	var sub *models.Subscription
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		plan, err := loadActivePlan(tx, req.PlanID)
		if err != nil {
			return err
		}

		// The pull happens inside the transaction: if it fails, none of the
		// cycle or escrow writes survive.
		if err := chain.Rail.PullStablecoin(c.Request.Context(), subscriber, &plan.PriceWei.Int); err != nil {
			return err
		}

		sub, err = applyCycle(tx, plan, subscriber, now)
		if err != nil {
			return err
		}
		return recordPayment(tx, plan, sub, subscriber, models.CurrencyStablecoin, plan.PriceWei, now)
	})
	if err != nil {
		utils.LogErrorWithWallet(subscriber, err, "Stablecoin subscription failed")
		utils.SendLedgerError(c, err)
		return
	}

	utils.LogSuccessWithWallet(subscriber, "Stablecoin subscription paid")
	c.JSON(http.StatusOK, sub)
}

// @Summary Subscription expiry for a subscriber
// @Description Unix timestamp when the subscription lapses; 0 means the address never subscribed.
// @Tags payments
// @Produce json
// @Param id path int true "Plan ID"
// @Param subscriber query string true "Subscriber wallet address"
// @Success 200 {object} map[string]int64 "expiresAt"
// @Router /plans/{id}/expiry [get]
func GetExpiry(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	subscriber, err := utils.NormalizeAddress(c.Query("subscriber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscriber address"})
		return
	}

	var sub models.Subscription
	err = db.DB.First(&sub, "plan_id = ? AND subscriber = ?", planID, subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"expiresAt": 0})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving subscription: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expiresAt": sub.ExpiresAt})
}

// @Summary Join time for a subscriber
// @Description Unix timestamp of the first successful payment; 0 means never subscribed. Immutable across renewals.
// @Tags payments
// @Produce json
// @Param id path int true "Plan ID"
// @Param subscriber query string true "Subscriber wallet address"
// @Success 200 {object} map[string]int64 "joinedAt"
// @Router /plans/{id}/join-time [get]
func GetJoinTime(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	subscriber, err := utils.NormalizeAddress(c.Query("subscriber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscriber address"})
		return
	}

	var sub models.Subscription
	err = db.DB.First(&sub, "plan_id = ? AND subscriber = ?", planID, subscriber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"joinedAt": 0})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving subscription: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"joinedAt": sub.JoinedAt})
}

// @Summary List a plan's subscribers
// @Description Every address that has ever paid for the plan, including lapsed ones. Dashboards filter by expiry themselves.
// @Tags payments
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {array} models.Subscription
// @Router /plans/{id}/subscribers [get]
func GetSubscribers(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var subs []models.Subscription
	if err := db.DB.Where("plan_id = ?", planID).Order("created_at ASC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving subscribers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary Escrow balances for a creator
// @Tags payments
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {object} map[string]string "native, stablecoin"
// @Router /creators/{address}/balances [get]
func GetBalances(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var accounts []models.EscrowAccount
	if err := db.DB.Where("creator = ?", address).Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving balances: " + err.Error()})
		return
	}

	native := models.NewBigInt(0)
	stablecoin := models.NewBigInt(0)
	for _, acct := range accounts {
		switch acct.Currency {
		case models.CurrencyNative:
			native = acct.Balance
		case models.CurrencyStablecoin:
			stablecoin = acct.Balance
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"native":     native,
		"stablecoin": stablecoin,
	})
}

// WithdrawNative pays out the caller's entire native balance.
// @Summary Withdraw the full native balance
// @Description Zeroes the balance and transfers it to the caller's own address in one atomic step. Fails whole if the transfer fails.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Withdrawal
// @Failure 409 {object} map[string]string "error: Nothing to withdraw"
// @Failure 502 {object} map[string]string "error: Transfer failed"
// @Router /withdrawals/native [post]
func WithdrawNative(c *gin.Context) {
	withdraw(c, models.CurrencyNative)
}

// WithdrawStablecoin pays out the caller's entire stablecoin balance.
// @Summary Withdraw the full stablecoin balance
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Withdrawal
// @Failure 409 {object} map[string]string "error: Nothing to withdraw"
// @Router /withdrawals/stablecoin [post]
func WithdrawStablecoin(c *gin.Context) {
	withdraw(c, models.CurrencyStablecoin)
}

func withdraw(c *gin.Context, currency models.Currency) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	creator := wallet.(string)

	if chain.Rail == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment rail is not configured"})
		return
	}

	var withdrawal models.Withdrawal
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var acct models.EscrowAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&acct, "creator = ? AND currency = ?", creator, currency).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNothingToWithdraw
		}
		if err != nil {
			return err
		}
		if acct.Balance == nil || acct.Balance.Sign() == 0 {
			return models.ErrNothingToWithdraw
		}

		amount := acct.Balance

		if err := tx.Model(&models.EscrowAccount{}).
			Where("creator = ? AND currency = ?", creator, currency).
			Update("balance", models.NewBigInt(0)).Error; err != nil {
			return err
		}

		// Transfer inside the transaction: a rail failure rolls the zeroing
		// back, so funds are never lost on a failed payout.
		var txHash string
		if currency == models.CurrencyNative {
			txHash, err = chain.Rail.PayoutNative(c.Request.Context(), creator, &amount.Int)
		} else {
			txHash, err = chain.Rail.PayoutStablecoin(c.Request.Context(), creator, &amount.Int)
		}
		if err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			Creator:  creator,
			Currency: currency,
			Amount:   amount,
			TxHash:   txHash,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}

		event, err := models.NewLedgerEvent(models.EventWithdrawn, gin.H{
			"creator":  creator,
			"currency": currency,
			"amount":   amount,
			"txHash":   txHash,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(creator, err, "Withdrawal failed")
		utils.SendLedgerError(c, err)
		return
	}

	utils.LogSuccessWithWallet(creator, "Withdrawal settled")
	c.JSON(http.StatusOK, withdrawal)
}
