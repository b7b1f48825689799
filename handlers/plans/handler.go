package plans

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Create a subscription plan
// @Description Create a plan with an immutable price (wei) and billing frequency (seconds)
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body models.PlanCreate true "Plan parameters"
// @Security BearerAuth
// @Success 201 {object} models.SubscriptionPlan
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /plans [post]
func CreatePlan(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	address := wallet.(string)

	var req models.PlanCreate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	price, err := models.ParseBigInt(req.PriceWei)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price: " + err.Error()})
		return
	}
	if price.Sign() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than zero"})
		return
	}
	if req.Frequency == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frequency must be greater than zero"})
		return
	}

	plan := models.SubscriptionPlan{
		Creator:     address,
		PriceWei:    price,
		Frequency:   req.Frequency,
		MetadataCid: req.MetadataCid,
		Active:      true,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.RegisterCreator(tx, address); err != nil {
			return err
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		event, err := models.NewLedgerEvent(models.EventPlanCreated, gin.H{
			"planId":      plan.ID,
			"creator":     address,
			"priceWei":    plan.PriceWei,
			"frequency":   plan.Frequency,
			"metadataCid": plan.MetadataCid,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(address, err, "Error creating plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating plan: " + err.Error()})
		return
	}

	utils.LogSuccessWithWallet(address, "Plan created")
	c.JSON(http.StatusCreated, plan)
}

// @Summary Toggle a plan's active flag
// @Description Only the plan's creator may toggle it. Price and frequency never change.
// @Tags plans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param body body models.ActiveUpdate true "Desired state"
// @Security BearerAuth
// @Success 200 {object} models.SubscriptionPlan
// @Failure 403 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /plans/{id}/active [patch]
func SetPlanActive(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	address := wallet.(string)

	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var req models.ActiveUpdate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	var plan models.SubscriptionPlan
	if err := db.DB.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving plan: " + err.Error()})
		return
	}

	if plan.Creator != address {
		utils.LogErrorWithWallet(address, nil, "Plan toggle by non-owner")
		utils.SendLedgerError(c, models.ErrUnauthorized)
		return
	}

	// No-op toggles are allowed; the update is idempotent either way.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&plan).Update("active", *req.Active).Error; err != nil {
			return err
		}
		event, err := models.NewLedgerEvent(models.EventPlanToggled, gin.H{
			"planId": plan.ID,
			"active": *req.Active,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating plan: " + err.Error()})
		return
	}

	plan.Active = *req.Active
	c.JSON(http.StatusOK, plan)
}

// @Summary Get a plan by ID
// @Tags plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} models.SubscriptionPlan
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /plans/{id} [get]
func GetPlan(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var plan models.SubscriptionPlan
	if err := db.DB.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving plan: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary List a creator's plans
// @Description Plans in creation order. An unknown creator yields an empty list, not an error.
// @Tags plans
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {array} models.SubscriptionPlan
// @Router /creators/{address}/plans [get]
func GetCreatorPlans(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var plans []models.SubscriptionPlan
	if err := db.DB.Where("creator = ?", address).Order("id ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving plans: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, plans)
}
