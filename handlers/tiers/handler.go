package tiers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// @Summary Create a membership tier
// @Description Create an NFT tier with immutable price, supply cap and royalty. maxSupply 0 means unlimited.
// @Tags tiers
// @Accept json
// @Produce json
// @Param tier body models.TierCreate true "Tier parameters"
// @Security BearerAuth
// @Success 201 {object} models.MembershipTier
// @Failure 400 {object} map[string]string "error: Invalid royalty"
// @Router /tiers [post]
func CreateTier(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	address := wallet.(string)

	var req models.TierCreate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	if req.RoyaltyBps > 10000 {
		utils.SendLedgerError(c, models.ErrInvalidRoyalty)
		return
	}

	price, err := models.ParseBigInt(req.PriceWei)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price: " + err.Error()})
		return
	}

	tier := models.MembershipTier{
		Creator:     address,
		PriceWei:    price,
		MaxSupply:   req.MaxSupply,
		RoyaltyBps:  req.RoyaltyBps,
		MetadataCid: req.MetadataCid,
		Active:      true,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.RegisterCreator(tx, address); err != nil {
			return err
		}
		if err := tx.Create(&tier).Error; err != nil {
			return err
		}
		event, err := models.NewLedgerEvent(models.EventTierCreated, gin.H{
			"tierId":      tier.ID,
			"creator":     address,
			"priceWei":    tier.PriceWei,
			"maxSupply":   tier.MaxSupply,
			"royaltyBps":  tier.RoyaltyBps,
			"metadataCid": tier.MetadataCid,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(address, err, "Error creating tier")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating tier: " + err.Error()})
		return
	}

	utils.LogSuccessWithWallet(address, "Tier created")
	c.JSON(http.StatusCreated, tier)
}

// @Summary Toggle a tier's active flag
// @Tags tiers
// @Accept json
// @Produce json
// @Param id path int true "Tier ID"
// @Param body body models.ActiveUpdate true "Desired state"
// @Security BearerAuth
// @Success 200 {object} models.MembershipTier
// @Failure 403 {object} map[string]string "error: Unauthorized"
// @Router /tiers/{id}/active [patch]
func SetTierActive(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	address := wallet.(string)

	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}

	var req models.ActiveUpdate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	var tier models.MembershipTier
	if err := db.DB.First(&tier, "id = ?", tierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tier: " + err.Error()})
		return
	}

	if tier.Creator != address {
		utils.SendLedgerError(c, models.ErrUnauthorized)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tier).Update("active", *req.Active).Error; err != nil {
			return err
		}
		event, err := models.NewLedgerEvent(models.EventTierToggled, gin.H{
			"tierId": tier.ID,
			"active": *req.Active,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating tier: " + err.Error()})
		return
	}

	tier.Active = *req.Active
	c.JSON(http.StatusOK, tier)
}

// @Summary Get a tier by ID
// @Tags tiers
// @Produce json
// @Param id path int true "Tier ID"
// @Success 200 {object} models.MembershipTier
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /tiers/{id} [get]
func GetTier(c *gin.Context) {
	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}

	var tier models.MembershipTier
	if err := db.DB.First(&tier, "id = ?", tierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tier: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, tier)
}

// @Summary List a creator's tiers
// @Tags tiers
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {array} models.MembershipTier
// @Router /creators/{address}/tiers [get]
func GetCreatorTiers(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var tiers []models.MembershipTier
	if err := db.DB.Where("creator = ?", address).Order("id ASC").Find(&tiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tiers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, tiers)
}

// @Summary Mint a membership token
// @Description Pay exactly the tier price to mint the next sequential token. The price is credited to the creator's native escrow.
// @Tags tiers
// @Accept json
// @Produce json
// @Param id path int true "Tier ID"
// @Param body body models.MintRequest true "Attached value (wei)"
// @Security BearerAuth
// @Success 201 {object} models.MembershipToken
// @Failure 402 {object} map[string]string "error: Wrong amount"
// @Failure 409 {object} map[string]string "error: Supply exhausted or tier inactive"
// @Router /tiers/{id}/mint [post]
func Mint(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	minter := wallet.(string)

	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}

	var req models.MintRequest
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	amount, err := models.ParseBigInt(req.AmountWei)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + err.Error()})
		return
	}

	var token models.MembershipToken
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the tier row: the supply check and the minted increment must
		// be one serialized step.
		var tier models.MembershipTier
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tier, "id = ?", tierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if !tier.Active {
			return models.ErrTierInactive
		}
		// Exact payment only; overpayment has no refund path so it is
		// rejected like any other wrong amount.
		if amount.Cmp(tier.PriceWei) != 0 {
			return models.ErrWrongAmount
		}
		if tier.MaxSupply != 0 && tier.Minted >= tier.MaxSupply {
			return models.ErrSupplyExhausted
		}

		token = models.MembershipToken{
			TierID: tier.ID,
			Owner:  minter,
		}
		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		if err := tx.Model(&tier).Update("minted", tier.Minted+1).Error; err != nil {
			return err
		}

		if err := models.CreditEscrow(tx, tier.Creator, models.CurrencyNative, amount); err != nil {
			return err
		}

		tierID := tier.ID
		tokenID := token.ID
		payment := models.PaymentRecord{
			Kind:     models.PaymentMint,
			Currency: models.CurrencyNative,
			TierID:   &tierID,
			TokenID:  &tokenID,
			Payer:    minter,
			Creator:  tier.Creator,
			Amount:   amount,
			PaidAt:   time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		event, err := models.NewLedgerEvent(models.EventTokenMinted, gin.H{
			"tokenId": token.ID,
			"tierId":  tier.ID,
			"owner":   minter,
			"creator": tier.Creator,
			"price":   amount,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(minter, err, "Mint failed")
		utils.SendLedgerError(c, err)
		return
	}

	utils.LogSuccessWithWallet(minter, "Token minted")
	c.JSON(http.StatusCreated, token)
}

// @Summary Get a token by ID
// @Description Returns owner and tier for a token
// @Tags tokens
// @Produce json
// @Param id path int true "Token ID"
// @Success 200 {object} models.MembershipToken
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /tokens/{id} [get]
func GetToken(c *gin.Context) {
	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token id"})
		return
	}

	var token models.MembershipToken
	if err := db.DB.First(&token, "id = ?", tokenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary Total minted token count
// @Tags tokens
// @Produce json
// @Success 200 {object} map[string]int64 "totalSupply"
// @Router /tokens/count [get]
func TotalSupply(c *gin.Context) {
	var count int64
	if err := db.DB.Model(&models.MembershipToken{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting tokens: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalSupply": count})
}

// @Summary Get a token by enumeration index
// @Description Zero-based index over all minted tokens in mint order
// @Tags tokens
// @Produce json
// @Param index path int true "Index"
// @Success 200 {object} models.MembershipToken
// @Failure 404 {object} map[string]string "error: Index out of range"
// @Router /tokens/index/{index} [get]
func TokenByIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	var token models.MembershipToken
	err = db.DB.Order("id ASC").Offset(index).Limit(1).Take(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendLedgerError(c, models.ErrOutOfRange)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving token: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary List holders of a tier
// @Description All tokens of the tier with their current owners (indexed query, not a full-ledger scan)
// @Tags tiers
// @Produce json
// @Param id path int true "Tier ID"
// @Success 200 {array} models.MembershipToken
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /tiers/{id}/holders [get]
func GetTierHolders(c *gin.Context) {
	tierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier id"})
		return
	}

	var tier models.MembershipTier
	if err := db.DB.First(&tier, "id = ?", tierID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving tier: " + err.Error()})
		return
	}

	var tokens []models.MembershipToken
	if err := db.DB.Where("tier_id = ?", tierID).Order("id ASC").Find(&tokens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving holders: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// @Summary Transfer a token
// @Description Move a token to a new owner. Only the current owner may transfer; the tier assignment never changes.
// @Tags tokens
// @Accept json
// @Produce json
// @Param id path int true "Token ID"
// @Param body body models.TokenTransfer true "Recipient"
// @Security BearerAuth
// @Success 200 {object} models.MembershipToken
// @Failure 403 {object} map[string]string "error: Unauthorized"
// @Router /tokens/{id}/transfer [post]
func TransferToken(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	sender := wallet.(string)

	tokenID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token id"})
		return
	}

	var req models.TokenTransfer
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	recipient, err := utils.NormalizeAddress(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient address"})
		return
	}

	var token models.MembershipToken
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&token, "id = ?", tokenID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if token.Owner != sender {
			return models.ErrUnauthorized
		}

		if err := tx.Model(&token).Update("owner", recipient).Error; err != nil {
			return err
		}

		event, err := models.NewLedgerEvent(models.EventTokenTransferred, gin.H{
			"tokenId": token.ID,
			"from":    sender,
			"to":      recipient,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.SendLedgerError(c, err)
		return
	}

	token.Owner = recipient
	c.JSON(http.StatusOK, token)
}
