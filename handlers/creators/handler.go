package creators

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

// @Summary Set the caller's profile CID
// @Description Store the IPFS pointer to the caller's profile metadata. First write registers the wallet in the creator set.
// @Tags creators
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Profile CID"
// @Security BearerAuth
// @Success 200 {object} models.Creator
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /profile [put]
func SetProfile(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	address := wallet.(string)

	var req models.ProfileUpdate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	var creator models.Creator
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.RegisterCreator(tx, address); err != nil {
			return err
		}
		if err := tx.Model(&models.Creator{}).
			Where("address = ?", address).
			Update("profile_cid", req.ProfileCid).Error; err != nil {
			return err
		}
		event, err := models.NewLedgerEvent(models.EventProfileUpdated, gin.H{
			"creator":    address,
			"profileCid": req.ProfileCid,
		})
		if err != nil {
			return err
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.First(&creator, "address = ?", address).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(address, err, "Error updating profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile: " + err.Error()})
		return
	}

	utils.LogSuccessWithWallet(address, "Profile updated")
	c.JSON(http.StatusOK, creator)
}

// @Summary Get a creator's profile
// @Description Retrieve the profile CID for a wallet. Empty CID means the profile was never set.
// @Tags creators
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {object} models.Creator
// @Failure 400 {object} map[string]string "error: Invalid address"
// @Router /creators/{address}/profile [get]
func GetProfile(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var creator models.Creator
	err = db.DB.First(&creator, "address = ?", address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unknown wallets read as an empty profile, like the contract's
		// default storage slot.
		c.JSON(http.StatusOK, models.Creator{Address: address})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving profile: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, creator)
}

// @Summary List all creators
// @Description All registered creator wallets in registration order
// @Tags creators
// @Produce json
// @Success 200 {array} models.Creator
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /creators [get]
func GetAllCreators(c *gin.Context) {
	var creators []models.Creator
	if err := db.DB.Order("seq ASC").Find(&creators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving creators: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, creators)
}

// @Summary Count registered creators
// @Tags creators
// @Produce json
// @Success 200 {object} map[string]int64 "count"
// @Router /creators/count [get]
func GetCreatorCount(c *gin.Context) {
	var count int64
	if err := db.DB.Model(&models.Creator{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting creators: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// @Summary Get a creator by enumeration index
// @Description Zero-based index into the creator set, in registration order
// @Tags creators
// @Produce json
// @Param index path int true "Index"
// @Success 200 {object} models.Creator
// @Failure 404 {object} map[string]string "error: Index out of range"
// @Router /creators/index/{index} [get]
func GetCreatorByIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	var creator models.Creator
	err = db.DB.Order("seq ASC").Offset(index).Limit(1).Take(&creator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendLedgerError(c, models.ErrOutOfRange)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving creator: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, creator)
}
