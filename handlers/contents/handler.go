package contents

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
)

// dbEntitlements resolves gate questions against the ledger tables.
type dbEntitlements struct {
	tx        *gorm.DB
	requester string
	now       time.Time
}

func (e *dbEntitlements) HasActiveSubscription(planID uint64) bool {
	var sub models.Subscription
	err := e.tx.First(&sub, "plan_id = ? AND subscriber = ?", planID, e.requester).Error
	if err != nil {
		return false
	}
	return sub.ActiveAt(e.now)
}

func (e *dbEntitlements) OwnsTierToken(tierID uint64) bool {
	var count int64
	e.tx.Model(&models.MembershipToken{}).
		Where("tier_id = ? AND owner = ?", tierID, e.requester).
		Count(&count)
	return count > 0
}

func (e *dbEntitlements) OwnsAnyTokenOf(creator string) bool {
	var count int64
	e.tx.Model(&models.MembershipToken{}).
		Joins("JOIN membership_tiers ON membership_tiers.id = membership_tokens.tier_id").
		Where("membership_tokens.owner = ? AND membership_tiers.creator = ?", e.requester, creator).
		Count(&count)
	return count > 0
}

// @Summary Publish a content post
// @Description Attach a gate to a CID. Gated plans/tiers must exist and belong to the caller.
// @Tags contents
// @Accept json
// @Produce json
// @Param content body models.ContentCreate true "Gate and CID"
// @Security BearerAuth
// @Success 201 {object} models.ContentPost
// @Failure 400 {object} map[string]string "error: Invalid reference"
// @Router /contents [post]
func PostContent(c *gin.Context) {
	wallet, exists := c.Get("wallet")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Wallet not found in token"})
		return
	}
	creator := wallet.(string)

	var req models.ContentCreate
	if !utils.ValidateRequestBody(c, &req) {
		return
	}

	if !req.Gate.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gate type"})
		return
	}

	post := models.ContentPost{
		Creator:    creator,
		ContentCid: req.ContentCid,
		Gate:       req.Gate,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Gate references must point at the caller's own offerings.
		switch req.Gate {
		case models.GateSubscriptionOnly, models.GateSubscriptionOrNFT:
			if req.PlanID == 0 {
				return models.ErrInvalidReference
			}
			var plan models.SubscriptionPlan
			if err := tx.First(&plan, "id = ?", req.PlanID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrInvalidReference
				}
				return err
			}
			if plan.Creator != creator {
				return models.ErrInvalidReference
			}
			planID := req.PlanID
			post.PlanID = &planID
		}

		switch req.Gate {
		case models.GateSpecificTier:
			if req.TierID == 0 {
				return models.ErrInvalidReference
			}
			fallthrough
		case models.GateSubscriptionOrNFT:
			if req.TierID != 0 {
				var tier models.MembershipTier
				if err := tx.First(&tier, "id = ?", req.TierID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return models.ErrInvalidReference
					}
					return err
				}
				if tier.Creator != creator {
					return models.ErrInvalidReference
				}
				tierID := req.TierID
				post.TierID = &tierID
			}
		}

		if err := models.RegisterCreator(tx, creator); err != nil {
			return err
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		event, err := models.NewLedgerEvent(models.EventContentPosted, gin.H{
			"contentId":  post.ID,
			"creator":    creator,
			"contentCid": post.ContentCid,
			"gate":       post.Gate,
			"planId":     post.PlanID,
			"tierId":     post.TierID,
		})
		if err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		utils.LogErrorWithWallet(creator, err, "Error posting content")
		utils.SendLedgerError(c, err)
		return
	}

	utils.LogSuccessWithWallet(creator, "Content posted")
	c.JSON(http.StatusCreated, post)
}

// @Summary Get a content post by ID
// @Tags contents
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} models.ContentPost
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /contents/{id} [get]
func GetContent(c *gin.Context) {
	contentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	var post models.ContentPost
	if err := db.DB.First(&post, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving content: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary List a creator's posts
// @Description Newest first, matching the creator library ordering
// @Tags contents
// @Produce json
// @Param address path string true "Creator wallet address"
// @Success 200 {array} models.ContentPost
// @Router /creators/{address}/contents [get]
func GetCreatorContents(c *gin.Context) {
	address, err := utils.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var posts []models.ContentPost
	if err := db.DB.Where("creator = ?", address).Order("created_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving contents: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// @Summary Resolve access to a post
// @Description Pure allow/deny decision for a requester against the post's gate. Never mutates state.
// @Tags contents
// @Produce json
// @Param id path int true "Content ID"
// @Param requester query string true "Requester wallet address"
// @Success 200 {object} models.AccessDecision
// @Failure 404 {object} map[string]string "error: Not found"
// @Router /contents/{id}/access [get]
func ResolveAccess(c *gin.Context) {
	contentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	requester, err := utils.NormalizeAddress(c.Query("requester"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requester address"})
		return
	}

	var post models.ContentPost
	if err := db.DB.First(&post, "id = ?", contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendLedgerError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving content: " + err.Error()})
		return
	}

	decision := Resolve(&post, &dbEntitlements{
		tx:        db.DB,
		requester: requester,
		now:       time.Now(),
	})

	c.JSON(http.StatusOK, decision)
}

// @Summary Pin a media file
// @Description Upload a file to the content store and return its CID
// @Tags contents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Media file"
// @Security BearerAuth
// @Success 200 {object} map[string]string "cid"
// @Failure 500 {object} map[string]string "error: Upload failed"
// @Router /contents/media [post]
func UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	cid, err := utils.PinFile(file)
	if err != nil {
		utils.LogError(err, "Error pinning media")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading file: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cid": cid})
}

// @Summary Pin a metadata document
// @Description Upload a JSON document to the content store and return its CID
// @Tags contents
// @Accept json
// @Produce json
// @Param json body object true "Metadata document"
// @Security BearerAuth
// @Success 200 {object} map[string]string "cid"
// @Router /contents/metadata [post]
func UploadMetadata(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	cid, err := utils.PinJSON(payload)
	if err != nil {
		utils.LogError(err, "Error pinning metadata")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading metadata: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cid": cid})
}
