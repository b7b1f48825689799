package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 500

// @Summary Ledger event feed
// @Description Append-only event stream for off-chain indexers. Filter by type and a unix-seconds lower bound.
// @Tags events
// @Produce json
// @Param type query string false "Event type filter"
// @Param after query int false "Only events after this unix timestamp"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {array} models.LedgerEvent
// @Router /events [get]
func GetEvents(c *gin.Context) {
	query := db.DB.Order("created_at ASC")

	if eventType := c.Query("type"); eventType != "" {
		query = query.Where("type = ?", eventType)
	}

	if after := c.Query("after"); after != "" {
		ts, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid after timestamp"})
			return
		}
		query = query.Where("created_at > ?", time.Unix(ts, 0))
	}

	limit := maxPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	var events []models.LedgerEvent
	if err := query.Limit(limit).Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving events: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, events)
}
