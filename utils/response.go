package utils

import (
	"errors"
	"net/http"

	"github.com/M4N4N22/SubHub/models"
	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendSuccess sends a success response.
func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError sends an error response.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

// SendLedgerError maps the ledger error taxonomy to HTTP statuses. Unknown
// errors become 500s without leaking internals.
func SendLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		SendError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrOutOfRange):
		SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrPlanInactive),
		errors.Is(err, models.ErrTierInactive),
		errors.Is(err, models.ErrSupplyExhausted),
		errors.Is(err, models.ErrNothingToWithdraw):
		SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrWrongAmount),
		errors.Is(err, models.ErrInsufficientAllowance):
		SendError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, models.ErrInvalidRoyalty),
		errors.Is(err, models.ErrInvalidReference):
		SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrTransferFailed):
		SendError(c, http.StatusBadGateway, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, "internal error")
	}
}

// ValidateRequestBody binds JSON and reports a 400 on failure.
func ValidateRequestBody(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		SendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
