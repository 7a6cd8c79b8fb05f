package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/middleware"
	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/services"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Validation and business-rule failures carry their message to the caller;
// storage failures are logged and hidden behind a generic 500.
func handleServiceError(c *gin.Context, err error) {
	var ve *models.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, models.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient funds"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Invalid session transition"})
	default:
		log.Printf("❌ Ledger operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// requireUserID rejects requests without a usable X-User-ID header.
func requireUserID(c *gin.Context) (int64, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid X-User-ID header"})
		return 0, false
	}
	return userID, true
}
