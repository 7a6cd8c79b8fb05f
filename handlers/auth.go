package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/utils"
)

type AuthHandler struct {
	DB *sql.DB
}

// Token exchanges a service-account name and secret for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var account models.ServiceAccount
	var secretHash string
	err := h.DB.QueryRow(`
		SELECT id, name, secret_hash, created_at
		FROM service_accounts
		WHERE name = $1
	`, req.Name).Scan(&account.ID, &account.Name, &secretHash, &account.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !utils.CheckPassword(req.Secret, secretHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(account.ID, account.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: accessToken,
		Account:     account,
	})
}
