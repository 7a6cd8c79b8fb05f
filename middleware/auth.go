package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finassist/finance-bot-api/utils"
)

// AuthMiddleware validates the service-account bearer token and stashes the
// account identity in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("account_id", claims.AccountID)
		c.Set("account_name", claims.AccountName)
		c.Next()
	}
}

// GetAccountID returns the authenticated service account id, empty when the
// request is unauthenticated.
func GetAccountID(c *gin.Context) string {
	return c.GetString("account_id")
}

// GetAccountName returns the authenticated service account name.
func GetAccountName(c *gin.Context) string {
	return c.GetString("account_name")
}

// GetUserID returns the acting chat user from the X-User-ID header the bot
// sets on every call. Zero means the header is missing or unparsable.
func GetUserID(c *gin.Context) int64 {
	userID, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil {
		return 0
	}
	return userID
}
