package middleware

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CommandLogger records every mutating call into command_logs for the usage
// audit. The insert is fire-and-forget: it runs after the response and a
// failure is only logged, never surfaced, so the audit can never corrupt a
// ledger operation or hold it up.
func CommandLogger(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}

		userID := GetUserID(c)
		accountName := GetAccountName(c)
		command := c.Request.Method + " " + c.FullPath()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_, err := db.ExecContext(ctx, `
				INSERT INTO command_logs (user_id, account_name, command)
				VALUES ($1, $2, $3)
			`, userID, accountName, command)
			if err != nil {
				log.Printf("⚠️ Command log insert failed: %v", err)
			}
		}()
	}
}
