package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is an append-only wish-list entry. No reconciliation applies.
type Goal struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type AddGoalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"required"`
}
