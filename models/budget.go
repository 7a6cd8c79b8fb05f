package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetEntry is the displayed budget for one (user, category). It is a
// derived value: sum of the live transactions in the category plus the
// manual adjustment, re-reconciled on every transaction insert and delete.
// One row per (user, category), upsert semantics, no history.
type BudgetEntry struct {
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BudgetAdjustment is the manual correction term a user enters through an
// explicit budget-set. It survives transaction churn: the displayed budget
// always equals the current transaction sum plus this value.
type BudgetAdjustment struct {
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CategoryTotal is one row of an aggregated per-category read view.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type SetBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
