package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt lifecycle statuses. A debt is created open and closing it is
// terminal; rows are never reopened and never truly deleted.
const (
	DebtOpen   = "open"
	DebtClosed = "closed"
)

// Debt is one signed ledger line against a counterparty. Negative amount
// means the user owes that party, positive means the party owes the user.
// Several rows may share a debtor name; they are independent lines, not a
// running balance.
type Debt struct {
	ID      string          `json:"id"`
	UserID  int64           `json:"user_id"`
	Debtor  string          `json:"debtor"`
	Amount  decimal.Decimal `json:"amount"`
	Status  string          `json:"status"`
	DueDate time.Time       `json:"due_date"`
}

type SaveDebtRequest struct {
	Debtor string          `json:"debtor" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type CloseDebtRequest struct {
	Debtor string          `json:"debtor" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// SettleDebtRequest settles a debt against the budget. Direction "from"
// pays a debt the user owes out of the budget, "into" records a repayment
// received. Amount is the positive magnitude in both cases.
type SettleDebtRequest struct {
	Debtor    string          `json:"debtor" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction" binding:"required"`
}
