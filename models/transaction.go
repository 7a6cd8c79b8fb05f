package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. The sign of the amount is the source of truth when the
// caller does not supply a type explicitly.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
}

// InferType applies the default typing rule: positive amounts are income,
// everything else is an expense. Only used when the caller omits the type;
// an explicit caller-supplied type is never overridden.
func InferType(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return TypeIncome
	}
	return TypeExpense
}

type AddTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category" binding:"required"`
	Type     string          `json:"type"`
}
