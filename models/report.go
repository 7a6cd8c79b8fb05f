package models

import "github.com/shopspring/decimal"

// Report is the aggregated transaction view for the last N days. Expense
// totals keep their stored (negative) sign; Balance is the signed net.
type Report struct {
	TotalIncome          decimal.Decimal `json:"total_income"`
	TotalExpense         decimal.Decimal `json:"total_expense"`
	Balance              decimal.Decimal `json:"balance"`
	TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`
	TransactionCount     int             `json:"transaction_count"`
	Days                 int             `json:"days"`
}
