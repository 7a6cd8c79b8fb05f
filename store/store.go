// Package store defines the durable ledger the finance services run on:
// key/range CRUD over transactions, budgets, adjustments, debts, goals and
// reminders, always scoped by user id. Two implementations exist, Postgres
// for production and an in-memory store for tests and local runs.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
)

// Ledger is the storage contract of the finance core.
//
// WithinTx runs fn against a transactional view of the ledger. Everything fn
// does either commits as a whole or leaves no trace; nesting is allowed and
// joins the enclosing transaction. Services wrap every read-modify-write in
// WithinTx so concurrent calls on the same (user, category) or (user,
// debtor) cannot interleave into lost updates.
type Ledger interface {
	WithinTx(ctx context.Context, fn func(Ledger) error) error

	// Transactions. Listings are ordered newest first.
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	FilterTransactions(ctx context.Context, userID int64, param string, limit int) ([]models.Transaction, error)
	LastTransaction(ctx context.Context, userID int64) (*models.Transaction, error)
	SumTransactions(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
	// TransactionCategories returns the user's categories in order of first
	// appearance in the transaction stream.
	TransactionCategories(ctx context.Context, userID int64) ([]string, error)

	// Budget entries, one per (user, category). The upsert is a single
	// atomic statement, never read-then-write. ListBudgetEntries keeps
	// insertion order.
	UpsertBudgetEntry(ctx context.Context, userID int64, category string, amount decimal.Decimal) error
	ListBudgetEntries(ctx context.Context, userID int64) ([]models.BudgetEntry, error)
	ClearBudgetEntries(ctx context.Context, userID int64) error

	// Manual adjustments, one per (user, category). GetAdjustment returns
	// zero when none is stored.
	UpsertAdjustment(ctx context.Context, userID int64, category string, amount decimal.Decimal) error
	GetAdjustment(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
	ListAdjustments(ctx context.Context, userID int64) ([]models.BudgetAdjustment, error)

	// Debts. CloseDebt flips exactly one open row matching (user, debtor,
	// amount) to closed and returns models.ErrNotFound when there is none.
	InsertDebt(ctx context.Context, d *models.Debt) error
	ActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error)
	DebtHistory(ctx context.Context, userID int64) ([]models.Debt, error)
	CloseDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error

	InsertGoal(ctx context.Context, g *models.Goal) error
	ListGoals(ctx context.Context, userID int64) ([]models.Goal, error)

	InsertReminder(ctx context.Context, r *models.Reminder) error
	DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error)
	MarkReminderSent(ctx context.Context, id string) error

	// Aggregated read views consumed by the chart/export collaborator.
	ExpenseStats(ctx context.Context, userID int64) ([]models.CategoryTotal, error)
	TransactionReport(ctx context.Context, userID int64, days int) (*models.Report, error)
}
