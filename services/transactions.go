package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// TransactionService owns the transaction stream. Every mutation runs the
// budget reconciliation inside the same storage transaction, so the budget
// invariant holds at every commit point.
type TransactionService struct {
	store   store.Ledger
	budgets *BudgetService
}

func NewTransactionService(st store.Ledger, budgets *BudgetService) *TransactionService {
	return &TransactionService{store: st, budgets: budgets}
}

// Add records a transaction. When txType is empty it is inferred from the
// sign of the amount; an explicit type is kept as given, even if it
// contradicts the sign.
func (s *TransactionService) Add(ctx context.Context, userID int64, amount decimal.Decimal, category, txType string) (*models.Transaction, error) {
	if amount.IsZero() {
		return nil, models.NewValidationError("amount", "must be non-zero")
	}

	category = NormalizeCategory(category)
	if category == "" {
		return nil, models.NewValidationError("category", "must not be empty")
	}

	switch txType {
	case "":
		txType = models.InferType(amount)
	case models.TypeIncome, models.TypeExpense:
	default:
		return nil, models.NewValidationError("type", "must be income or expense")
	}

	t := &models.Transaction{
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Type:      txType,
		Timestamp: time.Now(),
	}

	err := s.store.WithinTx(ctx, func(l store.Ledger) error {
		if err := l.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return s.budgets.reconcile(ctx, l, userID, category)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a transaction by id and reverses its budget effect. Returns
// models.ErrNotFound when no such transaction exists.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		deleted, err := l.DeleteTransaction(ctx, id)
		if err != nil {
			return err
		}
		return s.budgets.reconcile(ctx, l, deleted.UserID, deleted.Category)
	})
}

// History returns the user's most recent transactions, newest first.
func (s *TransactionService) History(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, limit)
}

// Filter returns transactions whose category or type matches param.
func (s *TransactionService) Filter(ctx context.Context, userID int64, param string, limit int) ([]models.Transaction, error) {
	return s.store.FilterTransactions(ctx, userID, NormalizeCategory(param), limit)
}

// Last returns the user's most recent transaction.
func (s *TransactionService) Last(ctx context.Context, userID int64) (*models.Transaction, error) {
	return s.store.LastTransaction(ctx, userID)
}
