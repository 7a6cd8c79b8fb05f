package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// BudgetService keeps the displayed budget of every (user, category)
// consistent with the live transaction stream while preserving the user's
// manual adjustment:
//
//	entry.amount == sum(transactions in category) + adjustment
//
// The transaction total is always recomputed from the ledger, never
// accumulated incrementally, so repeated inserts and deletes cannot drift.
type BudgetService struct {
	store store.Ledger
}

func NewBudgetService(st store.Ledger) *BudgetService {
	return &BudgetService{store: st}
}

// reconcile rebuilds one budget entry from the ledger state visible in l.
// Callers that mutate transactions invoke it inside the same transaction.
func (s *BudgetService) reconcile(ctx context.Context, l store.Ledger, userID int64, category string) error {
	total, err := l.SumTransactions(ctx, userID, category)
	if err != nil {
		return err
	}
	adjustment, err := l.GetAdjustment(ctx, userID, category)
	if err != nil {
		return err
	}
	return l.UpsertBudgetEntry(ctx, userID, category, total.Add(adjustment))
}

// RecordTransactionEffect re-derives the budget entry after a transaction
// insert. Creates the entry if the category is new.
func (s *BudgetService) RecordTransactionEffect(ctx context.Context, userID int64, category string) error {
	category = NormalizeCategory(category)
	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		return s.reconcile(ctx, l, userID, category)
	})
}

// ReverseTransactionEffect re-derives the budget entry after a transaction
// delete. The total comes from the post-delete ledger state, not from naive
// subtraction, so it stays correct under concurrent edits.
func (s *BudgetService) ReverseTransactionEffect(ctx context.Context, userID int64, category string) error {
	return s.RecordTransactionEffect(ctx, userID, category)
}

// SetBudget makes the displayed budget equal desired. The stored adjustment
// becomes desired minus the current transaction total, so later inserts and
// deletes reconcile back to this intent plus the new transaction delta.
func (s *BudgetService) SetBudget(ctx context.Context, userID int64, category string, desired decimal.Decimal) error {
	category = NormalizeCategory(category)
	if category == "" {
		return models.NewValidationError("category", "must not be empty")
	}

	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		total, err := l.SumTransactions(ctx, userID, category)
		if err != nil {
			return err
		}
		if err := l.UpsertAdjustment(ctx, userID, category, desired.Sub(total)); err != nil {
			return err
		}
		return l.UpsertBudgetEntry(ctx, userID, category, desired)
	})
}

// Budgets returns the user's budget entries in insertion order.
func (s *BudgetService) Budgets(ctx context.Context, userID int64) ([]models.BudgetEntry, error) {
	return s.store.ListBudgetEntries(ctx, userID)
}

// RecalculateAll wipes the user's budget entries and rebuilds every one from
// the transaction stream plus stored adjustments. Idempotent; used for
// repair and migration.
func (s *BudgetService) RecalculateAll(ctx context.Context, userID int64) error {
	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		categories, err := l.TransactionCategories(ctx, userID)
		if err != nil {
			return err
		}
		adjustments, err := l.ListAdjustments(ctx, userID)
		if err != nil {
			return err
		}

		if err := l.ClearBudgetEntries(ctx, userID); err != nil {
			return err
		}

		rebuilt := map[string]bool{}
		for _, category := range categories {
			if err := s.reconcile(ctx, l, userID, category); err != nil {
				return err
			}
			rebuilt[category] = true
		}

		// Adjustment-only categories (budget set before any transaction)
		// survive the rebuild too.
		for _, a := range adjustments {
			if rebuilt[a.Category] {
				continue
			}
			if err := l.UpsertBudgetEntry(ctx, userID, a.Category, a.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

// totalAvailable sums the displayed budget over all categories, as seen by l.
func (s *BudgetService) totalAvailable(ctx context.Context, l store.Ledger, userID int64) (decimal.Decimal, error) {
	entries, err := l.ListBudgetEntries(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}
