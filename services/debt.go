package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// RepaymentCategory is where compensating transactions from debt settlement
// land in the budget.
const RepaymentCategory = "debt repayment"

// DebtService tracks signed debt lines. Negative amount means the user owes
// the counterparty, positive means the counterparty owes the user. Closing
// is terminal; settlement bridges into the transaction stream atomically.
type DebtService struct {
	store   store.Ledger
	budgets *BudgetService
}

func NewDebtService(st store.Ledger, budgets *BudgetService) *DebtService {
	return &DebtService{store: st, budgets: budgets}
}

// SaveDebt records a new open debt. The caller decides the sign.
func (s *DebtService) SaveDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) (*models.Debt, error) {
	debtor = strings.TrimSpace(debtor)
	if debtor == "" {
		return nil, models.NewValidationError("debtor", "must not be empty")
	}
	if amount.IsZero() {
		return nil, models.NewValidationError("amount", "must be non-zero")
	}

	d := &models.Debt{
		UserID: userID,
		Debtor: debtor,
		Amount: amount,
		Status: models.DebtOpen,
	}
	if err := s.store.InsertDebt(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ActiveDebts returns the user's open debt lines.
func (s *DebtService) ActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.store.ActiveDebts(ctx, userID)
}

// DebtHistory returns all debt lines, newest first.
func (s *DebtService) DebtHistory(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.store.DebtHistory(ctx, userID)
}

// CloseDebt closes the open debt exactly matching (debtor, amount). No fuzzy
// matching on the amount; models.ErrNotFound when nothing matches.
func (s *DebtService) CloseDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	return s.store.CloseDebt(ctx, userID, strings.TrimSpace(debtor), amount)
}

// SettleFromBudget pays down a debt the user owes. amount is the positive
// magnitude; the matching open row carries -amount. The funds check, the
// close and the compensating expense commit in one storage transaction, so
// a failure at any step leaves the debt open and the budget untouched.
func (s *DebtService) SettleFromBudget(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return models.NewValidationError("amount", "must be positive")
	}
	debtor = strings.TrimSpace(debtor)

	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		available, err := s.budgets.totalAvailable(ctx, l, userID)
		if err != nil {
			return err
		}
		if available.LessThan(amount) {
			return models.ErrInsufficientFunds
		}

		if err := l.CloseDebt(ctx, userID, debtor, amount.Neg()); err != nil {
			return err
		}

		t := &models.Transaction{
			UserID:   userID,
			Amount:   amount.Neg(),
			Category: RepaymentCategory,
			Type:     models.TypeExpense,
		}
		if err := l.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return s.budgets.reconcile(ctx, l, userID, RepaymentCategory)
	})
}

// SettleIntoBudget records a counterparty paying the user back: closes the
// open row carrying +amount and credits the budget with an income
// transaction, again in one storage transaction.
func (s *DebtService) SettleIntoBudget(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return models.NewValidationError("amount", "must be positive")
	}
	debtor = strings.TrimSpace(debtor)

	return s.store.WithinTx(ctx, func(l store.Ledger) error {
		if err := l.CloseDebt(ctx, userID, debtor, amount); err != nil {
			return err
		}

		t := &models.Transaction{
			UserID:   userID,
			Amount:   amount,
			Category: RepaymentCategory,
			Type:     models.TypeIncome,
		}
		if err := l.InsertTransaction(ctx, t); err != nil {
			return err
		}
		return s.budgets.reconcile(ctx, l, userID, RepaymentCategory)
	})
}
