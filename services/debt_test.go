package services

import (
	"context"
	"errors"
	"testing"

	"github.com/finassist/finance-bot-api/models"
)

func TestSaveDebtValidation(t *testing.T) {
	_, _, debts := newTestServices()
	ctx := context.Background()

	if _, err := debts.SaveDebt(ctx, 1, "  ", dec(100)); !models.IsValidation(err) {
		t.Fatalf("expected validation error for blank debtor, got %v", err)
	}
	if _, err := debts.SaveDebt(ctx, 1, "Alex", dec(0)); !models.IsValidation(err) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
}

func TestCloseDebtExactMatch(t *testing.T) {
	_, _, debts := newTestServices()
	ctx := context.Background()

	if _, err := debts.SaveDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("SaveDebt: %v", err)
	}

	// Wrong amount, wrong debtor, wrong user: nothing matches.
	if err := debts.CloseDebt(ctx, 1, "Alex", dec(-200)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for amount mismatch, got %v", err)
	}
	if err := debts.CloseDebt(ctx, 1, "Dana", dec(-300)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for debtor mismatch, got %v", err)
	}
	if err := debts.CloseDebt(ctx, 2, "Alex", dec(-300)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}

	active, err := debts.ActiveDebts(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveDebts: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("failed closes must not mutate, got %d active debts", len(active))
	}

	if err := debts.CloseDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("CloseDebt: %v", err)
	}
	active, err = debts.ActiveDebts(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveDebts: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active debts after close, got %d", len(active))
	}

	// Closing is terminal, a second close finds nothing.
	if err := debts.CloseDebt(ctx, 1, "Alex", dec(-300)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double close, got %v", err)
	}

	history, err := debts.DebtHistory(ctx, 1)
	if err != nil {
		t.Fatalf("DebtHistory: %v", err)
	}
	if len(history) != 1 || history[0].Status != models.DebtClosed {
		t.Fatalf("expected one closed debt in history, got %+v", history)
	}
}

func TestSettleFromBudgetInsufficientFunds(t *testing.T) {
	// The user owes 300 but only has 100 across all budgets. The settlement
	// must fail and leave everything untouched.
	budgets, transactions, debts := newTestServices()
	ctx := context.Background()

	if _, err := debts.SaveDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("SaveDebt: %v", err)
	}
	if err := budgets.SetBudget(ctx, 1, "misc", dec(100)); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	err := debts.SettleFromBudget(ctx, 1, "Alex", dec(300))
	if !errors.Is(err, models.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	active, err := debts.ActiveDebts(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveDebts: %v", err)
	}
	if len(active) != 1 || active[0].Status != models.DebtOpen {
		t.Fatalf("debt must remain open after failed settlement, got %+v", active)
	}

	history, err := transactions.History(ctx, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("no repayment transaction may exist after failed settlement, got %d", len(history))
	}
	if got := budgetAmount(t, budgets, 1, "misc"); !got.Equal(dec(100)) {
		t.Fatalf("budget must be untouched after failed settlement, got %s", got)
	}
}

func TestSettleFromBudgetSuccess(t *testing.T) {
	budgets, transactions, debts := newTestServices()
	ctx := context.Background()

	if _, err := debts.SaveDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("SaveDebt: %v", err)
	}
	if err := budgets.SetBudget(ctx, 1, "misc", dec(500)); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	if err := debts.SettleFromBudget(ctx, 1, "Alex", dec(300)); err != nil {
		t.Fatalf("SettleFromBudget: %v", err)
	}

	active, err := debts.ActiveDebts(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveDebts: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected debt closed, got %d active", len(active))
	}

	last, err := transactions.Last(ctx, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Category != RepaymentCategory || last.Type != models.TypeExpense || !last.Amount.Equal(dec(-300)) {
		t.Fatalf("expected -300 expense in %q, got %+v", RepaymentCategory, last)
	}

	if got := budgetAmount(t, budgets, 1, RepaymentCategory); !got.Equal(dec(-300)) {
		t.Fatalf("expected repayment budget -300, got %s", got)
	}
	// The misc budget is adjustment-backed and stays at 500.
	if got := budgetAmount(t, budgets, 1, "misc"); !got.Equal(dec(500)) {
		t.Fatalf("expected misc budget 500, got %s", got)
	}
}

func TestSettleIntoBudget(t *testing.T) {
	budgets, transactions, debts := newTestServices()
	ctx := context.Background()

	if _, err := debts.SaveDebt(ctx, 1, "Dana", dec(200)); err != nil {
		t.Fatalf("SaveDebt: %v", err)
	}

	if err := debts.SettleIntoBudget(ctx, 1, "Dana", dec(200)); err != nil {
		t.Fatalf("SettleIntoBudget: %v", err)
	}

	active, err := debts.ActiveDebts(ctx, 1)
	if err != nil {
		t.Fatalf("ActiveDebts: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected debt closed, got %d active", len(active))
	}

	last, err := transactions.Last(ctx, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Type != models.TypeIncome || !last.Amount.Equal(dec(200)) {
		t.Fatalf("expected +200 income, got %+v", last)
	}
	if got := budgetAmount(t, budgets, 1, RepaymentCategory); !got.Equal(dec(200)) {
		t.Fatalf("expected repayment budget 200, got %s", got)
	}
}

func TestSettleRequiresPositiveAmount(t *testing.T) {
	_, _, debts := newTestServices()
	ctx := context.Background()

	if err := debts.SettleFromBudget(ctx, 1, "Alex", dec(-50)); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := debts.SettleIntoBudget(ctx, 1, "Alex", dec(0)); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSettleMissingDebtRollsBack(t *testing.T) {
	// Enough funds but no matching open debt: the compensating transaction
	// must not survive the failed close.
	budgets, transactions, debts := newTestServices()
	ctx := context.Background()

	if err := budgets.SetBudget(ctx, 1, "misc", dec(500)); err != nil {
		t.Fatalf("SetBudget: %v", err)
	}

	err := debts.SettleFromBudget(ctx, 1, "Alex", dec(300))
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	history, err := transactions.History(ctx, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty transaction stream after rollback, got %d", len(history))
	}
}
