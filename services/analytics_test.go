package services

import (
	"context"
	"testing"

	"github.com/finassist/finance-bot-api/store/memory"
)

// Analytics over a nil cache client reads straight from the ledger.

func TestExpenseStatsUncached(t *testing.T) {
	st := memory.New()
	budgets := NewBudgetService(st)
	transactions := NewTransactionService(st, budgets)
	analytics := NewAnalyticsService(st, nil)
	ctx := context.Background()

	if _, err := transactions.Add(ctx, 1, dec(-80), "food", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := transactions.Add(ctx, 1, dec(-200), "rent", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := transactions.Add(ctx, 1, dec(1000), "salary", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	stats, err := analytics.ExpenseStats(ctx, 1)
	if err != nil {
		t.Fatalf("ExpenseStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(stats))
	}
	if stats[0].Category != "rent" {
		t.Fatalf("expected rent first, got %s", stats[0].Category)
	}
}

func TestReportDefaultsWindow(t *testing.T) {
	st := memory.New()
	budgets := NewBudgetService(st)
	transactions := NewTransactionService(st, budgets)
	analytics := NewAnalyticsService(st, nil)
	ctx := context.Background()

	if _, err := transactions.Add(ctx, 1, dec(500), "salary", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := transactions.Add(ctx, 1, dec(-120), "food", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	report, err := analytics.Report(ctx, 1, 0)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Days != 30 {
		t.Fatalf("expected default 30-day window, got %d", report.Days)
	}
	if !report.TotalIncome.Equal(dec(500)) || !report.TotalExpense.Equal(dec(-120)) {
		t.Fatalf("unexpected totals: income %s, expense %s", report.TotalIncome, report.TotalExpense)
	}
	if !report.Balance.Equal(dec(380)) {
		t.Fatalf("expected balance 380, got %s", report.Balance)
	}
}

func TestInvalidateWithoutCacheIsNoop(t *testing.T) {
	analytics := NewAnalyticsService(memory.New(), nil)
	analytics.Invalidate(context.Background(), 1)
}
