package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := s.WithinTx(ctx, func(l store.Ledger) error {
		if err := l.InsertTransaction(ctx, &models.Transaction{UserID: 1, Amount: dec(-10), Category: "food", Type: models.TypeExpense}); err != nil {
			return err
		}
		if err := l.UpsertBudgetEntry(ctx, 1, "food", dec(-10)); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	txs, err := s.ListTransactions(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("transaction survived rollback: %+v", txs)
	}
	entries, err := s.ListBudgetEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListBudgetEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("budget entry survived rollback: %+v", entries)
	}
}

func TestWithinTxCommits(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(l store.Ledger) error {
		return l.InsertTransaction(ctx, &models.Transaction{UserID: 1, Amount: dec(50), Category: "salary", Type: models.TypeIncome})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	txs, err := s.ListTransactions(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}

func TestNestedWithinTxJoinsScope(t *testing.T) {
	s := New()
	ctx := context.Background()

	sentinel := errors.New("inner boom")
	err := s.WithinTx(ctx, func(l store.Ledger) error {
		if err := l.InsertTransaction(ctx, &models.Transaction{UserID: 1, Amount: dec(-5), Category: "food", Type: models.TypeExpense}); err != nil {
			return err
		}
		return l.WithinTx(ctx, func(inner store.Ledger) error {
			return sentinel
		})
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	txs, err := s.ListTransactions(ctx, 1, 0)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("inner failure must roll back the whole scope, got %d rows", len(txs))
	}
}

func TestBudgetEntriesKeepInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, cat := range []string{"food", "transport", "rent"} {
		if err := s.UpsertBudgetEntry(ctx, 1, cat, dec(100)); err != nil {
			t.Fatalf("UpsertBudgetEntry: %v", err)
		}
	}
	// Updating an existing row must not move it.
	if err := s.UpsertBudgetEntry(ctx, 1, "food", dec(200)); err != nil {
		t.Fatalf("UpsertBudgetEntry: %v", err)
	}

	entries, err := s.ListBudgetEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListBudgetEntries: %v", err)
	}
	want := []string{"food", "transport", "rent"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, cat := range want {
		if entries[i].Category != cat {
			t.Fatalf("position %d: expected %s, got %s", i, cat, entries[i].Category)
		}
	}
	if !entries[0].Amount.Equal(dec(200)) {
		t.Fatalf("expected updated food amount 200, got %s", entries[0].Amount)
	}
}

func TestGetAdjustmentDefaultsToZero(t *testing.T) {
	s := New()

	adj, err := s.GetAdjustment(context.Background(), 1, "food")
	if err != nil {
		t.Fatalf("GetAdjustment: %v", err)
	}
	if !adj.IsZero() {
		t.Fatalf("expected zero adjustment for unknown category, got %s", adj)
	}
}

func TestCloseDebtPicksOnlyOpenRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &models.Debt{UserID: 1, Debtor: "Alex", Amount: dec(-300)}
	if err := s.InsertDebt(ctx, first); err != nil {
		t.Fatalf("InsertDebt: %v", err)
	}
	second := &models.Debt{UserID: 1, Debtor: "Alex", Amount: dec(-300)}
	if err := s.InsertDebt(ctx, second); err != nil {
		t.Fatalf("InsertDebt: %v", err)
	}

	// Two identical open rows close one at a time.
	if err := s.CloseDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("first CloseDebt: %v", err)
	}
	if err := s.CloseDebt(ctx, 1, "Alex", dec(-300)); err != nil {
		t.Fatalf("second CloseDebt: %v", err)
	}
	if err := s.CloseDebt(ctx, 1, "Alex", dec(-300)); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound once all rows are closed, got %v", err)
	}
}

func TestTransactionCategoriesFirstAppearance(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, cat := range []string{"food", "rent", "food", "transport"} {
		err := s.InsertTransaction(ctx, &models.Transaction{UserID: 1, Amount: dec(-1), Category: cat, Type: models.TypeExpense})
		if err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	cats, err := s.TransactionCategories(ctx, 1)
	if err != nil {
		t.Fatalf("TransactionCategories: %v", err)
	}
	want := []string{"food", "rent", "transport"}
	if len(cats) != len(want) {
		t.Fatalf("expected %v, got %v", want, cats)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cats)
		}
	}
}

func TestDueReminders(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	past := &models.Reminder{UserID: 1, Text: "pay rent", RemindAt: now.Add(-time.Hour)}
	future := &models.Reminder{UserID: 1, Text: "renew insurance", RemindAt: now.Add(time.Hour)}
	if err := s.InsertReminder(ctx, past); err != nil {
		t.Fatalf("InsertReminder: %v", err)
	}
	if err := s.InsertReminder(ctx, future); err != nil {
		t.Fatalf("InsertReminder: %v", err)
	}

	due, err := s.DueReminders(ctx, now)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Fatalf("expected only the past reminder, got %+v", due)
	}

	if err := s.MarkReminderSent(ctx, past.ID); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
	due, err = s.DueReminders(ctx, now)
	if err != nil {
		t.Fatalf("DueReminders: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("sent reminders must not come due again, got %+v", due)
	}

	if err := s.MarkReminderSent(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown reminder, got %v", err)
	}
}

func TestExpenseStatsBiggestSpendFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows := []models.Transaction{
		{UserID: 1, Amount: dec(-50), Category: "food", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(-200), Category: "rent", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(-30), Category: "food", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(1000), Category: "salary", Type: models.TypeIncome},
	}
	for i := range rows {
		if err := s.InsertTransaction(ctx, &rows[i]); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	stats, err := s.ExpenseStats(ctx, 1)
	if err != nil {
		t.Fatalf("ExpenseStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("income must not appear in expense stats, got %+v", stats)
	}
	if stats[0].Category != "rent" || !stats[0].Total.Equal(dec(-200)) {
		t.Fatalf("expected rent=-200 first, got %+v", stats[0])
	}
	if stats[1].Category != "food" || !stats[1].Total.Equal(dec(-80)) {
		t.Fatalf("expected food=-80 second, got %+v", stats[1])
	}
}

func TestTransactionReport(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows := []models.Transaction{
		{UserID: 1, Amount: dec(1000), Category: "salary", Type: models.TypeIncome},
		{UserID: 1, Amount: dec(-200), Category: "rent", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(-100), Category: "food", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(-50), Category: "transport", Type: models.TypeExpense},
		{UserID: 1, Amount: dec(-10), Category: "coffee", Type: models.TypeExpense},
		{UserID: 2, Amount: dec(-999), Category: "rent", Type: models.TypeExpense},
	}
	for i := range rows {
		if err := s.InsertTransaction(ctx, &rows[i]); err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	report, err := s.TransactionReport(ctx, 1, 30)
	if err != nil {
		t.Fatalf("TransactionReport: %v", err)
	}
	if report.TransactionCount != 5 {
		t.Fatalf("expected 5 transactions in report, got %d", report.TransactionCount)
	}
	if !report.TotalIncome.Equal(dec(1000)) || !report.TotalExpense.Equal(dec(-360)) {
		t.Fatalf("expected income 1000 and expense -360, got %s / %s", report.TotalIncome, report.TotalExpense)
	}
	if !report.Balance.Equal(dec(640)) {
		t.Fatalf("expected balance 640, got %s", report.Balance)
	}
	if len(report.TopExpenseCategories) != 3 {
		t.Fatalf("top categories must be capped at 3, got %d", len(report.TopExpenseCategories))
	}
	if report.TopExpenseCategories[0].Category != "rent" {
		t.Fatalf("expected rent as top expense, got %s", report.TopExpenseCategories[0].Category)
	}
}
