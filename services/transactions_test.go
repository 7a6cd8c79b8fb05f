package services

import (
	"context"
	"errors"
	"testing"

	"github.com/finassist/finance-bot-api/models"
)

func TestAddInfersTypeFromSign(t *testing.T) {
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	income, err := transactions.Add(ctx, 1, dec(1500), "salary", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if income.Type != models.TypeIncome {
		t.Fatalf("expected income for positive amount, got %q", income.Type)
	}

	expense, err := transactions.Add(ctx, 1, dec(-40), "food", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if expense.Type != models.TypeExpense {
		t.Fatalf("expected expense for negative amount, got %q", expense.Type)
	}
}

func TestAddKeepsExplicitType(t *testing.T) {
	// A caller-supplied type wins even when it contradicts the sign.
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	tx, err := transactions.Add(ctx, 1, dec(-100), "refund", models.TypeIncome)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tx.Type != models.TypeIncome {
		t.Fatalf("explicit type overridden: got %q", tx.Type)
	}
}

func TestAddValidation(t *testing.T) {
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	cases := []struct {
		name     string
		amount   int64
		category string
		txType   string
	}{
		{"zero amount", 0, "food", ""},
		{"blank category", -10, "   ", ""},
		{"bad type", -10, "food", "transfer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := transactions.Add(ctx, 1, dec(tc.amount), tc.category, tc.txType); !models.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDeleteUnknownTransaction(t *testing.T) {
	_, transactions, _ := newTestServices()

	err := transactions.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	first, err := transactions.Add(ctx, 1, dec(-10), "food", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := transactions.Add(ctx, 1, dec(-20), "food", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	history, err := transactions.History(ctx, 1, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(history))
	}
	if history[0].ID != second.ID || history[1].ID != first.ID {
		t.Fatalf("expected newest first, got %s then %s", history[0].ID, history[1].ID)
	}

	limited, err := transactions.History(ctx, 1, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatalf("limit must keep the newest row, got %+v", limited)
	}
}

func TestFilterByCategoryAndType(t *testing.T) {
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	if _, err := transactions.Add(ctx, 1, dec(-10), "food", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := transactions.Add(ctx, 1, dec(-20), "transport", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := transactions.Add(ctx, 1, dec(900), "salary", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	byCategory, err := transactions.Filter(ctx, 1, "Food", 10)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Category != "food" {
		t.Fatalf("expected one food transaction, got %+v", byCategory)
	}

	byType, err := transactions.Filter(ctx, 1, models.TypeExpense, 10)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(byType) != 2 {
		t.Fatalf("expected two expenses, got %d", len(byType))
	}
}

func TestLastTransaction(t *testing.T) {
	_, transactions, _ := newTestServices()
	ctx := context.Background()

	if _, err := transactions.Last(ctx, 1); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty stream")
	}

	if _, err := transactions.Add(ctx, 1, dec(-10), "food", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	want, err := transactions.Add(ctx, 1, dec(-20), "transport", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := transactions.Last(ctx, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("expected last transaction %s, got %s", want.ID, got.ID)
	}
}
