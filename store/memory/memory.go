// Package memory is the in-memory Ledger used by the test suite and local
// development. One mutex guards all state; WithinTx holds it for the whole
// closure and restores a snapshot on error, which gives the same
// all-or-nothing semantics the Postgres store gets from sql.Tx.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

type state struct {
	transactions []models.Transaction
	budgets      map[int64][]models.BudgetEntry
	adjustments  map[int64][]models.BudgetAdjustment
	debts        []models.Debt
	goals        []models.Goal
	reminders    []models.Reminder
}

func newState() *state {
	return &state{
		budgets:     make(map[int64][]models.BudgetEntry),
		adjustments: make(map[int64][]models.BudgetAdjustment),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.transactions = append([]models.Transaction(nil), s.transactions...)
	c.debts = append([]models.Debt(nil), s.debts...)
	c.goals = append([]models.Goal(nil), s.goals...)
	c.reminders = append([]models.Reminder(nil), s.reminders...)
	for uid, entries := range s.budgets {
		c.budgets[uid] = append([]models.BudgetEntry(nil), entries...)
	}
	for uid, adjs := range s.adjustments {
		c.adjustments[uid] = append([]models.BudgetAdjustment(nil), adjs...)
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// WithinTx serializes against all other operations and rolls the state back
// if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&view{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view is the unlocked ledger handed to WithinTx closures. Nested WithinTx
// joins the enclosing scope.
type view struct {
	st *state
}

func (v *view) WithinTx(ctx context.Context, fn func(store.Ledger) error) error {
	return fn(v)
}

// Store methods outside a transaction take the lock per call.

func (s *Store) locked(fn func(*view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{st: s.st})
}

func (v *view) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	v.st.transactions = append(v.st.transactions, *t)
	return nil
}

func (v *view) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	for i, t := range v.st.transactions {
		if t.ID == id {
			deleted := t
			v.st.transactions = append(v.st.transactions[:i], v.st.transactions[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, models.ErrNotFound
}

func (v *view) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for i := len(v.st.transactions) - 1; i >= 0; i-- {
		if v.st.transactions[i].UserID != userID {
			continue
		}
		out = append(out, v.st.transactions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (v *view) FilterTransactions(ctx context.Context, userID int64, param string, limit int) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for i := len(v.st.transactions) - 1; i >= 0; i-- {
		t := v.st.transactions[i]
		if t.UserID != userID || (t.Category != param && t.Type != param) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (v *view) LastTransaction(ctx context.Context, userID int64) (*models.Transaction, error) {
	for i := len(v.st.transactions) - 1; i >= 0; i-- {
		if v.st.transactions[i].UserID == userID {
			t := v.st.transactions[i]
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (v *view) SumTransactions(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range v.st.transactions {
		if t.UserID == userID && t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (v *view) TransactionCategories(ctx context.Context, userID int64) ([]string, error) {
	seen := map[string]bool{}
	var cats []string
	for _, t := range v.st.transactions {
		if t.UserID != userID || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		cats = append(cats, t.Category)
	}
	return cats, nil
}

func (v *view) UpsertBudgetEntry(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	entries := v.st.budgets[userID]
	for i := range entries {
		if entries[i].Category == category {
			entries[i].Amount = amount
			entries[i].UpdatedAt = time.Now()
			return nil
		}
	}
	v.st.budgets[userID] = append(entries, models.BudgetEntry{
		UserID:    userID,
		Category:  category,
		Amount:    amount,
		UpdatedAt: time.Now(),
	})
	return nil
}

func (v *view) ListBudgetEntries(ctx context.Context, userID int64) ([]models.BudgetEntry, error) {
	return append([]models.BudgetEntry{}, v.st.budgets[userID]...), nil
}

func (v *view) ClearBudgetEntries(ctx context.Context, userID int64) error {
	delete(v.st.budgets, userID)
	return nil
}

func (v *view) UpsertAdjustment(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	adjs := v.st.adjustments[userID]
	for i := range adjs {
		if adjs[i].Category == category {
			adjs[i].Amount = amount
			adjs[i].UpdatedAt = time.Now()
			return nil
		}
	}
	v.st.adjustments[userID] = append(adjs, models.BudgetAdjustment{
		UserID:    userID,
		Category:  category,
		Amount:    amount,
		UpdatedAt: time.Now(),
	})
	return nil
}

func (v *view) GetAdjustment(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	for _, a := range v.st.adjustments[userID] {
		if a.Category == category {
			return a.Amount, nil
		}
	}
	return decimal.Zero, nil
}

func (v *view) ListAdjustments(ctx context.Context, userID int64) ([]models.BudgetAdjustment, error) {
	return append([]models.BudgetAdjustment{}, v.st.adjustments[userID]...), nil
}

func (v *view) InsertDebt(ctx context.Context, d *models.Debt) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DueDate.IsZero() {
		d.DueDate = time.Now()
	}
	if d.Status == "" {
		d.Status = models.DebtOpen
	}
	v.st.debts = append(v.st.debts, *d)
	return nil
}

func (v *view) ActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	out := []models.Debt{}
	for _, d := range v.st.debts {
		if d.UserID == userID && d.Status == models.DebtOpen {
			out = append(out, d)
		}
	}
	return out, nil
}

func (v *view) DebtHistory(ctx context.Context, userID int64) ([]models.Debt, error) {
	out := []models.Debt{}
	for i := len(v.st.debts) - 1; i >= 0; i-- {
		if v.st.debts[i].UserID == userID {
			out = append(out, v.st.debts[i])
		}
	}
	return out, nil
}

func (v *view) CloseDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	for i := range v.st.debts {
		d := &v.st.debts[i]
		if d.UserID == userID && d.Debtor == debtor && d.Status == models.DebtOpen && d.Amount.Equal(amount) {
			d.Status = models.DebtClosed
			return nil
		}
	}
	return models.ErrNotFound
}

func (v *view) InsertGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Date.IsZero() {
		g.Date = time.Now()
	}
	v.st.goals = append(v.st.goals, *g)
	return nil
}

func (v *view) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	out := []models.Goal{}
	for _, g := range v.st.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (v *view) InsertReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	v.st.reminders = append(v.st.reminders, *r)
	return nil
}

func (v *view) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	out := []models.Reminder{}
	for _, r := range v.st.reminders {
		if !r.Sent && !r.RemindAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (v *view) MarkReminderSent(ctx context.Context, id string) error {
	for i := range v.st.reminders {
		if v.st.reminders[i].ID == id {
			v.st.reminders[i].Sent = true
			return nil
		}
	}
	return models.ErrNotFound
}

func (v *view) ExpenseStats(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	totals := map[string]decimal.Decimal{}
	var order []string
	for _, t := range v.st.transactions {
		if t.UserID != userID || t.Type != models.TypeExpense {
			continue
		}
		if _, ok := totals[t.Category]; !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	out := make([]models.CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, models.CategoryTotal{Category: cat, Total: totals[cat]})
	}
	// Biggest spend first; expense totals are negative.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.LessThan(out[j].Total)
	})
	return out, nil
}

func (v *view) TransactionReport(ctx context.Context, userID int64, days int) (*models.Report, error) {
	since := time.Now().AddDate(0, 0, -days)
	report := &models.Report{Days: days, TopExpenseCategories: []models.CategoryTotal{}}
	expenseTotals := map[string]decimal.Decimal{}
	for _, t := range v.st.transactions {
		if t.UserID != userID || t.Timestamp.Before(since) {
			continue
		}
		report.TransactionCount++
		switch t.Type {
		case models.TypeIncome:
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
		case models.TypeExpense:
			report.TotalExpense = report.TotalExpense.Add(t.Amount)
			expenseTotals[t.Category] = expenseTotals[t.Category].Add(t.Amount)
		}
	}
	report.Balance = report.TotalIncome.Add(report.TotalExpense)
	for cat, total := range expenseTotals {
		report.TopExpenseCategories = append(report.TopExpenseCategories, models.CategoryTotal{Category: cat, Total: total})
	}
	sort.SliceStable(report.TopExpenseCategories, func(i, j int) bool {
		return report.TopExpenseCategories[i].Total.LessThan(report.TopExpenseCategories[j].Total)
	})
	if len(report.TopExpenseCategories) > 3 {
		report.TopExpenseCategories = report.TopExpenseCategories[:3]
	}
	return report, nil
}

// Ledger methods on Store delegate to a per-call locked view.

func (s *Store) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	return s.locked(func(v *view) error { return v.InsertTransaction(ctx, t) })
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.DeleteTransaction(ctx, id)
		return err
	})
	return out, err
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ListTransactions(ctx, userID, limit)
		return err
	})
	return out, err
}

func (s *Store) FilterTransactions(ctx context.Context, userID int64, param string, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.FilterTransactions(ctx, userID, param, limit)
		return err
	})
	return out, err
}

func (s *Store) LastTransaction(ctx context.Context, userID int64) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.LastTransaction(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) SumTransactions(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.SumTransactions(ctx, userID, category)
		return err
	})
	return out, err
}

func (s *Store) TransactionCategories(ctx context.Context, userID int64) ([]string, error) {
	var out []string
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.TransactionCategories(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) UpsertBudgetEntry(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	return s.locked(func(v *view) error { return v.UpsertBudgetEntry(ctx, userID, category, amount) })
}

func (s *Store) ListBudgetEntries(ctx context.Context, userID int64) ([]models.BudgetEntry, error) {
	var out []models.BudgetEntry
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ListBudgetEntries(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) ClearBudgetEntries(ctx context.Context, userID int64) error {
	return s.locked(func(v *view) error { return v.ClearBudgetEntries(ctx, userID) })
}

func (s *Store) UpsertAdjustment(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	return s.locked(func(v *view) error { return v.UpsertAdjustment(ctx, userID, category, amount) })
}

func (s *Store) GetAdjustment(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.GetAdjustment(ctx, userID, category)
		return err
	})
	return out, err
}

func (s *Store) ListAdjustments(ctx context.Context, userID int64) ([]models.BudgetAdjustment, error) {
	var out []models.BudgetAdjustment
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ListAdjustments(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) InsertDebt(ctx context.Context, d *models.Debt) error {
	return s.locked(func(v *view) error { return v.InsertDebt(ctx, d) })
}

func (s *Store) ActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	var out []models.Debt
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ActiveDebts(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) DebtHistory(ctx context.Context, userID int64) ([]models.Debt, error) {
	var out []models.Debt
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.DebtHistory(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) CloseDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	return s.locked(func(v *view) error { return v.CloseDebt(ctx, userID, debtor, amount) })
}

func (s *Store) InsertGoal(ctx context.Context, g *models.Goal) error {
	return s.locked(func(v *view) error { return v.InsertGoal(ctx, g) })
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	var out []models.Goal
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ListGoals(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) InsertReminder(ctx context.Context, r *models.Reminder) error {
	return s.locked(func(v *view) error { return v.InsertReminder(ctx, r) })
}

func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.DueReminders(ctx, now)
		return err
	})
	return out, err
}

func (s *Store) MarkReminderSent(ctx context.Context, id string) error {
	return s.locked(func(v *view) error { return v.MarkReminderSent(ctx, id) })
}

func (s *Store) ExpenseStats(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	var out []models.CategoryTotal
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.ExpenseStats(ctx, userID)
		return err
	})
	return out, err
}

func (s *Store) TransactionReport(ctx context.Context, userID int64, days int) (*models.Report, error) {
	var out *models.Report
	err := s.locked(func(v *view) error {
		var err error
		out, err = v.TransactionReport(ctx, userID, days)
		return err
	})
	return out, err
}
