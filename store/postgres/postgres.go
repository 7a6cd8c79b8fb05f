// Package postgres is the durable Ledger implementation. Every write is a
// single statement or runs inside one sql.Tx, so a service operation wrapped
// in WithinTx commits or disappears as a whole.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
	"github.com/finassist/finance-bot-api/utils"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	q  queryer
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func storageErr(op string, err error) error {
	return &models.StorageError{Op: op, Err: err}
}

// WithinTx starts a transaction and hands fn a Store bound to it. A nested
// call joins the transaction already in flight.
func (s *Store) WithinTx(ctx context.Context, fn func(store.Ledger) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return fn(&Store{db: s.db, q: tx})
	})
}

func (s *Store) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, category, type, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.UserID, t.Amount, t.Category, t.Type, t.Timestamp)
	if err != nil {
		return storageErr("insert transaction", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.q.QueryRowContext(ctx, `
		DELETE FROM transactions
		WHERE id = $1
		RETURNING id, user_id, amount, category, type, timestamp
	`, id).Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &t.Timestamp)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("delete transaction", err)
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, amount, category, type, timestamp
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *Store) FilterTransactions(ctx context.Context, userID int64, param string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, amount, category, type, timestamp
		FROM transactions
		WHERE user_id = $1 AND (category = $2 OR type = $2)
		ORDER BY timestamp DESC
		LIMIT $3
	`, userID, param, limit)
	if err != nil {
		return nil, storageErr("filter transactions", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &t.Timestamp); err != nil {
			return nil, storageErr("scan transaction", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan transactions", err)
	}
	return transactions, nil
}

func (s *Store) LastTransaction(ctx context.Context, userID int64) (*models.Transaction, error) {
	var t models.Transaction
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, amount, category, type, timestamp
		FROM transactions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, userID).Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &t.Timestamp)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("last transaction", err)
	}
	return &t, nil
}

func (s *Store) SumTransactions(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2
	`, userID, category).Scan(&total)
	if err != nil {
		return decimal.Zero, storageErr("sum transactions", err)
	}
	return total, nil
}

func (s *Store) TransactionCategories(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT category
		FROM transactions
		WHERE user_id = $1
		GROUP BY category
		ORDER BY MIN(timestamp)
	`, userID)
	if err != nil {
		return nil, storageErr("transaction categories", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, storageErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan categories", err)
	}
	return categories, nil
}

// UpsertBudgetEntry is a single conditional upsert, not a read-then-write,
// so concurrent reconciliations of the same (user, category) cannot lose
// updates.
func (s *Store) UpsertBudgetEntry(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, amount, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
	`, userID, category, amount)
	if err != nil {
		return storageErr("upsert budget entry", err)
	}
	return nil
}

func (s *Store) ListBudgetEntries(ctx context.Context, userID int64) ([]models.BudgetEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT user_id, category, amount, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, storageErr("list budget entries", err)
	}
	defer rows.Close()

	entries := []models.BudgetEntry{}
	for rows.Next() {
		var e models.BudgetEntry
		if err := rows.Scan(&e.UserID, &e.Category, &e.Amount, &e.UpdatedAt); err != nil {
			return nil, storageErr("scan budget entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan budget entries", err)
	}
	return entries, nil
}

func (s *Store) ClearBudgetEntries(ctx context.Context, userID int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM budgets WHERE user_id = $1`, userID)
	if err != nil {
		return storageErr("clear budget entries", err)
	}
	return nil
}

func (s *Store) UpsertAdjustment(ctx context.Context, userID int64, category string, amount decimal.Decimal) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO budget_adjustments (user_id, category, amount, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
	`, userID, category, amount)
	if err != nil {
		return storageErr("upsert adjustment", err)
	}
	return nil
}

func (s *Store) GetAdjustment(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.q.QueryRowContext(ctx, `
		SELECT amount FROM budget_adjustments
		WHERE user_id = $1 AND category = $2
	`, userID, category).Scan(&amount)

	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, storageErr("get adjustment", err)
	}
	return amount, nil
}

func (s *Store) ListAdjustments(ctx context.Context, userID int64) ([]models.BudgetAdjustment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT user_id, category, amount, updated_at
		FROM budget_adjustments
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, storageErr("list adjustments", err)
	}
	defer rows.Close()

	adjustments := []models.BudgetAdjustment{}
	for rows.Next() {
		var a models.BudgetAdjustment
		if err := rows.Scan(&a.UserID, &a.Category, &a.Amount, &a.UpdatedAt); err != nil {
			return nil, storageErr("scan adjustment", err)
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan adjustments", err)
	}
	return adjustments, nil
}

func (s *Store) InsertDebt(ctx context.Context, d *models.Debt) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DueDate.IsZero() {
		d.DueDate = time.Now()
	}
	if d.Status == "" {
		d.Status = models.DebtOpen
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO debts (id, user_id, debtor, amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.UserID, d.Debtor, d.Amount, d.Status, d.DueDate)
	if err != nil {
		return storageErr("insert debt", err)
	}
	return nil
}

func (s *Store) ActiveDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.queryDebts(ctx, `
		SELECT id, user_id, debtor, amount, status, due_date
		FROM debts
		WHERE user_id = $1 AND status = 'open'
		ORDER BY due_date
	`, userID)
}

func (s *Store) DebtHistory(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.queryDebts(ctx, `
		SELECT id, user_id, debtor, amount, status, due_date
		FROM debts
		WHERE user_id = $1
		ORDER BY due_date DESC
	`, userID)
}

func (s *Store) queryDebts(ctx context.Context, query string, userID int64) ([]models.Debt, error) {
	rows, err := s.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storageErr("query debts", err)
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		var d models.Debt
		if err := rows.Scan(&d.ID, &d.UserID, &d.Debtor, &d.Amount, &d.Status, &d.DueDate); err != nil {
			return nil, storageErr("scan debt", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan debts", err)
	}
	return debts, nil
}

// CloseDebt transitions exactly one open row with the given (debtor, amount)
// to closed. The oldest matching row wins when several exist.
func (s *Store) CloseDebt(ctx context.Context, userID int64, debtor string, amount decimal.Decimal) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE debts SET status = 'closed'
		WHERE id = (
			SELECT id FROM debts
			WHERE user_id = $1 AND debtor = $2 AND amount = $3 AND status = 'open'
			ORDER BY due_date
			LIMIT 1
		)
	`, userID, debtor, amount)
	if err != nil {
		return storageErr("close debt", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("close debt", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) InsertGoal(ctx context.Context, g *models.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.Date.IsZero() {
		g.Date = time.Now()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, amount, description, date)
		VALUES ($1, $2, $3, $4, $5)
	`, g.ID, g.UserID, g.Amount, g.Description, g.Date)
	if err != nil {
		return storageErr("insert goal", err)
	}
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, amount, description, date
		FROM goals
		WHERE user_id = $1
		ORDER BY date
	`, userID)
	if err != nil {
		return nil, storageErr("list goals", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Amount, &g.Description, &g.Date); err != nil {
			return nil, storageErr("scan goal", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan goals", err)
	}
	return goals, nil
}

func (s *Store) InsertReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO reminders (id, user_id, text, remind_at, sent)
		VALUES ($1, $2, $3, $4, FALSE)
	`, r.ID, r.UserID, r.Text, r.RemindAt)
	if err != nil {
		return storageErr("insert reminder", err)
	}
	return nil
}

func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, text, remind_at, sent
		FROM reminders
		WHERE sent = FALSE AND remind_at <= $1
		ORDER BY remind_at
	`, now)
	if err != nil {
		return nil, storageErr("due reminders", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Text, &r.RemindAt, &r.Sent); err != nil {
			return nil, storageErr("scan reminder", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan reminders", err)
	}
	return reminders, nil
}

func (s *Store) MarkReminderSent(ctx context.Context, id string) error {
	result, err := s.q.ExecContext(ctx, `UPDATE reminders SET sent = TRUE WHERE id = $1`, id)
	if err != nil {
		return storageErr("mark reminder sent", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("mark reminder sent", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ExpenseStats sums expense transactions per category. Totals keep their
// negative sign; the biggest spend comes first.
func (s *Store) ExpenseStats(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		GROUP BY category
		ORDER BY SUM(amount)
	`, userID)
	if err != nil {
		return nil, storageErr("expense stats", err)
	}
	defer rows.Close()

	stats := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, storageErr("scan expense stats", err)
		}
		stats = append(stats, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan expense stats", err)
	}
	return stats, nil
}

func (s *Store) TransactionReport(ctx context.Context, userID int64, days int) (*models.Report, error) {
	report := &models.Report{Days: days, TopExpenseCategories: []models.CategoryTotal{}}

	err := s.q.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND timestamp >= NOW() - make_interval(days => $2)
	`, userID, days).Scan(&report.TotalIncome, &report.TotalExpense, &report.TransactionCount)
	if err != nil {
		return nil, storageErr("transaction report", err)
	}
	report.Balance = report.TotalIncome.Add(report.TotalExpense)

	rows, err := s.q.QueryContext(ctx, `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
			AND timestamp >= NOW() - make_interval(days => $2)
		GROUP BY category
		ORDER BY SUM(amount)
		LIMIT 3
	`, userID, days)
	if err != nil {
		return nil, storageErr("transaction report categories", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, storageErr("scan report category", err)
		}
		report.TopExpenseCategories = append(report.TopExpenseCategories, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan report categories", err)
	}
	return report, nil
}
