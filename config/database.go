package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/finassist/finance-bot-api/utils"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS service_accounts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) UNIQUE NOT NULL,
			secret_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			category TEXT NOT NULL,
			type VARCHAR(10) NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			user_id BIGINT NOT NULL,
			category TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			position SERIAL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, category)
		)`,

		`CREATE TABLE IF NOT EXISTS budget_adjustments (
			user_id BIGINT NOT NULL,
			category TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			position SERIAL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, category)
		)`,

		`CREATE TABLE IF NOT EXISTS debts (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			debtor TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'open',
			due_date TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			description TEXT NOT NULL,
			date TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS reminders (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			text TEXT NOT NULL,
			remind_at TIMESTAMP NOT NULL,
			sent BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS command_logs (
			id SERIAL PRIMARY KEY,
			user_id BIGINT,
			account_name VARCHAR(255),
			command TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_category ON transactions(user_id, category)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_user_status ON debts(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(sent, remind_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

// EnsureServiceAccount seeds the bot's service account from the environment
// so a fresh deployment can authenticate without manual SQL.
func EnsureServiceAccount(db *sql.DB) error {
	name := os.Getenv("BOT_ACCOUNT_NAME")
	secret := os.Getenv("BOT_ACCOUNT_SECRET")
	if name == "" || secret == "" {
		log.Println("BOT_ACCOUNT_NAME/BOT_ACCOUNT_SECRET not set, skipping account seed")
		return nil
	}

	hash, err := utils.HashPassword(secret)
	if err != nil {
		return fmt.Errorf("failed to hash account secret: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO service_accounts (name, secret_hash)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET secret_hash = EXCLUDED.secret_hash
	`, name, hash)
	if err != nil {
		return fmt.Errorf("failed to seed service account: %w", err)
	}
	return nil
}
