package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// GoalService is an append-only wish list. No reconciliation applies.
type GoalService struct {
	store store.Ledger
}

func NewGoalService(st store.Ledger) *GoalService {
	return &GoalService{store: st}
}

func (s *GoalService) AddGoal(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*models.Goal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, models.NewValidationError("description", "must not be empty")
	}

	g := &models.Goal{
		UserID:      userID,
		Amount:      amount,
		Description: description,
	}
	if err := s.store.InsertGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) Goals(ctx context.Context, userID int64) ([]models.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}
