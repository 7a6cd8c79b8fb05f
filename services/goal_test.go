package services

import (
	"context"
	"testing"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store/memory"
)

func TestAddGoal(t *testing.T) {
	goals := NewGoalService(memory.New())
	ctx := context.Background()

	if _, err := goals.AddGoal(ctx, 1, dec(2000), "  "); !models.IsValidation(err) {
		t.Fatalf("expected validation error for blank description, got %v", err)
	}

	g, err := goals.AddGoal(ctx, 1, dec(2000), " new laptop ")
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if g.Description != "new laptop" {
		t.Fatalf("expected trimmed description, got %q", g.Description)
	}

	list, err := goals.Goals(ctx, 1)
	if err != nil {
		t.Fatalf("Goals: %v", err)
	}
	if len(list) != 1 || list[0].ID != g.ID {
		t.Fatalf("expected the saved goal back, got %+v", list)
	}
}
