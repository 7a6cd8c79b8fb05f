package services

import (
	"context"
	"testing"
	"time"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store/memory"
)

func TestAddReminderValidation(t *testing.T) {
	reminders := NewReminderService(memory.New())
	ctx := context.Background()

	if _, err := reminders.AddReminder(ctx, 1, "", time.Now()); !models.IsValidation(err) {
		t.Fatalf("expected validation error for empty text, got %v", err)
	}
	if _, err := reminders.AddReminder(ctx, 1, "pay rent", time.Time{}); !models.IsValidation(err) {
		t.Fatalf("expected validation error for zero time, got %v", err)
	}
}

func TestReminderLifecycle(t *testing.T) {
	reminders := NewReminderService(memory.New())
	ctx := context.Background()
	now := time.Now()

	r, err := reminders.AddReminder(ctx, 1, "pay rent", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("AddReminder: %v", err)
	}

	due, err := reminders.Due(ctx, now)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due) != 1 || due[0].ID != r.ID {
		t.Fatalf("expected the reminder due, got %+v", due)
	}

	if err := reminders.MarkSent(ctx, r.ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	due, err = reminders.Due(ctx, now)
	if err != nil {
		t.Fatalf("Due: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due after MarkSent, got %+v", due)
	}
}
