package services

import (
	"context"
	"strings"
	"time"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// ReminderService stores reminders and hands due ones to the external job
// scheduler. The scheduler decides when to poll and how to deliver.
type ReminderService struct {
	store store.Ledger
}

func NewReminderService(st store.Ledger) *ReminderService {
	return &ReminderService{store: st}
}

func (s *ReminderService) AddReminder(ctx context.Context, userID int64, text string, remindAt time.Time) (*models.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("text", "must not be empty")
	}
	if remindAt.IsZero() {
		return nil, models.NewValidationError("remind_at", "must be set")
	}

	r := &models.Reminder{
		UserID:   userID,
		Text:     text,
		RemindAt: remindAt,
	}
	if err := s.store.InsertReminder(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Due returns all unsent reminders whose time has passed.
func (s *ReminderService) Due(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return s.store.DueReminders(ctx, now)
}

// MarkSent acknowledges a delivered reminder.
func (s *ReminderService) MarkSent(ctx context.Context, id string) error {
	return s.store.MarkReminderSent(ctx, id)
}
