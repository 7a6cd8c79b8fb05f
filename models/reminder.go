package models

import "time"

// Reminder is a stored notification request. The core only stores and hands
// out due reminders; firing them on time is the job scheduler's problem.
type Reminder struct {
	ID       string    `json:"id"`
	UserID   int64     `json:"user_id"`
	Text     string    `json:"text"`
	RemindAt time.Time `json:"remind_at"`
	Sent     bool      `json:"sent"`
}

type AddReminderRequest struct {
	Text     string    `json:"text" binding:"required"`
	RemindAt time.Time `json:"remind_at" binding:"required"`
}
