package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationWinner            = "winner"
	NotificationReminder          = "reminder"
	NotificationEntryConfirmation = "entry_confirmation"
)

// Notification delivery statuses.
const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification is a record of an SMS sent (or attempted) by the platform.
type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ContestID *uuid.UUID `json:"contest_id,omitempty" db:"contest_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Phone     string     `json:"phone" db:"phone"`
	Type      string     `json:"type" db:"type"`
	Message   string     `json:"message" db:"message"`
	Status    string     `json:"status" db:"status"`
	TestMode  bool       `json:"test_mode" db:"test_mode"`
	SentAt    time.Time  `json:"sent_at" db:"sent_at"`
}

// NotifyWinnerRequest carries the admin-authored message template for a
// winner notification. The message may use template variables such as
// {{.WinnerName}}, {{.ContestName}} and {{.PrizeDescription}}.
type NotifyWinnerRequest struct {
	Message  string `json:"message" binding:"required,nospaces,max=1600"`
	TestMode bool   `json:"test_mode"`
}
