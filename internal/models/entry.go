package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry represents a user's entry into a contest. A user may enter a given
// contest at most once.
type Entry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ContestID uuid.UUID `json:"contest_id" db:"contest_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Phone is populated on admin listings via a join with users.
	Phone string `json:"phone,omitempty" db:"phone"`
}
