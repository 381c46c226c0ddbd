package repository

import (
	"context"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// TimezonePreferenceRepository is the primary tier of the two-tier admin
// timezone preference store. ErrNotFound signals "no preference set yet",
// which callers treat as a normal state.
type TimezonePreferenceRepository interface {
	Repository
	Get(ctx context.Context, userID uuid.UUID) (*models.TimezonePreference, error)
	Upsert(ctx context.Context, pref *models.TimezonePreference) error
}
