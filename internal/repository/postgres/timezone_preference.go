package postgres

import (
	"context"
	"database/sql"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type timezonePreferenceRepository struct {
	repository.BaseRepository
}

// NewTimezonePreferenceRepository creates a new PostgreSQL timezone
// preference repository
func NewTimezonePreferenceRepository(db *sql.DB) repository.TimezonePreferenceRepository {
	return &timezonePreferenceRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *timezonePreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*models.TimezonePreference, error) {
	pref := &models.TimezonePreference{}
	query := `
		SELECT user_id, timezone, auto_detect, updated_at
		FROM admin_timezone_preferences
		WHERE user_id = $1`

	err := r.DB().QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID,
		&pref.Timezone,
		&pref.AutoDetect,
		&pref.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func (r *timezonePreferenceRepository) Upsert(ctx context.Context, pref *models.TimezonePreference) error {
	// The timezone column only ever holds validated IANA names.
	if _, err := time.LoadLocation(pref.Timezone); err != nil {
		return repository.ErrInvalidTimezone
	}

	query := `
		INSERT INTO admin_timezone_preferences (user_id, timezone, auto_detect, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			auto_detect = EXCLUDED.auto_detect,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	return r.DB().QueryRowContext(ctx, query,
		pref.UserID,
		pref.Timezone,
		pref.AutoDetect,
		time.Now().UTC(),
	).Scan(&pref.UpdatedAt)
}
