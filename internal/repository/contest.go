package repository

import (
	"context"
	"time"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// ContestRepository defines the interface for contest-related database
// operations. Lifecycle status is never stored; listings return the raw time
// fields and callers derive status from them.
type ContestRepository interface {
	Repository
	Create(ctx context.Context, contest *models.Contest) error
	Update(ctx context.Context, contest *models.Contest) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contest, error)
	List(ctx context.Context, filter ContestFilter) ([]models.Contest, error)
	// SetWinner records the winning entry and selection timestamp. Returns
	// ErrWinnerAlreadyChosen if a winner is already recorded.
	SetWinner(ctx context.Context, contestID, entryID uuid.UUID, selectedAt time.Time) error
	// EndedBetween returns contests whose end_time falls in (from, to] and
	// that have no winner selected. Used by the end-of-contest sweep.
	EndedBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error)
}

// ContestFilter defines the filter options for listing contests
type ContestFilter struct {
	Search    *string // Search by name
	Active    *bool   // Filter by the active flag
	OrderBy   string  // Field to order by
	OrderDesc bool    // Order descending
	Limit     *int    // Limit results
	Offset    *int    // Offset results
}
