package repository

import (
	"context"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// EntryRepository defines the interface for contest entry operations
type EntryRepository interface {
	Repository
	// Create records an entry. Returns ErrDuplicateEntry if the user already
	// entered this contest.
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	// ListByContest returns entries with the entrant's phone populated.
	ListByContest(ctx context.Context, contestID uuid.UUID) ([]models.Entry, error)
	CountByContest(ctx context.Context, contestID uuid.UUID) (int, error)
}
