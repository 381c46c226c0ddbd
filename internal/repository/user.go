package repository

import (
	"context"
	"time"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Repository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// GetOrCreateByPhone returns the user for a verified phone number,
	// creating a new user-role row on first login.
	GetOrCreateByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
}

// UserFilter defines the filter options for listing users
type UserFilter struct {
	Search    *string // Search by phone
	Role      *string // Filter by role
	OrderBy   string  // Field to order by
	OrderDesc bool    // Order descending
	Limit     *int    // Limit results
	Offset    *int    // Offset results
}
