package repository

import (
	"context"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// OTPRepository defines the interface for one-time login codes
type OTPRepository interface {
	Repository
	Create(ctx context.Context, code *models.OTPCode) error
	// GetActiveByPhone returns the most recent unused, unexpired code for a
	// phone number, or ErrOTPNotFound.
	GetActiveByPhone(ctx context.Context, phone string) (*models.OTPCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}
