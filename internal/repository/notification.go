package repository

import (
	"context"
	"contestlet/internal/models"

	"github.com/google/uuid"
)

// NotificationRepository defines the interface for the SMS notification log
type NotificationRepository interface {
	Repository
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]models.Notification, error)
}

// NotificationFilter defines the filter options for listing notifications
type NotificationFilter struct {
	ContestID *uuid.UUID // Filter by contest
	Type      *string    // Filter by notification type
	Status    *string    // Filter by delivery status
	Limit     *int       // Limit results
	Offset    *int       // Offset results
}
