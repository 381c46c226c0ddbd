package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	repository.BaseRepository
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, contest_id, user_id, phone, type, message, status, test_mode, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING sent_at`

	n.ID = uuid.New()
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	return r.DB().QueryRowContext(ctx, query,
		n.ID,
		n.ContestID,
		n.UserID,
		n.Phone,
		n.Type,
		n.Message,
		n.Status,
		n.TestMode,
		n.SentAt,
	).Scan(&n.SentAt)
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]models.Notification, error) {
	query := `
		SELECT id, contest_id, user_id, phone, type, message, status, test_mode, sent_at
		FROM notifications`
	var conditions []string
	var args []interface{}

	if filter.ContestID != nil {
		args = append(args, *filter.ContestID)
		conditions = append(conditions, fmt.Sprintf("contest_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sent_at DESC"

	if filter.Limit != nil {
		args = append(args, *filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset != nil {
		args = append(args, *filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.ContestID,
			&n.UserID,
			&n.Phone,
			&n.Type,
			&n.Message,
			&n.Status,
			&n.TestMode,
			&n.SentAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
