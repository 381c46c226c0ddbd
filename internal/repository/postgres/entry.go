package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type entryRepository struct {
	repository.BaseRepository
}

// NewEntryRepository creates a new PostgreSQL entry repository
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, contest_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	entry.ID = uuid.New()
	err := r.DB().QueryRowContext(ctx, query,
		entry.ID,
		entry.ContestID,
		entry.UserID,
		time.Now().UTC(),
	).Scan(&entry.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "entries_contest_user_key") {
			return repository.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

func (r *entryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	entry := &models.Entry{}
	query := `
		SELECT e.id, e.contest_id, e.user_id, e.created_at, u.phone
		FROM entries e
		JOIN users u ON u.id = e.user_id
		WHERE e.id = $1`

	err := r.DB().QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.ContestID,
		&entry.UserID,
		&entry.CreatedAt,
		&entry.Phone,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *entryRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]models.Entry, error) {
	query := `
		SELECT e.id, e.contest_id, e.user_id, e.created_at, u.phone
		FROM entries e
		JOIN users u ON u.id = e.user_id
		WHERE e.contest_id = $1
		ORDER BY e.created_at`

	rows, err := r.DB().QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.ContestID,
			&entry.UserID,
			&entry.CreatedAt,
			&entry.Phone,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *entryRepository) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	var count int
	err := r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE contest_id = $1", contestID,
	).Scan(&count)
	return count, err
}
