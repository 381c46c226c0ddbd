package postgres

import (
	"context"
	"database/sql"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type refreshTokenRepository struct {
	repository.BaseRepository
}

// NewRefreshTokenRepository creates a new PostgreSQL refresh token repository
func NewRefreshTokenRepository(db *sql.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB().ExecContext(ctx, query,
		uuid.New(),
		userID,
		token,
		expiresAt,
		time.Now().UTC(),
	)
	return err
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	refreshToken := &models.RefreshToken{}
	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1`

	err := r.DB().QueryRowContext(ctx, query, token).Scan(
		&refreshToken.ID,
		&refreshToken.UserID,
		&refreshToken.Token,
		&refreshToken.ExpiresAt,
		&refreshToken.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}
	return refreshToken, nil
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token = $1", token)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB().ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id = $1", userID)
	return err
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.DB().ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires_at < $1", time.Now().UTC())
	return err
}
