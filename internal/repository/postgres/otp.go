package postgres

import (
	"context"
	"database/sql"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type otpRepository struct {
	repository.BaseRepository
}

// NewOTPRepository creates a new PostgreSQL OTP code repository
func NewOTPRepository(db *sql.DB) repository.OTPRepository {
	return &otpRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *otpRepository) Create(ctx context.Context, code *models.OTPCode) error {
	query := `
		INSERT INTO otp_codes (id, phone, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING created_at`

	code.ID = uuid.New()
	return r.DB().QueryRowContext(ctx, query,
		code.ID,
		code.Phone,
		code.CodeHash,
		code.ExpiresAt,
		time.Now().UTC(),
	).Scan(&code.CreatedAt)
}

func (r *otpRepository) GetActiveByPhone(ctx context.Context, phone string) (*models.OTPCode, error) {
	code := &models.OTPCode{}
	query := `
		SELECT id, phone, code_hash, expires_at, used, created_at
		FROM otp_codes
		WHERE phone = $1 AND used = false AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.DB().QueryRowContext(ctx, query, phone, time.Now().UTC()).Scan(
		&code.ID,
		&code.Phone,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.Used,
		&code.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB().ExecContext(ctx,
		"UPDATE otp_codes SET used = true WHERE id = $1 AND used = false", id,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrOTPUsed
	}
	return nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.DB().ExecContext(ctx,
		"DELETE FROM otp_codes WHERE expires_at <= $1", time.Now().UTC(),
	)
	return err
}
