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

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const userColumns = "id, phone, role, last_login_at, created_at, updated_at"

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING created_at, updated_at`

	user.ID = uuid.New()
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	err := r.DB().QueryRowContext(ctx, query,
		user.ID,
		user.Phone,
		user.Role,
		time.Now().UTC(),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "users_phone_key") {
			return repository.ErrPhoneExists
		}
		return err
	}
	return nil
}

func (r *userRepository) scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Role,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	user, err := r.scanUser(r.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE phone = $1"
	user, err := r.scanUser(r.DB().QueryRowContext(ctx, query, phone))
	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetOrCreateByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := r.GetByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if err != repository.ErrUserNotFound {
		return nil, err
	}

	user = &models.User{Phone: phone, Role: models.RoleUser}
	if err := r.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login for the same phone.
		if err == repository.ErrPhoneExists {
			return r.GetByPhone(ctx, phone)
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	result, err := r.DB().ExecContext(ctx,
		"UPDATE users SET role = $1, updated_at = $2 WHERE id = $3",
		role, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	_, err := r.DB().ExecContext(ctx,
		"UPDATE users SET last_login_at = $1 WHERE id = $2",
		lastLoginAt, id,
	)
	return err
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users"
	var conditions []string
	var args []interface{}

	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("phone LIKE $%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "created_at"
	if filter.OrderBy == "phone" {
		orderBy = "phone"
	}
	query += " ORDER BY " + orderBy
	if filter.OrderDesc {
		query += " DESC"
	}
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

	var users []models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}
