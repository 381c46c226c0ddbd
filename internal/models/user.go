package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants. Users are created with RoleUser on first OTP verification;
// admin and sponsor are assigned out of band.
const (
	RoleAdmin   = "admin"
	RoleSponsor = "sponsor"
	RoleUser    = "user"
)

// User represents a user in the system, identified by a verified phone
// number in E.164 form.
type User struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Phone       string     `json:"phone" db:"phone"`
	Role        string     `json:"role" db:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsSponsor returns true if the user has the sponsor role.
func (u *User) IsSponsor() bool {
	return u.Role == RoleSponsor
}

// RequestOTPRequest asks for a one-time code to be sent to a phone number.
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// VerifyOTPRequest exchanges a one-time code for tokens.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// OTPCode is a one-time login code. The code itself is never stored; only a
// bcrypt hash is kept.
type OTPCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Phone     string    `json:"phone" db:"phone"`
	CodeHash  string    `json:"-" db:"code_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RefreshToken represents a stored refresh token for a user.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
