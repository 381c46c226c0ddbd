// Package auth provides OTP phone authentication and token issuing.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
	"contestlet/internal/config"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidToken indicates the token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidCode indicates the one-time code is wrong or expired
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrTooManyRequests indicates the per-phone OTP limit was hit
	ErrTooManyRequests = errors.New("too many code requests for this phone")
)

// Service provides OTP issuance, verification and token management.
type Service struct {
	config           *config.Config
	otpRepo          repository.OTPRepository
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewService creates a new authentication service
func NewService(cfg *config.Config, otpRepo repository.OTPRepository, userRepo repository.UserRepository, refreshTokenRepo repository.RefreshTokenRepository) *Service {
	return &Service{
		config:           cfg,
		otpRepo:          otpRepo,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		limiters:         make(map[string]*rate.Limiter),
	}
}

// phoneLimiter returns the per-phone OTP request limiter.
func (s *Service) phoneLimiter(phone string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[phone]
	if !ok {
		perHour := s.config.Auth.OTPRequestsPerHour
		if perHour <= 0 {
			perHour = 5
		}
		limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
		s.limiters[phone] = limiter
	}
	return limiter
}

// GenerateCode produces a random numeric one-time code.
func (s *Service) GenerateCode() (string, error) {
	length := s.config.Auth.OTPLength
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// RequestOTP creates a one-time code for a normalized phone number and
// returns the plaintext code for delivery. Only a bcrypt hash is stored.
func (s *Service) RequestOTP(ctx context.Context, phone string) (string, error) {
	if !s.phoneLimiter(phone).Allow() {
		return "", ErrTooManyRequests
	}

	code, err := s.GenerateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	otp := &models.OTPCode{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().UTC().Add(s.config.Auth.OTPExpiration),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyOTP checks a submitted code against the active code for the phone,
// consumes it, and returns the user, creating one on first login.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (*models.User, error) {
	otp, err := s.otpRepo.GetActiveByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}
	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		if errors.Is(err, repository.ErrOTPUsed) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	user, err := s.userRepo.GetOrCreateByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return user, nil
}

// GenerateToken generates a new JWT access token for a user.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	expiration := time.Duration(s.config.Auth.JWTExpiration) * time.Hour

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"phone":   user.Phone,
		"role":    user.Role,
		"exp":     time.Now().Add(expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.JWTSecret))
}

// GenerateRefreshToken generates and stores a new refresh token.
func (s *Service) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)

	expiresAt := time.Now().Add(time.Hour * 24 * 7)
	if err := s.refreshTokenRepo.Create(ctx, userID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// ValidateRefreshToken validates a refresh token and returns the associated user ID
func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	refreshToken, err := s.refreshTokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return uuid.Nil, ErrInvalidToken
		}
		if errors.Is(err, repository.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, err
	}
	return refreshToken.UserID, nil
}

// DeleteRefreshToken removes a refresh token
func (s *Service) DeleteRefreshToken(ctx context.Context, token string) error {
	return s.refreshTokenRepo.DeleteByToken(ctx, token)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Auth.JWTSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, ErrInvalidToken
}

// GetUserFromContext retrieves the authenticated user from the gin context
func GetUserFromContext(c *gin.Context) *models.User {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	if u, ok := user.(*models.User); ok {
		return u
	}
	return nil
}
