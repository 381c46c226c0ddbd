package auth

import (
	"context"
	"testing"
	"time"
	"contestlet/internal/config"
	"contestlet/internal/models"
	"contestlet/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *testutil.FakeUserRepo) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test_secret_key"
	cfg.Auth.JWTExpiration = 24
	cfg.Auth.OTPLength = 6
	cfg.Auth.OTPExpiration = 5 * time.Minute
	cfg.Auth.OTPRequestsPerHour = 5

	userRepo := testutil.NewFakeUserRepo()
	return NewService(cfg, testutil.NewFakeOTPRepo(), userRepo, testutil.NewFakeRefreshTokenRepo()), userRepo
}

func TestGenerateCode(t *testing.T) {
	service, _ := newTestService()

	code, err := service.GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code should be numeric, got %q", code)
	}
}

func TestRequestAndVerifyOTP(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	phone := "+15551234567"

	code, err := service.RequestOTP(ctx, phone)
	require.NoError(t, err)
	require.Len(t, code, 6)

	user, err := service.VerifyOTP(ctx, phone, code)
	require.NoError(t, err)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotNil(t, user.LastLoginAt)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	phone := "+15551234567"

	_, err := service.RequestOTP(ctx, phone)
	require.NoError(t, err)

	_, err = service.VerifyOTP(ctx, phone, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyOTPUnknownPhone(t *testing.T) {
	service, _ := newTestService()

	_, err := service.VerifyOTP(context.Background(), "+15559990000", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	phone := "+15551234567"

	code, err := service.RequestOTP(ctx, phone)
	require.NoError(t, err)

	_, err = service.VerifyOTP(ctx, phone, code)
	require.NoError(t, err)

	_, err = service.VerifyOTP(ctx, phone, code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyOTPReturnsExistingUser(t *testing.T) {
	service, userRepo := newTestService()
	ctx := context.Background()
	phone := "+15551234567"

	existing := &models.User{Phone: phone, Role: models.RoleSponsor}
	require.NoError(t, userRepo.Create(ctx, existing))

	code, err := service.RequestOTP(ctx, phone)
	require.NoError(t, err)

	user, err := service.VerifyOTP(ctx, phone, code)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, models.RoleSponsor, user.Role)
}

func TestRequestOTPRateLimited(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	phone := "+15551234567"

	for i := 0; i < 5; i++ {
		_, err := service.RequestOTP(ctx, phone)
		require.NoError(t, err)
	}

	_, err := service.RequestOTP(ctx, phone)
	assert.ErrorIs(t, err, ErrTooManyRequests)

	// Other phones are not affected.
	_, err = service.RequestOTP(ctx, "+15559990000")
	assert.NoError(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	service, _ := newTestService()

	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleAdmin}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), (*claims)["user_id"])
	assert.Equal(t, user.Phone, (*claims)["phone"])
	assert.Equal(t, models.RoleAdmin, (*claims)["role"])
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service, _ := newTestService()

	_, err := service.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service, _ := newTestService()
	other, _ := newTestService()
	other.config.Auth.JWTSecret = "different_secret"

	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	token, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	token, err := service.GenerateRefreshToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := service.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	require.NoError(t, service.DeleteRefreshToken(ctx, token))

	_, err = service.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
