package services

import (
	"context"
	"errors"
	"kaudio/internal/types"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	_, _, svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Auth.Register(ctx, " alice ", "correct-horse", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, loggedIn, err := svc.Auth.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	info, err := svc.Auth.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, info.Valid)
	assert.Equal(t, user.ID, info.UserID)
	assert.Equal(t, "alice", info.Username)

	authenticated, err := svc.Auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	_, _, svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Auth.Register(ctx, "", "long-enough", "")
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = svc.Auth.Register(ctx, "bob", "short", "")
	assert.True(t, errors.Is(err, types.ErrValidation))

	_, err = svc.Auth.Register(ctx, "bob", "long-enough", "")
	require.NoError(t, err)

	_, err = svc.Auth.Register(ctx, "bob", "long-enough", "")
	assert.True(t, errors.Is(err, types.ErrConflict))
}

func TestAuthService_LoginFailures(t *testing.T) {
	_, _, svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Auth.Register(ctx, "carol", "long-enough", "")
	require.NoError(t, err)

	_, _, err = svc.Auth.Login(ctx, "carol", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Auth.Login(ctx, "nobody", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, errors.Is(err, types.ErrPermission))
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	_, _, svc := newTestServices(t)
	cfg := testConfig()

	sign := func(claims jwt.Claims, secret string) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	now := time.Now()
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{
			name: "wrong secret",
			token: sign(jwt.RegisteredClaims{
				Issuer:    cfg.JWTIssuer,
				Subject:   "00000000-0000-0000-0000-000000000001",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}, "another-secret-entirely"),
		},
		{
			name: "expired",
			token: sign(jwt.RegisteredClaims{
				Issuer:    cfg.JWTIssuer,
				Subject:   "00000000-0000-0000-0000-000000000001",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			}, cfg.JWTSecret),
		},
		{
			name: "wrong issuer",
			token: sign(jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "00000000-0000-0000-0000-000000000001",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}, cfg.JWTSecret),
		},
		{
			name: "missing expiry",
			token: sign(jwt.RegisteredClaims{
				Issuer:  cfg.JWTIssuer,
				Subject: "00000000-0000-0000-0000-000000000001",
			}, cfg.JWTSecret),
		},
		{
			name: "bad subject",
			token: sign(jwt.RegisteredClaims{
				Issuer:    cfg.JWTIssuer,
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}, cfg.JWTSecret),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.Auth.ValidateToken(tt.token)
			assert.True(t, errors.Is(err, types.ErrPermission))
			assert.False(t, info.Valid)
		})
	}
}

func TestAuthService_LogoutWithoutSessionCache(t *testing.T) {
	_, _, svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Auth.Register(ctx, "bob", "correct-horse", "")
	require.NoError(t, err)

	token, err := svc.Auth.IssueToken(user)
	require.NoError(t, err)

	info, err := svc.Auth.ValidateToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, info.TokenID)
	assert.True(t, info.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.Auth.Logout(ctx, token))

	_, err = svc.Auth.Authenticate(ctx, token)
	assert.NoError(t, err)

	err = svc.Auth.Logout(ctx, "not-a-token")
	assert.ErrorIs(t, err, types.ErrPermission)
}
