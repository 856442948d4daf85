package services

import (
	"context"
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	TOKEN_EXPIRY        = 24 * time.Hour
	MIN_PASSWORD_LENGTH = 8
	MAX_USERNAME_LENGTH = 64

	REVOKED_TOKEN_PREFIX = "revoked_token"
)

var ErrInvalidCredentials = types.Wrap(types.ErrPermission, "invalid username or password")

type TokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService registers accounts and issues the HS256 tokens that every
// authenticated route and the websocket handshake accept.
type AuthService struct {
	db       database.DB
	repos    repositories.Repository
	sessions database.CacheClient
	secret   []byte
	issuer string
	log    logger.Logger
}

func NewAuthService(db database.DB, repos repositories.Repository, config config.Config) *AuthService {
	return &AuthService{
		db:       db,
		repos:    repos,
		sessions: db.Cache.Session,
		secret:   []byte(config.JWTSecret),
		issuer:   config.JWTIssuer,
		log:      logger.New("AuthService"),
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, email string) (*User, error) {
	log := s.log.Function("Register").TraceFromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || len(username) > MAX_USERNAME_LENGTH {
		return nil, types.Wrap(types.ErrValidation, "username must be 1 to %d characters", MAX_USERNAME_LENGTH)
	}
	if len(password) < MIN_PASSWORD_LENGTH {
		return nil, types.Wrap(types.ErrValidation, "password must be at least %d characters", MIN_PASSWORD_LENGTH)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         RoleUser,
		IsActive:     true,
	}
	if email = strings.TrimSpace(email); email != "" {
		user.Email = &email
	}

	if err := s.repos.User.Create(ctx, s.db.SQLWithContext(ctx), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Wrap(types.ErrConflict, "username or email already registered")
		}
		return nil, err
	}

	log.Info("User registered", "userID", user.ID)
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repos.User.GetByUsername(ctx, s.db.SQLWithContext(ctx), strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) IssueToken(user *User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TOKEN_EXPIRY)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", s.log.Function("IssueToken").Err("failed to sign token", err, "userID", user.ID)
	}

	return signed, nil
}

// ValidateToken parses a bearer token. Any failure yields an invalid
// TokenInfo and ErrPermission.
func (s *AuthService) ValidateToken(tokenString string) (types.TokenInfo, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return types.TokenInfo{}, types.Wrap(types.ErrPermission, "invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return types.TokenInfo{}, types.Wrap(types.ErrPermission, "invalid token subject")
	}

	return types.TokenInfo{
		TokenID:   claims.ID,
		UserID:    userID,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		Valid:     true,
	}, nil
}

// Authenticate resolves a token to the active user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*User, error) {
	info, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if s.isRevoked(ctx, info.TokenID) {
		return nil, types.Wrap(types.ErrPermission, "token has been revoked")
	}

	user, err := s.repos.User.GetByID(ctx, s.db.SQLWithContext(ctx), info.UserID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.Wrap(types.ErrPermission, "token user no longer exists")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, types.Wrap(types.ErrPermission, "user is inactive")
	}

	return user, nil
}

// Logout revokes the token until it would have expired anyway. Without a
// session cache tokens stay valid until expiry.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	log := s.log.Function("Logout").TraceFromContext(ctx)

	info, err := s.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	if s.sessions == nil || info.TokenID == "" {
		log.Warn("session cache unavailable, token not revoked", "userID", info.UserID)
		return nil
	}

	ttl := time.Until(info.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := database.NewCacheBuilder(s.sessions, info.TokenID).
		WithContext(ctx).
		WithHash(REVOKED_TOKEN_PREFIX).
		WithStruct(info.UserID).
		WithTTL(ttl).
		Set(); err != nil {
		return log.Err("failed to revoke token", err, "userID", info.UserID)
	}

	log.Info("Token revoked", "userID", info.UserID)
	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, tokenID string) bool {
	if s.sessions == nil || tokenID == "" {
		return false
	}

	var userID uuid.UUID
	found, err := database.NewCacheBuilder(s.sessions, tokenID).
		WithContext(ctx).
		WithHash(REVOKED_TOKEN_PREFIX).
		Get(&userID)
	if err != nil {
		s.log.Function("isRevoked").Warn("failed to check revoked tokens", "error", err)
		return false
	}

	return found
}
