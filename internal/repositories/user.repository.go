package repositories

import (
	"context"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	USER_CACHE_EXPIRY = 7 * 24 * time.Hour
	USER_CACHE_PREFIX = "user"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*User, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*User, error)
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "username", user.Username)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var cached User
	if r.getCache(ctx, id, &cached) {
		return &cached, nil
	}

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "user", id)
	}

	r.setCache(ctx, &user, log)

	return &user, nil
}

// GetForUpdate bypasses the cache and locks the user row. Library writes take
// this lock so position assignment for one user is serialized.
func (r *userRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	var user User
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (*User, error) {
	user, err := gorm.G[User](tx).Where("username = ?", username).First(ctx)
	if err != nil {
		return nil, notFound(err, "user", username)
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*User, error) {
	log := r.log.Function("List")

	users, err := gorm.G[*User](tx).
		Order("username ASC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list users", err)
	}

	return users, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	r.clearCache(ctx, user.ID, log)

	return nil
}

func (r *userRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rows, err := gorm.G[User](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete user", err, "userID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "user", id)
	}

	r.clearCache(ctx, id, log)

	return nil
}

func (r *userRepository) getCache(ctx context.Context, id uuid.UUID, user *User) bool {
	if r.cache == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(user)
	if err != nil {
		r.log.Function("getCache").Warn("failed to get user from cache", "userID", id, "error", err)
		return false
	}

	return found
}

func (r *userRepository) setCache(ctx context.Context, user *User, log logger.Logger) {
	if r.cache == nil {
		return
	}

	if err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}

func (r *userRepository) clearCache(ctx context.Context, id uuid.UUID, log logger.Logger) {
	if r.cache == nil {
		return
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", id, "error", err)
	}
}
