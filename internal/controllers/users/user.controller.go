package userController

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	catalogService     *services.CatalogService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type UserControllerInterface interface {
	Me(ctx context.Context, user *User) UserProfile
	List(ctx context.Context, limit, offset int) ([]UserProfile, error)
	SetRole(ctx context.Context, admin *User, userID uuid.UUID, role string) (UserProfile, error)
	Delete(ctx context.Context, admin *User, userID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:           repos.User,
		transactionService: services.Transaction,
		catalogService:     services.Catalog,
		db:                 db,
		Config:             config,
		log:                logger.New("userController"),
	}
}

func (uc *UserController) Me(ctx context.Context, user *User) UserProfile {
	return user.ToProfile()
}

func (uc *UserController) List(ctx context.Context, limit, offset int) ([]UserProfile, error) {
	users, err := uc.userRepo.List(ctx, uc.db.SQLWithContext(ctx), limit, offset)
	if err != nil {
		return nil, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.ToProfile())
	}
	return profiles, nil
}

func (uc *UserController) SetRole(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
	role string,
) (UserProfile, error) {
	log := uc.log.Function("SetRole").TraceFromContext(ctx)

	if !ValidRole(role) {
		return UserProfile{}, types.Wrap(types.ErrValidation, "unknown role %q", role)
	}
	if admin.ID == userID && role != RoleAdmin {
		return UserProfile{}, types.Wrap(types.ErrValidation, "admins cannot demote themselves")
	}

	var user *User
	err := uc.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = uc.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		user.Role = role
		return uc.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return UserProfile{}, err
	}

	log.Info("User role updated", "userID", userID, "role", role, "adminID", admin.ID)
	return user.ToProfile(), nil
}

func (uc *UserController) Delete(ctx context.Context, admin *User, userID uuid.UUID) error {
	log := uc.log.Function("Delete").TraceFromContext(ctx)

	if admin.ID == userID {
		return types.Wrap(types.ErrValidation, "admins cannot delete their own account here")
	}

	err := uc.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return uc.catalogService.DeleteUser(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	log.Info("User deleted", "userID", userID, "adminID", admin.ID)
	return nil
}
