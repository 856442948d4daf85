package subscriptionController

import (
	"context"
	"encoding/json"
	"errors"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"
	"kaudio/internal/utils"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionController struct {
	repos              repositories.Repository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
	now                func() time.Time
}

type PlanRequest struct {
	Type        string          `json:"type"`
	Permissions json.RawMessage `json:"permissions"`
}

type SubscribeRequest struct {
	PlanID    uuid.UUID `json:"planId"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
}

type MySubscriptionsResponse struct {
	Subscriptions []*UserSubscription `json:"subscriptions"`
	Active        *UserSubscription   `json:"active,omitempty"`
}

type SubscriptionControllerInterface interface {
	ListPlans(ctx context.Context) ([]*SubscriptionPlan, error)
	CreatePlan(ctx context.Context, user *User, request *PlanRequest) (*SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, user *User, planID uuid.UUID, request *PlanRequest) (*SubscriptionPlan, error)
	Subscribe(ctx context.Context, user *User, request *SubscribeRequest) (*UserSubscription, error)
	Cancel(ctx context.Context, user *User, subscriptionID uuid.UUID) (*UserSubscription, error)
	ListMine(ctx context.Context, user *User) (*MySubscriptionsResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) SubscriptionControllerInterface {
	return &SubscriptionController{
		repos:              repos,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("subscriptionController"),
		now:                time.Now,
	}
}

func (c *SubscriptionController) today() time.Time {
	y, m, d := c.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func permissionsJSON(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return datatypes.JSON("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, types.Wrap(types.ErrValidation, "permissions must be valid JSON")
	}
	return datatypes.JSON(raw), nil
}

func (c *SubscriptionController) ListPlans(ctx context.Context) ([]*SubscriptionPlan, error) {
	return c.repos.Subscription.ListPlans(ctx, c.db.SQLWithContext(ctx))
}

func (c *SubscriptionController) CreatePlan(
	ctx context.Context,
	user *User,
	request *PlanRequest,
) (*SubscriptionPlan, error) {
	log := c.log.Function("CreatePlan").TraceFromContext(ctx)

	if !user.IsAdmin() {
		return nil, types.Wrap(types.ErrPermission, "only admins can manage plans")
	}
	if !ValidPlanType(request.Type) {
		return nil, types.Wrap(types.ErrValidation, "unknown plan type %q", request.Type)
	}

	permissions, err := permissionsJSON(request.Permissions)
	if err != nil {
		return nil, err
	}

	plan := &SubscriptionPlan{Type: request.Type, Permissions: permissions}
	if err := c.repos.Subscription.CreatePlan(ctx, c.db.SQLWithContext(ctx), plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Wrap(types.ErrConflict, "plan %q already exists", request.Type)
		}
		return nil, err
	}

	log.Info("Subscription plan created", "planID", plan.ID, "type", plan.Type)
	return plan, nil
}

func (c *SubscriptionController) UpdatePlan(
	ctx context.Context,
	user *User,
	planID uuid.UUID,
	request *PlanRequest,
) (*SubscriptionPlan, error) {
	if !user.IsAdmin() {
		return nil, types.Wrap(types.ErrPermission, "only admins can manage plans")
	}

	permissions, err := permissionsJSON(request.Permissions)
	if err != nil {
		return nil, err
	}

	var plan *SubscriptionPlan
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		plan, err = c.repos.Subscription.GetPlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		plan.Permissions = permissions
		return c.repos.Subscription.UpdatePlanPermissions(ctx, tx, planID, permissions)
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (c *SubscriptionController) Subscribe(
	ctx context.Context,
	user *User,
	request *SubscribeRequest,
) (*UserSubscription, error) {
	log := c.log.Function("Subscribe").TraceFromContext(ctx)

	start := c.today()
	if request.StartDate != "" {
		parsed, err := utils.ParseDate(request.StartDate)
		if err != nil {
			return nil, types.Wrap(types.ErrValidation, "invalid start date: %v", err)
		}
		start = parsed
	}

	subscription := &UserSubscription{
		UserID:    user.ID,
		PlanID:    request.PlanID,
		StartDate: datatypes.Date(start),
	}

	end, err := utils.ParseOptionalDate(request.EndDate)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid end date: %v", err)
	}
	if end != nil {
		if end.Before(start) {
			return nil, types.Wrap(types.ErrValidation, "end date must not precede start date")
		}
		endDate := datatypes.Date(*end)
		subscription.EndDate = &endDate
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		plan, err := c.repos.Subscription.GetPlan(ctx, tx, request.PlanID)
		if err != nil {
			return err
		}

		exists, err := c.repos.Subscription.SubscriptionExists(ctx, tx, user.ID, plan.ID)
		if err != nil {
			return err
		}
		if exists {
			return types.Wrap(types.ErrConflict, "user already subscribed to plan %s", plan.Type)
		}

		if err := c.repos.Subscription.Subscribe(ctx, tx, subscription); err != nil {
			return err
		}
		subscription.Plan = plan
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Wrap(types.ErrConflict, "user already subscribed to plan")
		}
		return nil, err
	}

	log.Info("User subscribed", "userID", user.ID, "planID", request.PlanID)
	return subscription, nil
}

// Cancel ends the subscription today. Subscriptions that have not started
// yet cannot be cancelled this way.
func (c *SubscriptionController) Cancel(
	ctx context.Context,
	user *User,
	subscriptionID uuid.UUID,
) (*UserSubscription, error) {
	today := c.today()

	var subscription *UserSubscription
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		subscription, err = c.repos.Subscription.GetSubscription(ctx, tx, subscriptionID)
		if err != nil {
			return err
		}
		if subscription.UserID != user.ID {
			return types.Wrap(types.ErrPermission, "subscription %s belongs to another user", subscriptionID)
		}
		if today.Before(time.Time(subscription.StartDate)) {
			return types.Wrap(types.ErrValidation, "subscription has not started yet")
		}

		endDate := datatypes.Date(today)
		subscription.EndDate = &endDate
		return c.repos.Subscription.SetEndDate(ctx, tx, subscriptionID, endDate)
	})
	if err != nil {
		return nil, err
	}

	return subscription, nil
}

func (c *SubscriptionController) ListMine(ctx context.Context, user *User) (*MySubscriptionsResponse, error) {
	subscriptions, err := c.repos.Subscription.ListByUser(ctx, c.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}

	response := &MySubscriptionsResponse{Subscriptions: subscriptions}
	today := c.today()
	for _, subscription := range subscriptions {
		if subscription.ActiveOn(today) {
			response.Active = subscription
			break
		}
	}

	return response, nil
}
