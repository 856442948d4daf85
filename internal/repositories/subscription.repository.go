package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, tx *gorm.DB, plan *SubscriptionPlan) error
	GetPlan(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*SubscriptionPlan, error)
	ListPlans(ctx context.Context, tx *gorm.DB) ([]*SubscriptionPlan, error)
	UpdatePlanPermissions(ctx context.Context, tx *gorm.DB, id uuid.UUID, permissions datatypes.JSON) error

	Subscribe(ctx context.Context, tx *gorm.DB, subscription *UserSubscription) error
	GetSubscription(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UserSubscription, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*UserSubscription, error)
	SubscriptionExists(ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) (bool, error)
	SetEndDate(ctx context.Context, tx *gorm.DB, id uuid.UUID, endDate datatypes.Date) error
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type subscriptionRepository struct {
	log logger.Logger
}

func NewSubscriptionRepository() SubscriptionRepository {
	return &subscriptionRepository{
		log: logger.New("subscriptionRepository"),
	}
}

func (r *subscriptionRepository) CreatePlan(ctx context.Context, tx *gorm.DB, plan *SubscriptionPlan) error {
	log := r.log.Function("CreatePlan")

	if err := gorm.G[SubscriptionPlan](tx).Create(ctx, plan); err != nil {
		return log.Err("failed to create subscription plan", err, "type", plan.Type)
	}

	return nil
}

func (r *subscriptionRepository) GetPlan(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*SubscriptionPlan, error) {
	plan, err := gorm.G[SubscriptionPlan](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "subscription plan", id)
	}

	return &plan, nil
}

func (r *subscriptionRepository) ListPlans(ctx context.Context, tx *gorm.DB) ([]*SubscriptionPlan, error) {
	log := r.log.Function("ListPlans")

	plans, err := gorm.G[*SubscriptionPlan](tx).Order("type ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list subscription plans", err)
	}

	return plans, nil
}

func (r *subscriptionRepository) UpdatePlanPermissions(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	permissions datatypes.JSON,
) error {
	log := r.log.Function("UpdatePlanPermissions")

	rows, err := gorm.G[SubscriptionPlan](tx).Where("id = ?", id).Update(ctx, "permissions", permissions)
	if err != nil {
		return log.Err("failed to update plan permissions", err, "planID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "subscription plan", id)
	}

	return nil
}

func (r *subscriptionRepository) Subscribe(
	ctx context.Context,
	tx *gorm.DB,
	subscription *UserSubscription,
) error {
	log := r.log.Function("Subscribe")

	if err := gorm.G[UserSubscription](tx).Create(ctx, subscription); err != nil {
		return log.Err("failed to create subscription", err,
			"userID", subscription.UserID,
			"planID", subscription.PlanID,
		)
	}

	return nil
}

func (r *subscriptionRepository) GetSubscription(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*UserSubscription, error) {
	subscription, err := gorm.G[UserSubscription](tx).Preload("Plan", nil).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "subscription", id)
	}

	return &subscription, nil
}

func (r *subscriptionRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*UserSubscription, error) {
	log := r.log.Function("ListByUser")

	subscriptions, err := gorm.G[*UserSubscription](tx).
		Preload("Plan", nil).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list subscriptions", err, "userID", userID)
	}

	return subscriptions, nil
}

func (r *subscriptionRepository) SubscriptionExists(
	ctx context.Context,
	tx *gorm.DB,
	userID, planID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserSubscription{}).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("SubscriptionExists").Err("failed to check subscription", err)
	}

	return count > 0, nil
}

func (r *subscriptionRepository) SetEndDate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	endDate datatypes.Date,
) error {
	log := r.log.Function("SetEndDate")

	if err := tx.WithContext(ctx).
		Model(&UserSubscription{}).
		Where("id = ?", id).
		UpdateColumn("end_date", endDate).Error; err != nil {
		return log.Err("failed to end subscription", err, "subscriptionID", id)
	}

	return nil
}

func (r *subscriptionRepository) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if _, err := gorm.G[UserSubscription](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return r.log.Function("DeleteByUser").Err("failed to delete subscriptions", err, "userID", userID)
	}

	return nil
}
