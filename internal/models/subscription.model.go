package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanFamily  = "family"
)

type SubscriptionPlan struct {
	BaseUUIDModel
	Type        string         `gorm:"type:text;not null;uniqueIndex" json:"type"`
	Permissions datatypes.JSON `gorm:"type:jsonb"                     json:"permissions"`
}

func ValidPlanType(planType string) bool {
	switch planType {
	case PlanFree, PlanPremium, PlanFamily:
		return true
	}
	return false
}

type UserSubscription struct {
	BaseUUIDModel
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_subscriptions_pair,priority:1" json:"userId"`
	PlanID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_subscriptions_pair,priority:2" json:"planId"`
	StartDate datatypes.Date `gorm:"not null"                                                              json:"startDate"`
	EndDate   *datatypes.Date `                                                                             json:"endDate,omitempty"`

	User *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"plan,omitempty"`
}

// ActiveOn reports whether the subscription covers the given day.
func (s *UserSubscription) ActiveOn(day time.Time) bool {
	day = dateOnly(day)
	if day.Before(dateOnly(time.Time(s.StartDate))) {
		return false
	}
	if s.EndDate == nil {
		return true
	}
	return !day.After(dateOnly(time.Time(*s.EndDate)))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
