package activityController

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type ActivityController struct {
	activityService *services.ActivityService
	db              database.DB
	Config          config.Config
	log             logger.Logger
}

// ListRequest carries the query parameters of the activity listing. Times
// are RFC3339. Only admins may list another user's activities.
type ListRequest struct {
	UserID       string `query:"userId"`
	ActivityType string `query:"type"`
	From         string `query:"from"`
	To           string `query:"to"`
	MinDuration  *int   `query:"minDuration"`
	MaxDuration  *int   `query:"maxDuration"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}

type ActivityControllerInterface interface {
	Record(ctx context.Context, user *User, input services.ActivityInput) (*UserActivity, error)
	Delete(ctx context.Context, user *User, activityID uuid.UUID) error
	List(ctx context.Context, user *User, request *ListRequest) ([]*UserActivity, error)
	LikedTracks(ctx context.Context, user *User) ([]*Track, error)
}

func New(
	services services.Service,
	config config.Config,
	db database.DB,
) ActivityControllerInterface {
	return &ActivityController{
		activityService: services.Activity,
		db:              db,
		Config:          config,
		log:             logger.New("activityController"),
	}
}

func (c *ActivityController) Record(
	ctx context.Context,
	user *User,
	input services.ActivityInput,
) (*UserActivity, error) {
	return c.activityService.Record(ctx, user, input)
}

func (c *ActivityController) Delete(ctx context.Context, user *User, activityID uuid.UUID) error {
	return c.activityService.Delete(ctx, user, activityID)
}

func (c *ActivityController) List(
	ctx context.Context,
	user *User,
	request *ListRequest,
) ([]*UserActivity, error) {
	filter, err := buildFilter(user, request)
	if err != nil {
		return nil, err
	}
	return c.activityService.List(ctx, filter)
}

func (c *ActivityController) LikedTracks(ctx context.Context, user *User) ([]*Track, error) {
	return c.activityService.LikedTracks(ctx, user.ID)
}

func buildFilter(user *User, request *ListRequest) (repositories.ActivityFilter, error) {
	filter := repositories.ActivityFilter{
		UserID:      &user.ID,
		MinDuration: request.MinDuration,
		MaxDuration: request.MaxDuration,
		Limit:       request.Limit,
		Offset:      request.Offset,
	}

	if request.UserID != "" {
		userID, err := uuid.Parse(request.UserID)
		if err != nil {
			return filter, types.Wrap(types.ErrValidation, "invalid userId")
		}
		if userID != user.ID && !user.IsAdmin() {
			return filter, types.Wrap(types.ErrPermission, "cannot list another user's activities")
		}
		filter.UserID = &userID
	}

	if request.ActivityType != "" {
		activityType := ActivityType(request.ActivityType)
		if !activityType.Valid() {
			return filter, types.Wrap(types.ErrValidation, "unknown activity type %q", request.ActivityType)
		}
		filter.ActivityType = &activityType
	}

	for _, bound := range []struct {
		raw    string
		target **time.Time
		name   string
	}{
		{request.From, &filter.From, "from"},
		{request.To, &filter.To, "to"},
	} {
		if bound.raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, bound.raw)
		if err != nil {
			return filter, types.Wrap(types.ErrValidation, "invalid %s, expected RFC3339", bound.name)
		}
		parsed = parsed.UTC()
		*bound.target = &parsed
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, types.Wrap(types.ErrValidation, "to must not precede from")
	}
	if filter.MinDuration != nil && filter.MaxDuration != nil && *filter.MaxDuration < *filter.MinDuration {
		return filter, types.Wrap(types.ErrValidation, "maxDuration must not be below minDuration")
	}

	return filter, nil
}
