package catalogController

import (
	"context"
	. "kaudio/internal/models"
	"kaudio/internal/repositories"
	"kaudio/internal/types"
	"kaudio/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackRequest struct {
	Title        string      `json:"title"`
	ArtistID     uuid.UUID   `json:"artistId"`
	AlbumID      *uuid.UUID  `json:"albumId,omitempty"`
	TrackNumber  *int        `json:"trackNumber,omitempty"`
	Duration     int         `json:"duration"`
	DurationText string      `json:"durationText,omitempty"`
	ReleaseDate  string      `json:"releaseDate,omitempty"`
	ImgURL       string      `json:"imgUrl,omitempty"`
	Lyrics       string      `json:"lyrics,omitempty"`
	IsExplicit   bool        `json:"isExplicit"`
	GenreIDs     []uuid.UUID `json:"genreIds,omitempty"`
}

// TrackResponse adds the M:SS rendering of the duration to a track.
type TrackResponse struct {
	*Track
	DurationDisplay string `json:"durationDisplay"`
}

func newTrackResponse(track *Track) *TrackResponse {
	return &TrackResponse{Track: track, DurationDisplay: utils.FormatDuration(track.Duration)}
}

func (r *TrackRequest) build() (*Track, error) {
	title, _ := utils.CleanText(r.Title)
	lyrics, _ := utils.CleanText(r.Lyrics)

	duration := r.Duration
	if r.DurationText != "" {
		parsed, err := utils.ParseDuration(r.DurationText)
		if err != nil {
			return nil, types.Wrap(types.ErrValidation, "%v", err)
		}
		duration = parsed
	}

	releaseDate, err := utils.ParseOptionalDate(r.ReleaseDate)
	if err != nil {
		return nil, types.Wrap(types.ErrValidation, "invalid release date: %v", err)
	}

	return &Track{
		Title:       title,
		ArtistID:    r.ArtistID,
		AlbumID:     r.AlbumID,
		TrackNumber: r.TrackNumber,
		Duration:    duration,
		ReleaseDate: releaseDate,
		ImgURL:      r.ImgURL,
		Lyrics:      lyrics,
		IsExplicit:  r.IsExplicit,
	}, nil
}

func (c *CatalogController) CreateTrack(
	ctx context.Context,
	user *User,
	request *TrackRequest,
) (*TrackResponse, error) {
	log := c.log.Function("CreateTrack").TraceFromContext(ctx)

	track, err := request.build()
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableArtist(ctx, tx, user, track.ArtistID); err != nil {
			return err
		}
		if err := c.checkGenres(ctx, tx, request.GenreIDs); err != nil {
			return err
		}
		if err := c.catalogService.CreateTrack(ctx, tx, track); err != nil {
			return err
		}
		return c.repos.Track.SetGenres(ctx, tx, track.ID, request.GenreIDs)
	})
	if err != nil {
		return nil, err
	}

	c.repos.Stats.InvalidateCache(ctx)
	log.Info("Track created", "trackID", track.ID, "artistID", track.ArtistID)
	return newTrackResponse(track), nil
}

func (c *CatalogController) GetTrack(ctx context.Context, trackID uuid.UUID) (*TrackResponse, error) {
	track, err := c.repos.Track.GetWithRelations(ctx, c.db.SQLWithContext(ctx), trackID)
	if err != nil {
		return nil, err
	}
	return newTrackResponse(track), nil
}

func (c *CatalogController) ListTracks(
	ctx context.Context,
	filter repositories.TrackFilter,
) ([]*TrackResponse, error) {
	tracks, err := c.repos.Track.List(ctx, c.db.SQLWithContext(ctx), filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*TrackResponse, 0, len(tracks))
	for _, track := range tracks {
		responses = append(responses, newTrackResponse(track))
	}
	return responses, nil
}

// manageableTrack loads the track and checks the caller manages its artist.
func (c *CatalogController) manageableTrack(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	trackID uuid.UUID,
) (*Track, error) {
	track, err := c.repos.Track.GetByID(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}
	if _, err := c.manageableArtist(ctx, tx, user, track.ArtistID); err != nil {
		return nil, err
	}
	return track, nil
}

func (c *CatalogController) UpdateTrack(
	ctx context.Context,
	user *User,
	trackID uuid.UUID,
	request *TrackRequest,
) (*TrackResponse, error) {
	updated, err := request.build()
	if err != nil {
		return nil, err
	}

	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		current, err := c.manageableTrack(ctx, tx, user, trackID)
		if err != nil {
			return err
		}

		updated.IsExplicit = current.IsExplicit
		updated.PlayCount = current.PlayCount
		updated.LikesCount = current.LikesCount
		updated.AvgRating = current.AvgRating
		updated.CreatedAt = current.CreatedAt

		return c.catalogService.UpdateTrack(ctx, tx, current, updated)
	})
	if err != nil {
		return nil, err
	}

	c.repos.Stats.InvalidateCache(ctx)
	return newTrackResponse(updated), nil
}

func (c *CatalogController) DeleteTrack(ctx context.Context, user *User, trackID uuid.UUID) error {
	log := c.log.Function("DeleteTrack").TraceFromContext(ctx)

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableTrack(ctx, tx, user, trackID); err != nil {
			return err
		}
		return c.catalogService.DeleteTrack(ctx, tx, trackID)
	})
	if err != nil {
		return err
	}

	c.repos.Stats.InvalidateCache(ctx)
	log.Info("Track deleted", "trackID", trackID, "userID", user.ID)
	return nil
}

func (c *CatalogController) SetTrackGenres(
	ctx context.Context,
	user *User,
	trackID uuid.UUID,
	genreIDs []uuid.UUID,
) error {
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := c.manageableTrack(ctx, tx, user, trackID); err != nil {
			return err
		}
		if err := c.checkGenres(ctx, tx, genreIDs); err != nil {
			return err
		}
		return c.repos.Track.SetGenres(ctx, tx, trackID, genreIDs)
	})
	if err != nil {
		return err
	}

	c.repos.Stats.InvalidateCache(ctx)
	return nil
}

func (c *CatalogController) SetExplicit(
	ctx context.Context,
	user *User,
	trackID uuid.UUID,
	explicit bool,
) (*TrackResponse, error) {
	if err := requireAdmin(user, "mark tracks explicit"); err != nil {
		return nil, err
	}

	var track *Track
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.repos.Track.SetExplicit(ctx, tx, trackID, explicit); err != nil {
			return err
		}
		var err error
		track, err = c.repos.Track.GetByID(ctx, tx, trackID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newTrackResponse(track), nil
}
