package statsController

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type StatsController struct {
	repos  repositories.Repository
	db     database.DB
	Config config.Config
	log    logger.Logger
}

type PopularityResponse struct {
	TrackID    uuid.UUID `json:"trackId"`
	PlayCount  int       `json:"playCount"`
	LikesCount int       `json:"likesCount"`
	Score      float64   `json:"score"`
}

type RatingResponse struct {
	ID      uuid.UUID `json:"id"`
	Rating  *float64  `json:"rating"`
	Reviews int       `json:"reviews"`
}

type StatsControllerInterface interface {
	PopularTracks(ctx context.Context, limit int) ([]types.PopularTrack, error)
	GenreStatistics(ctx context.Context) ([]types.GenreStatistic, error)
	TopArtists(ctx context.Context, limit int) ([]types.ArtistStatistic, error)
	TrackPopularity(ctx context.Context, trackID uuid.UUID) (*PopularityResponse, error)
	TrackRating(ctx context.Context, trackID uuid.UUID) (*RatingResponse, error)
	AlbumRating(ctx context.Context, albumID uuid.UUID) (*RatingResponse, error)
}

func New(
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) StatsControllerInterface {
	return &StatsController{
		repos:  repos,
		db:     db,
		Config: config,
		log:    logger.New("statsController"),
	}
}

func (c *StatsController) PopularTracks(ctx context.Context, limit int) ([]types.PopularTrack, error) {
	return c.repos.Stats.PopularTracks(ctx, c.db.SQLWithContext(ctx), limit)
}

func (c *StatsController) GenreStatistics(ctx context.Context) ([]types.GenreStatistic, error) {
	return c.repos.Stats.GenreStatistics(ctx, c.db.SQLWithContext(ctx))
}

func (c *StatsController) TopArtists(ctx context.Context, limit int) ([]types.ArtistStatistic, error) {
	return c.repos.Stats.TopArtists(ctx, c.db.SQLWithContext(ctx), limit)
}

func (c *StatsController) TrackPopularity(ctx context.Context, trackID uuid.UUID) (*PopularityResponse, error) {
	track, err := c.repos.Track.GetByID(ctx, c.db.SQLWithContext(ctx), trackID)
	if err != nil {
		return nil, err
	}

	return &PopularityResponse{
		TrackID:    track.ID,
		PlayCount:  track.PlayCount,
		LikesCount: track.LikesCount,
		Score:      services.PopularityScore(track.PlayCount, track.LikesCount),
	}, nil
}

func (c *StatsController) TrackRating(ctx context.Context, trackID uuid.UUID) (*RatingResponse, error) {
	tx := c.db.SQLWithContext(ctx)

	if _, err := c.repos.Track.GetByID(ctx, tx, trackID); err != nil {
		return nil, err
	}

	rating, err := c.repos.Review.AverageTrackRating(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	reviews, err := c.repos.Review.ListTrackReviews(ctx, tx, trackID)
	if err != nil {
		return nil, err
	}

	return &RatingResponse{ID: trackID, Rating: rating, Reviews: len(reviews)}, nil
}

func (c *StatsController) AlbumRating(ctx context.Context, albumID uuid.UUID) (*RatingResponse, error) {
	tx := c.db.SQLWithContext(ctx)

	if _, err := c.repos.Album.GetByID(ctx, tx, albumID); err != nil {
		return nil, err
	}

	rating, err := c.repos.Review.AverageAlbumRating(ctx, tx, albumID)
	if err != nil {
		return nil, err
	}

	reviews, err := c.repos.Review.ListAlbumReviews(ctx, tx, albumID)
	if err != nil {
		return nil, err
	}

	return &RatingResponse{ID: albumID, Rating: rating, Reviews: len(reviews)}, nil
}
