package repositories

import (
	"context"
	"fmt"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counter names one denormalized integer column.
type Counter struct {
	Table  string
	Column string
}

var (
	TrackPlayCount         = Counter{Table: "tracks", Column: "play_count"}
	TrackLikesCount        = Counter{Table: "tracks", Column: "likes_count"}
	AlbumPlayCount         = Counter{Table: "albums", Column: "play_count"}
	AlbumLikesCount        = Counter{Table: "albums", Column: "likes_count"}
	AlbumTotalTracks       = Counter{Table: "albums", Column: "total_tracks"}
	AlbumTotalDuration     = Counter{Table: "albums", Column: "total_duration"}
	ArtistMonthlyListeners = Counter{Table: "artists", Column: "monthly_listeners"}
	PlaylistTotalTracks    = Counter{Table: "playlists", Column: "total_tracks"}
	PlaylistTotalDuration  = Counter{Table: "playlists", Column: "total_duration"}
)

type TrackCounters struct {
	PlayCount  int64
	LikesCount int64
}

type AlbumCounters struct {
	PlayCount     int64
	LikesCount    int64
	TotalTracks   int64 `json:"totalTracks"`
	TotalDuration int64 `json:"totalDuration"`
}

type CollectionTotals struct {
	TotalTracks   int64 `json:"totalTracks"`
	TotalDuration int64 `json:"totalDuration"`
}

type CounterRepository interface {
	Increment(ctx context.Context, tx *gorm.DB, counter Counter, id uuid.UUID, n int) error
	Decrement(ctx context.Context, tx *gorm.DB, counter Counter, id uuid.UUID, n int) error
	Adjust(ctx context.Context, tx *gorm.DB, counter Counter, id uuid.UUID, delta int) error
	Set(ctx context.Context, tx *gorm.DB, table string, id uuid.UUID, values map[string]any) error

	RecomputeTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) (TrackCounters, error)
	RecomputeAlbum(ctx context.Context, tx *gorm.DB, albumID uuid.UUID) (AlbumCounters, error)
	RecomputePlaylist(ctx context.Context, tx *gorm.DB, playlistID uuid.UUID) (CollectionTotals, error)
	RecomputeArtistListeners(ctx context.Context, tx *gorm.DB, artistID uuid.UUID) (int64, error)
}

type counterRepository struct {
	log logger.Logger
}

func NewCounterRepository() CounterRepository {
	return &counterRepository{
		log: logger.New("counterRepository"),
	}
}

// Increment adds n in a single UPDATE so concurrent writers never lose counts.
func (r *counterRepository) Increment(
	ctx context.Context,
	tx *gorm.DB,
	counter Counter,
	id uuid.UUID,
	n int,
) error {
	expr := gorm.Expr(fmt.Sprintf("%s + ?", counter.Column), n)
	return r.apply(ctx, tx, counter, id, expr, "Increment")
}

// Decrement subtracts n, flooring the column at zero.
func (r *counterRepository) Decrement(
	ctx context.Context,
	tx *gorm.DB,
	counter Counter,
	id uuid.UUID,
	n int,
) error {
	expr := gorm.Expr(
		fmt.Sprintf("CASE WHEN %s >= ? THEN %s - ? ELSE 0 END", counter.Column, counter.Column),
		n, n,
	)
	return r.apply(ctx, tx, counter, id, expr, "Decrement")
}

func (r *counterRepository) Adjust(
	ctx context.Context,
	tx *gorm.DB,
	counter Counter,
	id uuid.UUID,
	delta int,
) error {
	switch {
	case delta > 0:
		return r.Increment(ctx, tx, counter, id, delta)
	case delta < 0:
		return r.Decrement(ctx, tx, counter, id, -delta)
	default:
		return nil
	}
}

func (r *counterRepository) Set(
	ctx context.Context,
	tx *gorm.DB,
	table string,
	id uuid.UUID,
	values map[string]any,
) error {
	log := r.log.Function("Set")

	result := tx.WithContext(ctx).Table(table).Where("id = ?", id).UpdateColumns(values)
	if result.Error != nil {
		return log.Err("failed to set counters", result.Error, "table", table, "id", id)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, table, id)
	}

	return nil
}

func (r *counterRepository) apply(
	ctx context.Context,
	tx *gorm.DB,
	counter Counter,
	id uuid.UUID,
	expr any,
	fn string,
) error {
	log := r.log.Function(fn)

	result := tx.WithContext(ctx).
		Table(counter.Table).
		Where("id = ?", id).
		UpdateColumn(counter.Column, expr)
	if result.Error != nil {
		return log.Err("failed to update counter", result.Error,
			"table", counter.Table,
			"column", counter.Column,
			"id", id,
		)
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, counter.Table, id)
	}

	return nil
}

func (r *counterRepository) RecomputeTrack(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) (TrackCounters, error) {
	var counters TrackCounters
	err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Select(
			"COALESCE(SUM(CASE WHEN activity_type = ? THEN 1 ELSE 0 END), 0) AS play_count, "+
				"COALESCE(SUM(CASE WHEN activity_type = ? THEN 1 ELSE 0 END), 0) AS likes_count",
			ActivityPlay, ActivityLike,
		).
		Where("track_id = ?", trackID).
		Scan(&counters).Error
	if err != nil {
		return counters, r.log.Function("RecomputeTrack").Err("failed to recompute track", err, "trackID", trackID)
	}

	return counters, nil
}

func (r *counterRepository) RecomputeAlbum(
	ctx context.Context,
	tx *gorm.DB,
	albumID uuid.UUID,
) (AlbumCounters, error) {
	log := r.log.Function("RecomputeAlbum")

	var counters AlbumCounters
	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Where("album_id = ? AND activity_type = ?", albumID, ActivityLikeAlbum).
		Count(&counters.LikesCount).Error; err != nil {
		return counters, log.Err("failed to count album likes", err, "albumID", albumID)
	}

	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Joins("JOIN tracks ON tracks.id = user_activities.track_id").
		Where("tracks.album_id = ? AND user_activities.activity_type = ?", albumID, ActivityPlay).
		Count(&counters.PlayCount).Error; err != nil {
		return counters, log.Err("failed to count album plays", err, "albumID", albumID)
	}

	var totals CollectionTotals
	if err := tx.WithContext(ctx).
		Model(&Track{}).
		Select("COUNT(*) AS total_tracks, COALESCE(SUM(duration), 0) AS total_duration").
		Where("album_id = ?", albumID).
		Scan(&totals).Error; err != nil {
		return counters, log.Err("failed to total album tracks", err, "albumID", albumID)
	}
	counters.TotalTracks = totals.TotalTracks
	counters.TotalDuration = totals.TotalDuration

	return counters, nil
}

func (r *counterRepository) RecomputePlaylist(
	ctx context.Context,
	tx *gorm.DB,
	playlistID uuid.UUID,
) (CollectionTotals, error) {
	var totals CollectionTotals
	err := tx.WithContext(ctx).
		Table("playlist_tracks").
		Select("COUNT(*) AS total_tracks, COALESCE(SUM(tracks.duration), 0) AS total_duration").
		Joins("JOIN tracks ON tracks.id = playlist_tracks.track_id").
		Where("playlist_tracks.playlist_id = ?", playlistID).
		Scan(&totals).Error
	if err != nil {
		return totals, r.log.Function("RecomputePlaylist").
			Err("failed to recompute playlist", err, "playlistID", playlistID)
	}

	return totals, nil
}

// RecomputeArtistListeners counts plays of the artist's tracks that belong to
// an album, matching what the play path increments.
func (r *counterRepository) RecomputeArtistListeners(
	ctx context.Context,
	tx *gorm.DB,
	artistID uuid.UUID,
) (int64, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&UserActivity{}).
		Joins("JOIN tracks ON tracks.id = user_activities.track_id").
		Where("tracks.artist_id = ? AND tracks.album_id IS NOT NULL", artistID).
		Where("user_activities.activity_type = ?", ActivityPlay).
		Count(&count).Error; err != nil {
		return 0, r.log.Function("RecomputeArtistListeners").
			Err("failed to recompute artist listeners", err, "artistID", artistID)
	}

	return count, nil
}
