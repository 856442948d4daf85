package repositories

import (
	"context"
	"fmt"
	"kaudio/internal/database"
	"kaudio/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	DEFAULT_RANKING_LIMIT = 10
	STATS_CACHE_PREFIX    = "stats"
	STATS_KEYS_SET        = "stats:keys"
)

type StatsRepository interface {
	PopularTracks(ctx context.Context, tx *gorm.DB, limit int) ([]types.PopularTrack, error)
	GenreStatistics(ctx context.Context, tx *gorm.DB) ([]types.GenreStatistic, error)
	TopArtists(ctx context.Context, tx *gorm.DB, limit int) ([]types.ArtistStatistic, error)
	InvalidateCache(ctx context.Context)
}

type statsRepository struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

func NewStatsRepository(cache database.CacheClient, ttl time.Duration) StatsRepository {
	return &statsRepository{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("statsRepository"),
	}
}

func rankingLimit(limit int) int {
	if limit <= 0 {
		return DEFAULT_RANKING_LIMIT
	}
	return min(limit, MAX_LIST_LIMIT)
}

// PopularTracks ranks by plays plus double-weighted likes, damped by length in
// five minute units. Ties go to the older track.
func (r *statsRepository) PopularTracks(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]types.PopularTrack, error) {
	log := r.log.Function("PopularTracks")

	var tracks []types.PopularTrack
	if err := tx.WithContext(ctx).
		Table("tracks").
		Select(`id AS track_id, title, artist_id, duration, play_count, likes_count,
			CAST((play_count + likes_count * 2.0) / (1.0 + duration / 300.0) AS DOUBLE PRECISION) AS score`).
		Order("score DESC").
		Order("created_at ASC").
		Order("id ASC").
		Limit(rankingLimit(limit)).
		Scan(&tracks).Error; err != nil {
		return nil, log.Err("failed to rank popular tracks", err)
	}

	return tracks, nil
}

func (r *statsRepository) GenreStatistics(ctx context.Context, tx *gorm.DB) ([]types.GenreStatistic, error) {
	log := r.log.Function("GenreStatistics")

	key := "genres"
	var stats []types.GenreStatistic
	if r.getCache(ctx, key, &stats) {
		return stats, nil
	}

	if err := tx.WithContext(ctx).
		Table("genres AS g").
		Select(`g.id AS genre_id, g.title AS genre,
			COUNT(t.id) AS track_count,
			COALESCE(SUM(t.duration), 0) AS total_duration,
			CAST(AVG(t.play_count) AS DOUBLE PRECISION) AS avg_plays,
			CAST(AVG(t.likes_count) AS DOUBLE PRECISION) AS avg_likes`).
		Joins("JOIN track_genres tg ON tg.genre_id = g.id").
		Joins("JOIN tracks t ON t.id = tg.track_id").
		Group("g.id, g.title").
		Order("track_count DESC").
		Order("g.title ASC").
		Scan(&stats).Error; err != nil {
		return nil, log.Err("failed to compute genre statistics", err)
	}

	r.setCache(ctx, key, stats)

	return stats, nil
}

func (r *statsRepository) TopArtists(
	ctx context.Context,
	tx *gorm.DB,
	limit int,
) ([]types.ArtistStatistic, error) {
	log := r.log.Function("TopArtists")

	limit = rankingLimit(limit)
	key := fmt.Sprintf("top_artists:%d", limit)
	var stats []types.ArtistStatistic
	if r.getCache(ctx, key, &stats) {
		return stats, nil
	}

	if err := tx.WithContext(ctx).
		Table("artists AS a").
		Select(`a.id AS artist_id, a.name AS artist,
			COUNT(t.id) AS total_tracks,
			COALESCE(SUM(t.duration), 0) AS total_duration,
			CAST(AVG(t.duration) AS DOUBLE PRECISION) AS avg_duration,
			COALESCE(SUM(t.play_count), 0) AS total_plays`).
		Joins("JOIN tracks t ON t.artist_id = a.id").
		Group("a.id, a.name").
		Order("total_duration DESC").
		Order("a.name ASC").
		Limit(limit).
		Scan(&stats).Error; err != nil {
		return nil, log.Err("failed to compute top artists", err)
	}

	r.setCache(ctx, key, stats)

	return stats, nil
}

// InvalidateCache drops every cached rollup registered in the key set.
func (r *statsRepository) InvalidateCache(ctx context.Context) {
	if r.cache == nil {
		return
	}
	log := r.log.Function("InvalidateCache")

	keys, err := database.NewCacheBuilder(r.cache, STATS_KEYS_SET).
		WithContext(ctx).
		GetSetMembers()
	if err != nil {
		log.Warn("failed to read stats cache keys", "error", err)
		return
	}

	for _, key := range append(keys, STATS_KEYS_SET) {
		if err := database.NewCacheBuilder(r.cache, key).WithContext(ctx).Delete(); err != nil {
			log.Warn("failed to delete stats cache key", "key", key, "error", err)
		}
	}
}

func (r *statsRepository) getCache(ctx context.Context, key string, out any) bool {
	if r.cache == nil || r.ttl <= 0 {
		return false
	}

	found, err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(STATS_CACHE_PREFIX).
		Get(out)
	if err != nil {
		r.log.Function("getCache").Warn("failed to read stats cache", "key", key, "error", err)
		return false
	}

	return found
}

func (r *statsRepository) setCache(ctx context.Context, key string, value any) {
	if r.cache == nil || r.ttl <= 0 {
		return
	}
	log := r.log.Function("setCache")

	builder := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(STATS_CACHE_PREFIX).
		WithStruct(value).
		WithTTL(r.ttl)
	if err := builder.Set(); err != nil {
		log.Warn("failed to write stats cache", "key", key, "error", err)
		return
	}

	if err := database.NewCacheBuilder(r.cache, STATS_KEYS_SET).
		WithContext(ctx).
		WithMember(builder.Key()).
		SetSadd(); err != nil {
		log.Warn("failed to register stats cache key", "key", key, "error", err)
	}
}
