package jobs

import (
	"context"
	"kaudio/internal/database"
	"kaudio/internal/repositories"
	"kaudio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// StatsCacheJob drops the cached aggregations and computes them again so the
// first reader of the day does not pay for the scan.
type StatsCacheJob struct {
	db       database.DB
	stats    repositories.StatsRepository
	log      logger.Logger
	schedule services.Schedule
}

func NewStatsCacheJob(
	db database.DB,
	stats repositories.StatsRepository,
	schedule services.Schedule,
) *StatsCacheJob {
	log := logger.New("statsCacheJob")
	log.Info("Creating new stats cache job", "schedule", schedule)

	return &StatsCacheJob{
		db:       db,
		stats:    stats,
		log:      log,
		schedule: schedule,
	}
}

func (j *StatsCacheJob) Name() string {
	return "StatsCacheRefresh"
}

func (j *StatsCacheJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	j.stats.InvalidateCache(ctx)

	tx := j.db.SQLWithContext(ctx)
	genres, err := j.stats.GenreStatistics(ctx, tx)
	if err != nil {
		return log.Err("failed to warm genre statistics", err)
	}

	artists, err := j.stats.TopArtists(ctx, tx, repositories.DEFAULT_RANKING_LIMIT)
	if err != nil {
		return log.Err("failed to warm top artists", err)
	}

	log.Info("Stats cache refreshed", "genres", len(genres), "artists", len(artists))
	return nil
}

func (j *StatsCacheJob) Schedule() services.Schedule {
	return j.schedule
}
