package jobs

import (
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/repositories"
	"kaudio/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	db database.DB,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")

	reconciliationJob := NewReconciliationJob(
		services.Reconciliation,
		config.ReconcileAutoRepair,
		Hourly,
	)
	if err := schedulerService.AddJob(reconciliationJob); err != nil {
		return log.Err("failed to register reconciliation job", err)
	}
	log.Info("Registered reconciliation job", "schedule", "hourly")

	statsCacheJob := NewStatsCacheJob(db, repos.Stats, Daily)
	if err := schedulerService.AddJob(statsCacheJob); err != nil {
		return log.Err("failed to register stats cache job", err)
	}
	log.Info("Registered stats cache job", "schedule", "daily")

	return nil
}
