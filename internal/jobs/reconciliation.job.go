package jobs

import (
	"context"
	"kaudio/internal/services"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type reconciler interface {
	ReconcileAll(ctx context.Context, repair bool) (types.ReconcileReport, error)
}

type ReconciliationJob struct {
	reconciler reconciler
	autoRepair bool
	log        logger.Logger
	schedule   services.Schedule
}

func NewReconciliationJob(
	reconciler reconciler,
	autoRepair bool,
	schedule services.Schedule,
) *ReconciliationJob {
	log := logger.New("reconciliationJob")
	log.Info("Creating new reconciliation job", "schedule", schedule, "autoRepair", autoRepair)

	return &ReconciliationJob{
		reconciler: reconciler,
		autoRepair: autoRepair,
		log:        log,
		schedule:   schedule,
	}
}

func (j *ReconciliationJob) Name() string {
	return "CounterReconciliation"
}

func (j *ReconciliationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting counter reconciliation")

	report, err := j.reconciler.ReconcileAll(ctx, j.autoRepair)
	if err != nil {
		return log.Err("counter reconciliation failed", err)
	}

	if len(report.Mismatches) > 0 && !report.Repaired {
		log.Warn("Counter mismatches left unrepaired", "mismatches", len(report.Mismatches))
	}

	log.Info("Counter reconciliation completed", "checked", report.Checked)
	return nil
}

func (j *ReconciliationJob) Schedule() services.Schedule {
	return j.schedule
}
