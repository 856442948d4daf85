package adminController

import (
	"context"
	"kaudio/internal/services"
	"kaudio/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type AdminController struct {
	reconciliationService *services.ReconciliationService
	schedulerService      *services.SchedulerService
	log                   logger.Logger
}

type AdminControllerInterface interface {
	Reconcile(ctx context.Context, repair bool) (types.ReconcileReport, error)
	RunJob(ctx context.Context, name string) error
}

func New(services services.Service) AdminControllerInterface {
	return &AdminController{
		reconciliationService: services.Reconciliation,
		schedulerService:      services.Scheduler,
		log:                   logger.New("adminController"),
	}
}

func (ac *AdminController) Reconcile(ctx context.Context, repair bool) (types.ReconcileReport, error) {
	log := ac.log.Function("Reconcile").TraceFromContext(ctx)

	report, err := ac.reconciliationService.ReconcileAll(ctx, repair)
	if err != nil {
		return report, log.Err("reconciliation failed", err, "repair", repair)
	}

	return report, nil
}

// RunJob triggers a registered scheduler job immediately.
func (ac *AdminController) RunJob(ctx context.Context, name string) error {
	return ac.schedulerService.RunJob(ctx, name)
}
