package services

import (
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	"kaudio/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Counter        *CounterService
	Activity       *ActivityService
	Catalog        *CatalogService
	Reconciliation *ReconciliationService
	Auth           *AuthService
}

func New(
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	eventBus *events.EventBus,
) Service {
	transactionService := NewTransactionService(db)
	counterService := NewCounterService(repos)
	activityService := NewActivityService(db, repos, transactionService, counterService, eventBus)

	return Service{
		Transaction:    transactionService,
		Scheduler:      NewSchedulerService(),
		Counter:        counterService,
		Activity:       activityService,
		Catalog:        NewCatalogService(repos, counterService, activityService),
		Reconciliation: NewReconciliationService(repos, transactionService, eventBus),
		Auth:           NewAuthService(db, repos, config),
	}
}
