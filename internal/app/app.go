package app

import (
	"context"
	"kaudio/config"
	"kaudio/internal/controllers"
	"kaudio/internal/database"
	"kaudio/internal/events"
	"kaudio/internal/handlers/middleware"
	"kaudio/internal/jobs"
	"kaudio/internal/repositories"
	"kaudio/internal/services"
	"kaudio/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	return Build(config, db)
}

// Build wires every layer on top of an open database. The event bus falls
// back to in-process delivery when no events cache is configured.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db, config)
	services := services.New(db, repos, config, eventBus)

	websocket, err := websockets.New(db, eventBus, config, services.Auth)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, db, services, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Middleware:  middleware.New(db, config, services.Auth),
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Repos:       repos,
		Services:    services,
		Controllers: controllers.New(services, repos, config, db),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Activity,
		a.Services.Catalog,
		a.Services.Reconciliation,
		a.Services.Auth,
		a.Controllers.Catalog,
		a.Controllers.Activity,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

// Start launches the background scheduler.
func (a *App) Start(ctx context.Context) error {
	return a.Services.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
