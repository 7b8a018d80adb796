package app

import (
	"context"

	"bolavila/config"
	"bolavila/internal/cache"
	"bolavila/internal/jobs"
	"bolavila/internal/repositories"
	"bolavila/internal/services"
	"bolavila/internal/store"
	"bolavila/pkg/metrics"

	inspectionsController "bolavila/internal/controllers/inspections"
	reconcileController "bolavila/internal/controllers/reconcile"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Config  config.Config
	Store   *store.Client
	Cache   *cache.Cache
	Metrics *metrics.Metrics

	// Repositories
	Repos repositories.Repository

	// Services
	Services services.Service

	// Controllers
	ReconcileController  reconcileController.ReconcileControllerInterface
	InspectionController inspectionsController.InspectionControllerInterface
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	storeClient := store.New(config)

	cacheClient, err := cache.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create cache", err)
	}

	engineMetrics := metrics.New("bolavila")

	repos := repositories.New(storeClient, config)
	appServices := services.New(repos, config)

	reconcileCtrl := reconcileController.New(
		appServices.Reconciler,
		cacheClient,
		engineMetrics,
	)
	inspectionCtrl := inspectionsController.New(
		repos.Inspection,
		appServices.Checklist,
		engineMetrics,
	)

	// Register the periodic pass with the scheduler if enabled
	if config.SchedulerEnabled {
		reconcileJob := jobs.NewReconcileJob(reconcileCtrl, services.Hourly)
		if err := appServices.Scheduler.AddJob(reconcileJob); err != nil {
			return &App{}, log.Err("failed to register reconcile job", err)
		}
		if err := appServices.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Registered reconcile job with scheduler")
	}

	app := &App{
		Config:               config,
		Store:                storeClient,
		Cache:                cacheClient,
		Metrics:              engineMetrics,
		Repos:                repos,
		Services:             appServices,
		ReconcileController:  reconcileCtrl,
		InspectionController: inspectionCtrl,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Store,
		a.Cache,
		a.Metrics,
		a.Repos.Booking,
		a.Repos.Inspection,
		a.Services.KeyDeriver,
		a.Services.Checklist,
		a.Services.Reconciler,
		a.Services.Scheduler,
		a.Services.Notifier,
		a.ReconcileController,
		a.InspectionController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Cache != nil {
		a.Cache.Close()
	}

	return err
}
