package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/refero/internal/common"
	"github.com/ternarybob/refero/internal/handlers"
	"github.com/ternarybob/refero/internal/interfaces"
	"github.com/ternarybob/refero/internal/services/images"
	"github.com/ternarybob/refero/internal/services/reports"
	badgerstorage "github.com/ternarybob/refero/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	ImageNormalizer interfaces.ImageNormalizer
	Materializer    *reports.Materializer
	Renderer        *reports.Renderer

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	TemplateHandler *handlers.TemplateHandler
	ReportHandler   *handlers.ReportHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.initServices()
	app.initHandlers()

	logger.Info().
		Str("environment", cfg.Environment).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	manager, err := badgerstorage.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = manager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes business services in dependency order
func (a *App) initServices() {
	a.ImageNormalizer = images.NewService(images.Config{
		MaxWidth: a.Config.Images.MaxWidth,
		Quality:  a.Config.Images.Quality,
	}, a.Logger)
	a.Logger.Debug().
		Int("max_width", a.Config.Images.MaxWidth).
		Int("quality", a.Config.Images.Quality).
		Msg("Image normalizer initialized")

	a.Materializer = reports.NewMaterializer(a.ImageNormalizer, a.Logger)
	a.Renderer = reports.NewRenderer(a.Logger)
	a.Logger.Debug().Msg("Report services initialized")
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.TemplateHandler = handlers.NewTemplateHandler(a.StorageManager.TemplateStorage(), a.Logger)
	a.ReportHandler = handlers.NewReportHandler(
		a.StorageManager.TemplateStorage(),
		a.StorageManager.ReportStorage(),
		a.Materializer,
		a.Renderer,
		a.Logger,
	)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}
	return nil
}
