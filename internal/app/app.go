package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"ManuscriptTracker/internal/config"
	"ManuscriptTracker/internal/infrastructure/platform"
	"ManuscriptTracker/internal/infrastructure/report"
	"ManuscriptTracker/internal/infrastructure/scheduler"
	"ManuscriptTracker/internal/infrastructure/storage"
	"ManuscriptTracker/internal/infrastructure/telegram"
	"ManuscriptTracker/internal/ports"
	"ManuscriptTracker/internal/scanner"
	"ManuscriptTracker/internal/usecase"
)

// Application wires config to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	httpClient := resty.New().SetTimeout(30 * time.Second)

	registry := scanner.NewRegistry()
	registry.Register(platform.NewScholarOne(httpClient, baseLogger.With("component", "scanner.scholarone")))
	registry.Register(platform.NewEditorialManager(httpClient, baseLogger.With("component", "scanner.editorialmanager")))
	registry.Register(platform.NewSIAM(httpClient, baseLogger.With("component", "scanner.siam")))

	source := platform.NewRegistrySource(registry, cfg.Journals, baseLogger.With("component", "source"))

	sink, err := report.NewFileSink(cfg.Reports.Directory)
	if err != nil {
		return nil, err
	}

	var (
		db         *sql.DB
		repository ports.SnapshotRepository
	)
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID,
		)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Repository: repository,
		Sink:       sink,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, db: db, logger: baseLogger}, nil
}

// Run performs a single scrape run.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.ProcessRun(ctx, now)
}

// Serve starts the recurring scheduler and blocks until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression)
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
