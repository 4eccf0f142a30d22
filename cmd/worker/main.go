package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"

	hhttp "agora-forum/internal/handler/http"
	"agora-forum/internal/handler/http/respond"
	pgRepo "agora-forum/internal/infra/adapter/persistence/postgres"
	sqliteRepo "agora-forum/internal/infra/adapter/persistence/sqlite"
	"agora-forum/internal/infra/db"
	"agora-forum/internal/infra/identity"
	"agora-forum/internal/observability/logging"
	"agora-forum/internal/repository"
	acctUC "agora-forum/internal/usecase/account"
	"agora-forum/pkg/config"
)

// reaperConfig controls the scheduled cleanup of abandoned throwaway accounts.
type reaperConfig struct {
	CronSchedule string
	Timezone     string
	MinAge       time.Duration
	RunTimeout   time.Duration
	MetricsAddr  string
}

func loadReaperConfig() (reaperConfig, error) {
	cfg := reaperConfig{
		CronSchedule: config.GetEnvString("REAPER_CRON", "0 3 * * *"),
		Timezone:     config.GetEnvString("REAPER_TIMEZONE", "UTC"),
		MinAge:       config.GetEnvDuration("REAPER_MIN_AGE", 24*time.Hour),
		RunTimeout:   config.GetEnvDuration("REAPER_TIMEOUT", 5*time.Minute),
		MetricsAddr:  config.GetEnvString("REAPER_METRICS_ADDR", ":9091"),
	}
	if err := config.ValidatePositiveDuration(cfg.MinAge); err != nil {
		return cfg, err
	}
	if err := config.ValidatePositiveDuration(cfg.RunTimeout); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	cfg, err := loadReaperConfig()
	if err != nil {
		logger.Error("failed to load reaper configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("reaper configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("min_age", cfg.MinAge),
		slog.Duration("run_timeout", cfg.RunTimeout))

	idConfig, err := identity.LoadConfig()
	if err != nil {
		logger.Error("identity provider configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}

	svc := &acctUC.Service{
		Repo:     newArticleRepo(database),
		Identity: identity.NewClient(idConfig),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startMetricsServer(ctx, logger, cfg.MetricsAddr)
	startCronWorker(logger, svc, cfg)
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for the API's migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// waitForMigrations blocks until the articles table exists. The API process
// owns the schema; the worker only reads and deletes rows.
func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// newArticleRepo selects the persistence adapter matching the configured driver.
func newArticleRepo(database *sql.DB) repository.ArticleRepository {
	if db.Driver() == db.DriverSQLite {
		return sqliteRepo.NewArticleRepo(database)
	}
	return pgRepo.NewArticleRepo(database)
}

// startMetricsServer exposes Prometheus metrics and a liveness probe for the worker.
func startMetricsServer(ctx context.Context, logger *slog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", hhttp.MetricsHandler())
	mux.Handle("/live", &hhttp.LiveHandler{})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
}

// startCronWorker schedules the reap job and blocks forever.
func startCronWorker(logger *slog.Logger, svc *acctUC.Service, cfg reaperConfig) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runReapJob(logger, svc, cfg)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runReapJob executes a single cleanup pass with a timeout.
func runReapJob(logger *slog.Logger, svc *acctUC.Service, cfg reaperConfig) {
	startTime := time.Now()
	logger.Info("reap started", slog.Duration("min_age", cfg.MinAge))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	report, err := svc.ReapEphemeral(ctx, cfg.MinAge)
	if err != nil {
		logger.Error("reap failed", slog.Any("error", respond.SanitizeError(err)))
		return
	}

	logger.Info("reap completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("deleted", report.Deleted),
		slog.Duration("duration", time.Since(startTime)))
}
