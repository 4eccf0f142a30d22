package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	pgRepo "agora-forum/internal/infra/adapter/persistence/postgres"
	sqliteRepo "agora-forum/internal/infra/adapter/persistence/sqlite"
	"agora-forum/internal/infra/db"
	"agora-forum/internal/infra/identity"
	"agora-forum/internal/infra/moderation"
	"agora-forum/internal/observability/logging"
	"agora-forum/internal/observability/tracing"
	"agora-forum/internal/repository"
	"agora-forum/internal/resilience/circuitbreaker"
	"agora-forum/pkg/config"

	acctUC "agora-forum/internal/usecase/account"
	subUC "agora-forum/internal/usecase/submission"

	hhttp "agora-forum/internal/handler/http"
	haccount "agora-forum/internal/handler/http/account"
	harticle "agora-forum/internal/handler/http/article"
	"agora-forum/internal/handler/http/requestid"
	hsubmission "agora-forum/internal/handler/http/submission"
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()

	shutdownTracing, err := tracing.InitProvider("agora-api", version)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	components := setupServer(logger, database, version)

	runServer(logger, components, version, shutdownTracing)
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database, db.Driver()); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// newArticleRepo selects the persistence adapter matching the configured driver.
func newArticleRepo(database *sql.DB) repository.ArticleRepository {
	if db.Driver() == db.DriverSQLite {
		return sqliteRepo.NewArticleRepo(database)
	}
	return pgRepo.NewArticleRepo(database)
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler http.Handler
}

// setupServer wires repositories, external clients, use cases, routes and
// middleware into a single HTTP handler.
func setupServer(logger *slog.Logger, database *sql.DB, version string) *ServerComponents {
	repo := newArticleRepo(database)

	idConfig, err := identity.LoadConfig()
	if err != nil {
		logger.Error("identity provider configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
	idClient := identity.NewClient(idConfig)

	moderator := moderation.NewFromEnv()

	subSvc := &subUC.Service{
		Repo:      repo,
		Moderator: moderator,
		Identity:  idClient,
	}
	acctSvc := &acctUC.Service{
		Repo:     repo,
		Identity: idClient,
	}

	breakers := []hhttp.BreakerStatus{idClient.Breaker()}
	if holder, ok := moderator.(interface {
		Breaker() *circuitbreaker.CircuitBreaker
	}); ok {
		breakers = append(breakers, holder.Breaker())
	}

	mux := setupRoutes(database, repo, subSvc, acctSvc, version, breakers)
	handler := applyMiddleware(logger, mux)

	return &ServerComponents{Handler: handler}
}

// setupRoutes registers all API and operational endpoints.
func setupRoutes(
	database *sql.DB,
	repo repository.ArticleRepository,
	subSvc *subUC.Service,
	acctSvc *acctUC.Service,
	version string,
	breakers []hhttp.BreakerStatus,
) *http.ServeMux {
	mux := http.NewServeMux()

	hsubmission.Register(mux, subSvc, hsubmission.NewGateFromEnv())
	haccount.Register(mux, acctSvc)
	harticle.Register(mux, repo)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version, Breakers: breakers})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → IP Rate Limit → Recovery → Logging → Body Limit → Tracing → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rateLimit := config.GetEnvInt("RATE_LIMIT_REQUESTS", 60)
	rateWindow := config.GetEnvDuration("RATE_LIMIT_WINDOW", 1*time.Minute)
	limiter := hhttp.NewRateLimiter(rateLimit, rateWindow)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = limiter.Limit(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and blocks until a shutdown signal arrives.
func runServer(logger *slog.Logger, components *ServerComponents, version string, shutdownTracing func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := config.GetEnvString("LISTEN_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
