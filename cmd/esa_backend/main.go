package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/SscSPs/expense_sharing_app/internal/core/services"
	"github.com/SscSPs/expense_sharing_app/internal/handlers"
	"github.com/SscSPs/expense_sharing_app/internal/middleware"
	"github.com/SscSPs/expense_sharing_app/internal/platform/config"
	"github.com/SscSPs/expense_sharing_app/internal/repositories/cache"
	"github.com/SscSPs/expense_sharing_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/expense_sharing_app/pkg/database"
	"github.com/SscSPs/expense_sharing_app/pkg/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Expense Sharing API
// @version 1.0
// @description Shared expenses, their split between participants, and running balances.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.IsProduction, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	balanceCache, err := newBalanceCache(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize balance cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, balanceCache)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsConfig.AddAllowMethods("PATCH")
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders("Content-Disposition", "X-Request-ID")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newBalanceCache uses Redis when REDIS_URL is set and an in-process cache otherwise.
func newBalanceCache(ctx context.Context, cfg *config.Config) (portsrepo.BalanceCache, error) {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, using in-memory balance cache")
		return cache.NewMemoryBalanceCache(cfg.BalanceCacheTTL), nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	slog.Info("Using Redis balance cache")
	return cache.NewRedisBalanceCache(client, cfg.BalanceCacheTTL), nil
}

// runMigrations applies every pending "up" migration through a temporary database/sql
// connection on the pgx stdlib driver.
func runMigrations(logger *slog.Logger, cfg *config.Config) error {
	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
