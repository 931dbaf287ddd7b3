package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	payoutUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/payout"
	sessionUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/session"
	shareUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/share"
	userUseCase "github.com/poolworks/pool-ledger/internal/domain/usecase/user"

	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/api/routes"
	broadcastAdapter "github.com/poolworks/pool-ledger/internal/infrastructure/adapter/broadcast"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/database"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/logger"
	"github.com/poolworks/pool-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/poolworks/pool-ledger/internal/infrastructure/adapter/time"
	"github.com/poolworks/pool-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          "postgres",
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      int(cfg.Database.RetryDelay / time.Second),
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.MigrationManager().MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbManager.DB(), tp, appLogger)
	walletRepo := repository.NewWalletRepository(dbManager.DB(), appLogger)
	sessionRepo := repository.NewSessionRepository(dbManager.DB(), tp, appLogger)
	payoutRepo := repository.NewPayoutRepository(dbManager.DB(), appLogger)
	poolLockRepo := repository.NewPoolLockRepository(dbManager.DB(), tp, appLogger)

	// Unit of work
	uow := dbManager.CreateUnitOfWork()

	// Broadcast hub
	hub := broadcastAdapter.NewHub(appLogger, tp)
	defer hub.Close()

	// Initialize use cases
	tracker := sessionUseCase.NewTracker(sessionRepo, tp, appLogger, cfg.Pool.LivenessTimeout)
	registry := sessionUseCase.NewRegistry(
		userRepo,
		sessionRepo,
		tracker,
		hub,
		tp,
		appLogger,
		cfg.Pool.SingleSessionPerUser,
	)
	accumulator := shareUseCase.NewAccumulator(uow, sessionRepo, hub, tp, appLogger)
	engine := payoutUseCase.NewEngine(
		uow,
		walletRepo,
		poolLockRepo,
		hub,
		tp,
		appLogger,
		tracker.Timeout(),
		time.Duration(cfg.Pool.PayoutLockTimeoutMs)*time.Millisecond,
	)
	userService := userUseCase.NewService(uow, userRepo, walletRepo, payoutRepo, tp, appLogger)

	// Seed demo miner accounts in non-production environments
	if cfg.Pool.SeedDemoMiners && cfg.Environment != config.Production {
		if err := migration.SeedDemoMiners(context.Background(), userService); err != nil {
			appLogger.Error("Failed to seed demo miners", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// Initialize API handlers
	userHandler := handler.NewUserHandler(userService, appLogger)
	payoutHandler := handler.NewPayoutHandler(engine, appLogger)
	wsHandler := handler.NewWSHandler(registry, accumulator, hub, tp, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, userHandler, payoutHandler, wsHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" {
		if cfg.Environment == config.Production && os.Getenv("POOL_DB_HOST") == "" {
			missingConfigs = append(missingConfigs, "database.host (or POOL_DB_HOST environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.host")
		}
	}

	if cfg.Database.Username == "" {
		if cfg.Environment == config.Production && os.Getenv("POOL_DB_USERNAME") == "" {
			missingConfigs = append(missingConfigs, "database.username (or POOL_DB_USERNAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.username")
		}
	}

	if cfg.Database.Password == "" {
		if cfg.Environment == config.Production && os.Getenv("POOL_DB_PASSWORD") == "" {
			missingConfigs = append(missingConfigs, "database.password (or POOL_DB_PASSWORD environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.password")
		}
	}

	if cfg.Database.Database == "" {
		if cfg.Environment == config.Production && os.Getenv("POOL_DB_NAME") == "" {
			missingConfigs = append(missingConfigs, "database.database (or POOL_DB_NAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.database")
		}
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Validate pool configuration
	if cfg.Pool.LivenessTimeout == 0 {
		missingConfigs = append(missingConfigs, "pool.livenessTimeout")
	}

	if cfg.Pool.PayoutLockTimeoutMs == 0 {
		missingConfigs = append(missingConfigs, "pool.payoutLockTimeoutMs")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
