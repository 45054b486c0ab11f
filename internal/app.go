// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "speedo-transfer/internal/api"
	"speedo-transfer/internal/api/handler"
	"speedo-transfer/internal/config"
	"speedo-transfer/internal/exchange"
	"speedo-transfer/internal/repository"
	"speedo-transfer/internal/repository/postgres"
	"speedo-transfer/internal/service"
	"speedo-transfer/internal/session"
	"speedo-transfer/internal/util"
	"speedo-transfer/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	UserRepository        repository.UserRepository
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository

	Sessions session.Store
	Rates    exchange.Resolver

	// Services
	AuthService     service.AuthService
	TransferService service.TransferService
	AccountService  service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		util.InitLogger("info")
		app.Logger = util.GetLogger()
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply the schema
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, app.DB); err != nil {
		return err
	}
	app.Logger.Info("Database connection established.")

	// 4. Connect to the session store
	redisClient, err := session.NewRedisClient(ctx, app.Config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to session store: %w", err)
	}
	app.Redis = redisClient
	app.Sessions = session.NewRedisStore(redisClient)
	app.Logger.Info("Session store connection established.", "addr", app.Config.Redis.Addr)

	// 5. Exchange rates
	rates, err := exchange.ParseTable(app.Config.ExchangeRates)
	if err != nil {
		return fmt.Errorf("failed to parse EXCHANGE_RATES: %w", err)
	}
	app.Rates = rates

	// 6. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.AccountRepository = postgres.NewAccountRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.Logger.Info("Repositories initialized.")

	// 7. Initialize Services
	app.AuthService = service.NewAuthService(
		app.DB,
		app.Sessions,
		app.UserRepository,
		app.Config.Redis.TTL,
		app.Logger,
	)
	app.TransferService = service.NewTransferService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.Sessions,
		app.UserRepository,
		app.AccountRepository,
		app.TransactionRepository,
		app.Rates,
		service.DefaultTxFuncs(),
		app.Logger,
	)
	app.AccountService = service.NewAccountService(
		app.DB,
		app.Sessions,
		app.UserRepository,
		app.AccountRepository,
		app.Rates,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 8. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Auth:     handler.NewAuthHandler(app.AuthService, app.Logger),
		Transfer: handler.NewTransferHandler(app.TransferService, app.Logger),
		Account:  handler.NewAccountHandler(app.AccountService, app.Logger),
	})
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	var firstErr error
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close session store connection", "error", err)
			firstErr = fmt.Errorf("failed to close session store connection: %w", err)
		} else {
			app.Logger.Info("Session store connection closed.")
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to close database connection: %w", err)
			}
		} else {
			app.Logger.Info("Database connection closed.")
		}
	}
	if firstErr != nil {
		return firstErr
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
