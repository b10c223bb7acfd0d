package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/psf-initiatives/admin-api/config"
	"github.com/psf-initiatives/admin-api/handlers"
	"github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/psf-initiatives/admin-api/repositories/postgres"
	"github.com/psf-initiatives/admin-api/services/auth"
	"github.com/psf-initiatives/admin-api/services/dashboard"
	"github.com/psf-initiatives/admin-api/services/donations"
	"github.com/psf-initiatives/admin-api/services/donors"
	"github.com/psf-initiatives/admin-api/services/newsletters"
	"github.com/psf-initiatives/admin-api/services/receipts"
	"github.com/psf-initiatives/admin-api/services/subscribers"
	"github.com/psf-initiatives/admin-api/services/templates"
	"github.com/psf-initiatives/admin-api/services/volunteers"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openRepositoryFactory opens the database pool. Tests replace it.
var openRepositoryFactory = postgres.NewRepositoryFactory

// Infrastructure is everything the services need from the outside world.
// NewDependencies builds it from config; tests assemble it from fakes.
type Infrastructure struct {
	DB         *postgres.DB
	Repos      *repositories.Repositories
	TxManager  repositories.TransactionManager
	Revocation auth.RevocationStore
	Storage    receipts.Storage
	Mailer     newsletters.Mailer
}

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger
	Redis  redis.UniversalClient

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Auth
	Revocation     auth.RevocationStore
	Tokens         *auth.TokenManager
	AuthService    *auth.Service
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Donations   *handlers.DonationHandler
	Subscribers *handlers.SubscriberHandler
	Volunteers  *handlers.VolunteerHandler
	Donors      *handlers.DonorHandler
	Newsletters *handlers.NewsletterHandler
	Templates   *handlers.TemplateHandler
	Dashboard   *handlers.DashboardHandler

	stopCleanup chan struct{}
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	revocation, err := deps.initRevocation(ctx, cfg.Revocation)
	if err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize revocation store: %w", err)
	}

	storage, err := receipts.NewCloudinaryStorage(cfg.Storage, logger)
	if err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize receipt storage: %w", err)
	}

	deps.wire(Infrastructure{
		DB:         deps.DB,
		Repos:      deps.RepoFactory.NewRepositories(),
		TxManager:  deps.RepoFactory.GetTransactionManager(),
		Revocation: revocation,
		Storage:    storage,
		Mailer:     newsletters.NewMailer(cfg.SMTP, logger),
	})

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Wire builds services and handlers over already constructed infrastructure
func Wire(cfg *config.Config, logger *zap.Logger, infra Infrastructure) *Dependencies {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}
	deps.wire(infra)
	return deps
}

func (d *Dependencies) wire(infra Infrastructure) {
	cfg := d.Config
	region := cfg.Phone.DefaultRegion

	d.DB = infra.DB
	d.Repos = infra.Repos
	d.TxManager = infra.TxManager
	d.Revocation = infra.Revocation

	d.Tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, infra.Revocation,
		auth.WithLifetimes(cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL))
	d.AuthService = auth.NewService(infra.Repos.Admins, infra.TxManager, d.Tokens, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.AuthService, d.Logger)

	var sqlDB *sql.DB
	if infra.DB != nil {
		sqlDB = infra.DB.DB
	}
	d.Health = handlers.NewHealthHandler(sqlDB, d.Logger)
	d.Auth = handlers.NewAuthHandler(d.AuthService, cfg.Auth.CookieSecure, d.Logger)
	d.Donations = handlers.NewDonationHandler(
		donations.NewService(infra.Repos.Donations, infra.TxManager, infra.Storage, region, d.Logger), d.Logger)
	d.Subscribers = handlers.NewSubscriberHandler(
		subscribers.NewService(infra.Repos.Subscribers, infra.TxManager, d.Logger), d.Logger)
	d.Volunteers = handlers.NewVolunteerHandler(
		volunteers.NewService(infra.Repos.Volunteers, region, d.Logger), d.Logger)
	d.Donors = handlers.NewDonorHandler(
		donors.NewService(infra.Repos.Donors, region, d.Logger), d.Logger)
	d.Newsletters = handlers.NewNewsletterHandler(
		newsletters.NewService(infra.Repos.Newsletters, infra.Repos.Subscribers, infra.TxManager, infra.Mailer, d.Logger), d.Logger)
	d.Templates = handlers.NewTemplateHandler(
		templates.NewService(infra.Repos.EmailTemplates, infra.TxManager, d.Logger), d.Logger)
	d.Dashboard = handlers.NewDashboardHandler(dashboard.NewService(infra.Repos), d.Logger)
}

// initDatabase opens the pool and creates missing tables when enabled
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := openRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if cfg.Database.AutoMigrate {
		if err := factory.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		d.Logger.Info("database schema ready")
	}
	return nil
}

// initRevocation selects the revocation backend
func (d *Dependencies) initRevocation(ctx context.Context, cfg config.RevocationConfig) (auth.RevocationStore, error) {
	switch cfg.Backend {
	case config.RevocationBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := auth.NewRedisRevocationStore(client)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		d.Redis = client
		d.Logger.Info("using redis revocation store", zap.String("addr", cfg.RedisAddr))
		return store, nil

	case config.RevocationBackendMemory, "":
		store := auth.NewMemoryRevocationStore()
		if cfg.CleanupInterval > 0 {
			d.stopCleanup = make(chan struct{})
			go store.StartCleanupWorker(cfg.CleanupInterval, d.stopCleanup)
		}
		d.Logger.Info("using in-memory revocation store",
			zap.Duration("cleanup_interval", cfg.CleanupInterval))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown revocation backend %q", cfg.Backend)
	}
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.stopCleanup != nil {
		close(d.stopCleanup)
		d.stopCleanup = nil
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		d.Redis = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
