package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/upb/travel-gateway/config"
	"github.com/upb/travel-gateway/internal/observability"
	"github.com/upb/travel-gateway/repositories"
	"github.com/upb/travel-gateway/repositories/postgres"
	"github.com/upb/travel-gateway/services/audit"
	"github.com/upb/travel-gateway/services/gateway"
	"github.com/upb/travel-gateway/services/providers"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	DB     *postgres.DB // nil when DATABASE_URL is unset

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Outcomes repositories.OutcomeRepository

	// Services
	Audit    *audit.Service
	Gateway  *gateway.Service
	Registry *providers.Registry
	Metrics  *observability.ProviderMetrics
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewProviderMetrics(),
	}

	if cfg.Database != nil {
		if err := deps.initDatabase(ctx, *cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	} else {
		logger.Warn("DATABASE_URL not set, outcome audit trail disabled")
	}

	if err := deps.initGateway(); err != nil {
		_ = deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase connects, creates the schema and starts the audit workers
func (d *Dependencies) initDatabase(ctx context.Context, cfg config.DatabaseConfig) error {
	factory, err := postgres.NewRepositoryFactory(ctx, cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.InitSchema(ctx); err != nil {
		_ = factory.Close()
		return err
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()
	d.Outcomes = factory.NewRepositories().Outcomes

	d.Audit = audit.NewService(d.Outcomes, d.Logger, audit.DefaultConfig())
	if err := d.Audit.Start(); err != nil {
		_ = factory.Close()
		return err
	}
	return nil
}

// initGateway builds the provider registry, the four chains and the facade
func (d *Dependencies) initGateway() error {
	registry, err := newRegistry(d.Config)
	if err != nil {
		return err
	}
	d.Registry = registry

	b := &chainBuilder{
		cfg:      d.Config,
		client:   &http.Client{Transport: http.DefaultTransport},
		recorder: d.Metrics,
		logger:   d.Logger,
	}
	chains, err := b.buildAll()
	if err != nil {
		return err
	}

	if d.Audit != nil {
		d.Gateway = gateway.NewService(chains, d.Audit, d.Logger)
	} else {
		d.Gateway = gateway.NewService(chains, nil, d.Logger)
	}
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var err error

	if d.Audit != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if stopErr := d.Audit.Stop(timeout); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to stop audit service: %w", stopErr))
		}
		d.Audit = nil
	}

	if d.RepoFactory != nil {
		if closeErr := d.RepoFactory.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close database: %w", closeErr))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
		d.DB = nil
	}

	_ = d.Logger.Sync()

	return err
}
