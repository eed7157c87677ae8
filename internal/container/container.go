package container

import (
	"context"
	"fmt"

	"gopower/adapters/memory"
	"gopower/adapters/postgres"
	"gopower/adapters/stats/distributions"
	"gopower/adapters/stats/rootfind"
	"gopower/internal"
	"gopower/internal/config"
	"gopower/internal/diagnostics"
	"gopower/internal/migration"
	"gopower/internal/power"
	"gopower/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Numerical collaborators
	Distributions *distributions.StatisticalDistributions
	RootFinder    *rootfind.Brent

	// Services
	Solver   *power.Solver
	Analyzer *diagnostics.Analyzer

	// Repositories (data access layer)
	AnalysisRepo ports.AnalysisRepository
}

// New creates a container with the in-memory analysis history.
// Call InitWithDatabase to switch to PostgreSQL.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initNumerics()
	c.AnalysisRepo = memory.NewAnalysisRepository()
	return c, nil
}

func (c *Container) initNumerics() {
	settings := rootfind.DefaultSettings()
	settings.XTol = c.Config.Solver.XTol
	settings.MaxIter = c.Config.Solver.MaxIter

	c.Distributions = distributions.NewDistributions()
	c.RootFinder = rootfind.NewBrent(settings)
	c.Solver = power.NewSolver(c.Distributions, c.RootFinder, c.Logger, power.Options{
		CurveWorkers: c.Config.Solver.CurveWorkers,
	})
	c.Analyzer = diagnostics.NewAnalyzer(c.Logger)
}

// Connect opens the configured database, if any, and initializes the
// repositories on it.
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("no DATABASE_URL set, keeping analysis history in memory")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DB = db
	c.AnalysisRepo = postgres.NewAnalysisRepository(db)
	c.Logger.Info("analysis history stored in postgres", "schema_version", runner.Version())
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
