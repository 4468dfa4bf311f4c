package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/landing-leads/internal/config"
	"github.com/wolfman30/landing-leads/internal/leads"
	"github.com/wolfman30/landing-leads/pkg/logging"
)

// BuildLeadRepository opens the store named by LEAD_STORE. The returned
// cleanup func releases any connection pool and is never nil.
func BuildLeadRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	switch cfg.LeadStore {
	case "", "file":
		repo, err := leads.OpenFileRepository(cfg.LeadsFile, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: open lead file: %w", err)
		}
		logger.Info("lead store: file", "path", repo.Path())
		return repo, noop, nil
	case "memory":
		logger.Warn("lead store: memory, leads are lost on restart")
		return leads.NewInMemoryRepository(), noop, nil
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, fmt.Errorf("bootstrap: DATABASE_URL is required for LEAD_STORE=postgres")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		repo := leads.NewPostgresRepository(pool)
		if err := repo.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		logger.Info("lead store: postgres")
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown LEAD_STORE %q", cfg.LeadStore)
	}
}
