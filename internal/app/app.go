package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/tier-league/internal/config"
	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tier-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
	"github.com/riskibarqy/tier-league/internal/platform/resilience"
	"github.com/riskibarqy/tier-league/internal/usecase"
)

// Gateway bundles the persistence ports the engine runs against. With
// an empty DB URL it is backed by seeded in-memory repositories,
// otherwise by Postgres.
type Gateway struct {
	Teams     team.Repository
	Fixtures  fixture.Repository
	Standings standings.Repository
	Seasons   season.Repository

	db *sqlx.DB
}

func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}

func NewGateway(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Gateway, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.DBURL == "" {
		logger.Info("using in-memory gateway with seed data")
		return &Gateway{
			Teams:     memory.NewTeamRepository(memory.SeedTeams()),
			Fixtures:  memory.NewFixtureRepository(),
			Standings: memory.NewStandingsRepository(),
			Seasons:   memory.NewSeasonRepository(memory.SeedSeasons()),
		}, nil
	}

	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("using postgres gateway", "db", dbNameFromURL(cfg.DBURL))

	return &Gateway{
		Teams:     postgres.NewTeamRepository(db),
		Fixtures:  postgres.NewFixtureRepository(db),
		Standings: postgres.NewStandingsRepository(db),
		Seasons:   postgres.NewSeasonRepository(db),
		db:        db,
	}, nil
}

// NewEngine wires the season engine on top of a gateway using the
// runtime configuration.
func NewEngine(cfg config.Config, gw *Gateway, logger *logging.Logger) (*usecase.EngineService, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	policy, err := usecase.PolicyByName(cfg.TransitionPolicy)
	if err != nil {
		return nil, fmt.Errorf("resolve transition policy: %w", err)
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseBackoff: cfg.RetryBaseBackoff,
		MaxBackoff:  cfg.RetryMaxBackoff,
	}

	scheduleParams := usecase.DefaultScheduleParams()
	scheduleParams.RoundInterval = cfg.RoundInterval
	scheduleSvc := usecase.NewScheduleService(gw.Teams, gw.Fixtures, scheduleParams, logger)

	standingsSvc := usecase.NewStandingsService(gw.Standings, logger)

	seasonSvc := usecase.NewSeasonService(
		gw.Teams,
		gw.Fixtures,
		gw.Seasons,
		policy,
		usecase.TransitionConfig{
			PromotionSpots:  cfg.PromotionSpots,
			RelegationSpots: cfg.RelegationSpots,
		},
		retryCfg,
		logger,
	)

	simParams := usecase.DefaultSimulationParams()
	simParams.HomeAdvantage = cfg.SimHomeAdvantage
	simParams.DrawProb = cfg.SimDrawProb

	return usecase.NewEngineService(
		gw.Teams,
		gw.Fixtures,
		gw.Seasons,
		scheduleSvc,
		standingsSvc,
		seasonSvc,
		simParams,
		retryCfg,
		logger,
	), nil
}
