package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
	"github.com/riskibarqy/tier-league/internal/platform/resilience"
)

// RunInput selects which tiers to process in one engine batch.
type RunInput struct {
	Tiers []int `validate:"required,min=1,dive,min=1,max=4"`
	// Seed drives match simulation. Each tier derives its own stream
	// from it so parallel tiers stay reproducible.
	Seed int64
	// MaxWorkers bounds tier-level parallelism; zero means one tier at
	// a time.
	MaxWorkers int `validate:"min=0,max=16"`
	// ApplyTransitions also runs promotion/relegation for tiers whose
	// season completes during the batch.
	ApplyTransitions bool
	// BootstrapYear opens a first season for tiers that have none.
	BootstrapYear int `validate:"min=0"`
}

// TierRunReport is the per-tier outcome of a batch run. A failed tier
// carries its error while other tiers proceed independently.
type TierRunReport struct {
	Tier              int               `json:"tier"`
	SeasonYear        int               `json:"season_year"`
	State             LifecycleState    `json:"state"`
	RoundsSimulated   int               `json:"rounds_simulated"`
	FixturesSimulated int               `json:"fixtures_simulated"`
	FixturesSkipped   int               `json:"fixtures_skipped"`
	Standings         []standings.Row   `json:"standings,omitempty"`
	Transition        *TransitionReport `json:"transition,omitempty"`
	Error             string            `json:"error,omitempty"`
}

type RunReport struct {
	StartedAt  time.Time       `json:"started_at"`
	DurationMs int64           `json:"duration_ms"`
	Tiers      []TierRunReport `json:"tiers"`
}

// EngineService runs whole season batches: schedule generation when a
// season has none, round-ordered match simulation, standings upkeep,
// completion detection, and the tier transition. Re-running a batch
// over finished fixtures is a no-op by construction.
type EngineService struct {
	teamRepo     team.Repository
	fixtureRepo  fixture.Repository
	seasonRepo   season.Repository
	scheduleSvc  *ScheduleService
	standingsSvc *StandingsService
	seasonSvc    *SeasonService
	simParams    SimulationParams
	retryCfg     resilience.RetryConfig
	validate     *validator.Validate
	logger       *logging.Logger
	now          func() time.Time
}

func NewEngineService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	seasonRepo season.Repository,
	scheduleSvc *ScheduleService,
	standingsSvc *StandingsService,
	seasonSvc *SeasonService,
	simParams SimulationParams,
	retryCfg resilience.RetryConfig,
	logger *logging.Logger,
) *EngineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EngineService{
		teamRepo:     teamRepo,
		fixtureRepo:  fixtureRepo,
		seasonRepo:   seasonRepo,
		scheduleSvc:  scheduleSvc,
		standingsSvc: standingsSvc,
		seasonSvc:    seasonSvc,
		simParams:    simParams,
		retryCfg:     resilience.NormalizeRetryConfig(retryCfg),
		validate:     validator.New(),
		logger:       logger,
		now:          time.Now,
	}
}

// Run processes the requested tiers on a bounded worker pool. Tiers
// share no mutable state except the registry's tier assignment, which
// the season service guards with per-tier locks.
func (s *EngineService) Run(ctx context.Context, input RunInput) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EngineService.Run")
	defer span.End()

	if err := s.validate.StructCtx(ctx, input); err != nil {
		return RunReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tiers := dedupeTiers(input.Tiers)

	started := s.now()
	workerCount := normalizeTierWorkerCount(input.MaxWorkers, len(tiers))

	antsPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RunReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer antsPool.Release()

	reports := make([]TierRunReport, len(tiers))
	var workers sync.WaitGroup
	for i, tier := range tiers {
		i, tier := i, tier
		workers.Add(1)
		if err := antsPool.Submit(func() {
			defer workers.Done()
			report := s.runTier(ctx, tier, input)
			reports[i] = report
		}); err != nil {
			workers.Done()
			reports[i] = TierRunReport{Tier: tier, Error: fmt.Sprintf("submit tier: %v", err)}
		}
	}
	workers.Wait()

	// Next-season schedules wait until every tier's moves are in, so
	// incoming teams are part of the regenerated fixtures.
	if input.ApplyTransitions {
		for i := range reports {
			if reports[i].Transition == nil || reports[i].Error != "" {
				continue
			}
			next := reports[i].Transition.NextSeasonYear
			if _, err := s.scheduleSvc.GenerateSeason(ctx, next, reports[i].Tier, false); err != nil {
				if errors.Is(err, fixture.ErrFixturesExist) {
					continue
				}
				reports[i].Error = fmt.Sprintf("generate next season fixtures: %v", err)
			}
		}
	}

	report := RunReport{
		StartedAt:  started,
		DurationMs: s.now().Sub(started).Milliseconds(),
		Tiers:      reports,
	}

	return report, nil
}

func (s *EngineService) runTier(ctx context.Context, tier int, input RunInput) TierRunReport {
	report := TierRunReport{Tier: tier, State: StateScheduled}

	sn, err := s.ensureSeason(ctx, tier, input.BootstrapYear)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.SeasonYear = sn.Year

	fixtures, err := s.ensureFixtures(ctx, sn)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	if len(fixtures) == 0 {
		report.Error = fmt.Sprintf("%v: tier %d has fewer than two teams", ErrInvalidInput, tier)
		return report
	}

	teams, err := s.teamRepo.ListByTier(ctx, tier)
	if err != nil {
		report.Error = fmt.Sprintf("list teams: %v", err)
		return report
	}
	results, err := s.fixtureRepo.ListFinishedResults(ctx, sn.Year, tier)
	if err != nil {
		report.Error = fmt.Sprintf("list finished results: %v", err)
		return report
	}

	table, err := s.standingsSvc.Rebuild(ctx, sn.Year, tier, teams, fixtures, results)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	simulator, err := NewMatchSimulator(s.simParams, rand.New(rand.NewSource(input.Seed+int64(tier))))
	if err != nil {
		report.Error = err.Error()
		return report
	}

	strengths := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		strengths[t.ID] = t
	}
	finished := make(map[string]struct{}, len(results))
	for _, res := range results {
		finished[res.FixtureID] = struct{}{}
	}

	if err := s.simulateRounds(ctx, fixtures, finished, strengths, simulator, table, &report); err != nil {
		report.Error = err.Error()
		return report
	}

	ranked, err := s.standingsSvc.Persist(ctx, table)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Standings = ranked

	report.State = DeriveState(sn, len(fixtures), table.AppliedCount(), false)
	if report.State != StateCompleted {
		return report
	}

	if sn.Status == season.StatusActive {
		if err := s.seasonSvc.Complete(ctx, sn); err != nil {
			report.Error = err.Error()
			return report
		}
	}
	if !input.ApplyTransitions {
		return report
	}

	kinds := make(map[string]team.Kind, len(teams))
	for _, t := range teams {
		kinds[t.ID] = t.Kind
	}
	plan, err := s.seasonSvc.PlanTransition(sn, ranked, kinds)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	transition, err := s.seasonSvc.ApplyTransition(ctx, plan)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Transition = &transition
	report.State = StateTransitionApplied

	return report
}

// simulateRounds walks rounds in increasing order; the resumption
// contract depends on that monotonic progression. Fixtures inside a
// round persist concurrently, then fold into the table sequentially.
func (s *EngineService) simulateRounds(
	ctx context.Context,
	fixtures []fixture.Fixture,
	finished map[string]struct{},
	teamsByID map[string]team.Team,
	simulator *MatchSimulator,
	table *Table,
	report *TierRunReport,
) error {
	byRound := make(map[int][]fixture.Fixture)
	for _, fx := range fixtures {
		byRound[fx.Round] = append(byRound[fx.Round], fx)
	}
	rounds := make([]int, 0, len(byRound))
	for r := range byRound {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)

	for _, round := range rounds {
		pending := make([]fixture.Fixture, 0, len(byRound[round]))
		for _, fx := range byRound[round] {
			if _, done := finished[fx.ID]; done {
				report.FixturesSkipped++
				continue
			}
			pending = append(pending, fx)
		}
		if len(pending) == 0 {
			continue
		}

		simulated := make([]fixture.Result, len(pending))
		for i, fx := range pending {
			home, ok := teamsByID[fx.HomeTeamID]
			if !ok {
				return fmt.Errorf("%w: fixture %s references unknown team %s", ErrInconsistentState, fx.ID, fx.HomeTeamID)
			}
			away, ok := teamsByID[fx.AwayTeamID]
			if !ok {
				return fmt.Errorf("%w: fixture %s references unknown team %s", ErrInconsistentState, fx.ID, fx.AwayTeamID)
			}

			hg, ag := simulator.Simulate(home.Strength, away.Strength)
			simulated[i] = fixture.Result{
				FixtureID:  fx.ID,
				HomeGoals:  hg,
				AwayGoals:  ag,
				Status:     fixture.StatusFinished,
				FinishedAt: s.now().UTC(),
			}
		}

		writers := pool.New().WithErrors().WithContext(ctx)
		for i := range simulated {
			res := simulated[i]
			writers.Go(func(ctx context.Context) error {
				return resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
					applied, err := s.fixtureRepo.SaveResult(ctx, res)
					if err != nil {
						return err
					}
					if !applied {
						s.logger.InfoContext(ctx, "result already recorded, skipping",
							"fixture_id", res.FixtureID)
					}
					return nil
				})
			})
		}
		if err := writers.Wait(); err != nil {
			return fmt.Errorf("persist round %d results: %w", round, err)
		}

		for i, fx := range pending {
			applied, err := table.ApplyResult(fx, simulated[i])
			if err != nil {
				return err
			}
			if applied {
				report.FixturesSimulated++
			}
		}
		report.RoundsSimulated++
	}

	return nil
}

func (s *EngineService) ensureSeason(ctx context.Context, tier, bootstrapYear int) (season.Season, error) {
	sn, ok, err := s.seasonRepo.GetActiveByTier(ctx, tier)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season tier=%d: %w", tier, err)
	}
	if ok {
		return sn, nil
	}

	// Without an active season, fall back to the latest finished one so
	// a rerun over already played fixtures reports a completed no-op
	// instead of failing the tier.
	sn, ok, err = s.seasonRepo.GetLatestByTier(ctx, tier)
	if err != nil {
		return season.Season{}, fmt.Errorf("get latest season tier=%d: %w", tier, err)
	}
	if ok {
		return sn, nil
	}

	if bootstrapYear <= 0 {
		return season.Season{}, fmt.Errorf("%w: tier %d has no active season", ErrNotFound, tier)
	}

	sn = season.Season{Year: bootstrapYear, Tier: tier, Status: season.StatusActive}
	err = resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
		return s.seasonRepo.Create(ctx, sn)
	})
	if err != nil {
		return season.Season{}, fmt.Errorf("bootstrap season tier=%d year=%d: %w", tier, bootstrapYear, err)
	}

	s.logger.InfoContext(ctx, "season bootstrapped", "tier", tier, "season_year", bootstrapYear)
	return sn, nil
}

func (s *EngineService) ensureFixtures(ctx context.Context, sn season.Season) ([]fixture.Fixture, error) {
	fixtures, err := s.fixtureRepo.ListBySeason(ctx, sn.Year, sn.Tier)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	if len(fixtures) > 0 {
		return fixtures, nil
	}

	generated, err := s.scheduleSvc.GenerateSeason(ctx, sn.Year, sn.Tier, false)
	if err != nil && !errors.Is(err, fixture.ErrFixturesExist) {
		return nil, err
	}
	if len(generated) > 0 {
		return generated, nil
	}

	return s.fixtureRepo.ListBySeason(ctx, sn.Year, sn.Tier)
}

func dedupeTiers(tiers []int) []int {
	seen := make(map[int]struct{}, len(tiers))
	out := make([]int, 0, len(tiers))
	for _, t := range tiers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func normalizeTierWorkerCount(value, tierCount int) int {
	if tierCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > tierCount {
		value = tierCount
	}
	return value
}
