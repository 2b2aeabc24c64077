package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
	"github.com/riskibarqy/tier-league/internal/platform/resilience"
)

// LifecycleState is the per tier-season progression. States only move
// forward; the engine derives the current state from the store on every
// run instead of caching it.
type LifecycleState string

const (
	StateScheduled         LifecycleState = "SCHEDULED"
	StateInProgress        LifecycleState = "IN_PROGRESS"
	StateCompleted         LifecycleState = "COMPLETED"
	StateTransitionApplied LifecycleState = "TRANSITION_APPLIED"
)

// TransitionPlan names every move out of one tier. Promoted teams go to
// tier-1, relegated teams to tier+1.
type TransitionPlan struct {
	Tier       int
	SeasonYear int
	Promoted   []string
	Relegated  []string
}

// TransitionReport is the operator-visible outcome of one tier's
// transition.
type TransitionReport struct {
	Tier           int      `json:"tier"`
	SeasonYear     int      `json:"season_year"`
	Policy         string   `json:"policy"`
	Promoted       []string `json:"promoted"`
	Relegated      []string `json:"relegated"`
	NextSeasonYear int      `json:"next_season_year"`
}

// SeasonService drives the tier-season state machine and the
// promotion/relegation moves at its end.
type SeasonService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	seasonRepo  season.Repository
	policy      TransitionPolicy
	cfg         TransitionConfig
	retryCfg    resilience.RetryConfig
	tierLocks   *resilience.KeyedMutex
	logger      *logging.Logger
}

func NewSeasonService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	seasonRepo season.Repository,
	policy TransitionPolicy,
	cfg TransitionConfig,
	retryCfg resilience.RetryConfig,
	logger *logging.Logger,
) *SeasonService {
	if policy == nil {
		policy = ProtectUserTeamsPolicy{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		seasonRepo:  seasonRepo,
		policy:      policy,
		cfg:         cfg,
		retryCfg:    resilience.NormalizeRetryConfig(retryCfg),
		tierLocks:   &resilience.KeyedMutex{},
		logger:      logger,
	}
}

// DeriveState recomputes where a tier-season stands from fixtures and
// results alone, so a crashed run resumes at the right step.
func DeriveState(s season.Season, fixtureCount, finishedCount int, nextSeasonExists bool) LifecycleState {
	switch {
	case s.Status == season.StatusFinished && nextSeasonExists:
		return StateTransitionApplied
	case fixtureCount > 0 && finishedCount >= fixtureCount:
		return StateCompleted
	case finishedCount > 0:
		return StateInProgress
	default:
		return StateScheduled
	}
}

// Complete marks the tier's season finished once every fixture has a
// result.
func (s *SeasonService) Complete(ctx context.Context, sn season.Season) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Complete")
	defer span.End()

	err := resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
		return s.seasonRepo.SetStatus(ctx, sn.Tier, sn.Year, season.StatusFinished)
	})
	if err != nil {
		return fmt.Errorf("finish season tier=%d year=%d: %w", sn.Tier, sn.Year, err)
	}

	s.logger.InfoContext(ctx, "season completed", "tier", sn.Tier, "season_year", sn.Year)
	return nil
}

// PlanTransition validates spots against the table and asks the policy
// for moves. A team picked for both directions is a consistency error
// that halts the tier; silently merging would corrupt tier counts.
func (s *SeasonService) PlanTransition(sn season.Season, ranked []standings.Row, kinds map[string]team.Kind) (TransitionPlan, error) {
	if len(ranked) < 2 {
		return TransitionPlan{}, fmt.Errorf("%w: tier %d has %d teams, cannot transition", ErrInvalidInput, sn.Tier, len(ranked))
	}
	if s.cfg.PromotionSpots > len(ranked) || s.cfg.RelegationSpots > len(ranked) {
		return TransitionPlan{}, fmt.Errorf("%w: tier %d spots (up=%d down=%d) exceed team count %d",
			ErrInvalidInput, sn.Tier, s.cfg.PromotionSpots, s.cfg.RelegationSpots, len(ranked))
	}

	plan := TransitionPlan{
		Tier:       sn.Tier,
		SeasonYear: sn.Year,
		Promoted:   s.policy.Promote(sn.Tier, ranked, kinds, s.cfg),
		Relegated:  s.policy.Relegate(sn.Tier, ranked, kinds, s.cfg),
	}

	up := make(map[string]struct{}, len(plan.Promoted))
	for _, id := range plan.Promoted {
		up[id] = struct{}{}
	}
	for _, id := range plan.Relegated {
		if _, both := up[id]; both {
			return TransitionPlan{}, fmt.Errorf("%w: team %s flagged for promotion and relegation in tier %d",
				ErrInconsistentState, id, sn.Tier)
		}
	}

	return plan, nil
}

// ApplyTransition validates the plan against the tier's current
// membership, writes every tier move as one atomic batch, and opens the
// next season. A plan that would drain the tier is rejected before any
// write, so the finished season stays intact for a corrected
// re-attempt. Re-running an applied plan is a no-op: moves whose team
// already left the tier are skipped and an existing next season is
// treated as already opened.
func (s *SeasonService) ApplyTransition(ctx context.Context, plan TransitionPlan) (TransitionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ApplyTransition")
	defer span.End()

	unlock := s.lockTiers(affectedTiers(plan))
	defer unlock()

	current, err := s.teamRepo.ListByTier(ctx, plan.Tier)
	if err != nil {
		return TransitionReport{}, fmt.Errorf("list tier %d teams: %w", plan.Tier, err)
	}
	inTier := make(map[string]struct{}, len(current))
	for _, t := range current {
		inTier[t.ID] = struct{}{}
	}

	moves := make([]team.TierMove, 0, len(plan.Promoted)+len(plan.Relegated))
	for _, id := range plan.Promoted {
		if _, ok := inTier[id]; ok {
			moves = append(moves, team.TierMove{TeamID: id, NewTier: plan.Tier - 1})
		}
	}
	for _, id := range plan.Relegated {
		if _, ok := inTier[id]; ok {
			moves = append(moves, team.TierMove{TeamID: id, NewTier: plan.Tier + 1})
		}
	}

	if remaining := len(current) - len(moves); remaining < 2 {
		return TransitionReport{}, fmt.Errorf("%w: tier %d would be left with %d teams after transition",
			ErrInconsistentState, plan.Tier, remaining)
	}

	if err := s.moveTiers(ctx, plan.Tier, moves); err != nil {
		return TransitionReport{}, err
	}

	nextYear := plan.SeasonYear + 1
	if err := s.openSeason(ctx, plan.Tier, nextYear); err != nil {
		return TransitionReport{}, err
	}

	report := TransitionReport{
		Tier:           plan.Tier,
		SeasonYear:     plan.SeasonYear,
		Policy:         s.policy.Name(),
		Promoted:       plan.Promoted,
		Relegated:      plan.Relegated,
		NextSeasonYear: nextYear,
	}

	s.logger.InfoContext(ctx, "tier transition applied",
		"tier", plan.Tier, "season_year", plan.SeasonYear,
		"policy", s.policy.Name(),
		"promoted", len(plan.Promoted), "relegated", len(plan.Relegated))

	return report, nil
}

func (s *SeasonService) setTier(ctx context.Context, teamID string, newTier int) error {
	return resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
		return s.teamRepo.SetTier(ctx, teamID, newTier)
	})
}

// moveTiers is all-or-nothing. Stores exposing team.TierMover take the
// batch in one write; otherwise moves apply one by one and any already
// applied move is put back when a later one fails.
func (s *SeasonService) moveTiers(ctx context.Context, fromTier int, moves []team.TierMove) error {
	if len(moves) == 0 {
		return nil
	}

	if mover, ok := s.teamRepo.(team.TierMover); ok {
		err := resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
			return mover.MoveTiers(ctx, moves)
		})
		if err != nil {
			return fmt.Errorf("move teams out of tier %d: %w", fromTier, err)
		}
		return nil
	}

	for i, mv := range moves {
		if err := s.setTier(ctx, mv.TeamID, mv.NewTier); err != nil {
			s.rollbackMoves(ctx, fromTier, moves[:i])
			return fmt.Errorf("move team %s from tier %d to %d: %w", mv.TeamID, fromTier, mv.NewTier, err)
		}
	}
	return nil
}

func (s *SeasonService) rollbackMoves(ctx context.Context, fromTier int, applied []team.TierMove) {
	for _, mv := range applied {
		if err := s.setTier(ctx, mv.TeamID, fromTier); err != nil {
			s.logger.ErrorContext(ctx, "tier move rollback failed",
				"team_id", mv.TeamID, "tier", fromTier, "error", err)
		}
	}
}

func (s *SeasonService) openSeason(ctx context.Context, tier, year int) error {
	if _, exists, err := s.seasonRepo.Get(ctx, tier, year); err != nil {
		return fmt.Errorf("check season tier=%d year=%d: %w", tier, year, err)
	} else if exists {
		return nil
	}

	err := resilience.Retry(ctx, s.retryCfg, func(ctx context.Context) error {
		return s.seasonRepo.Create(ctx, season.Season{Year: year, Tier: tier, Status: season.StatusActive})
	})
	if err != nil {
		return fmt.Errorf("create season tier=%d year=%d: %w", tier, year, err)
	}
	return nil
}

// lockTiers takes the per-tier locks in ascending order so two tiers
// transitioning concurrently cannot deadlock on their shared neighbor.
func (s *SeasonService) lockTiers(tiers []int) func() {
	keys := make([]string, 0, len(tiers))
	for _, t := range tiers {
		keys = append(keys, strconv.Itoa(t))
	}
	for _, key := range keys {
		s.tierLocks.Lock(key)
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			s.tierLocks.Unlock(keys[i])
		}
	}
}

func affectedTiers(plan TransitionPlan) []int {
	set := map[int]struct{}{plan.Tier: {}}
	if len(plan.Promoted) > 0 {
		set[plan.Tier-1] = struct{}{}
	}
	if len(plan.Relegated) > 0 {
		set[plan.Tier+1] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}
