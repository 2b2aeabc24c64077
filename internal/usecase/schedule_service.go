package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
)

// byeSentinel fills the extra slot when a tier has an odd team count.
// Any pairing containing it produces no fixture; the rotation moves the
// bye to a different team every round.
const byeSentinel = ""

const (
	defaultRoundInterval    = 7 * 24 * time.Hour
	defaultSeasonStartDay   = 9
	defaultSeasonStartMonth = time.August
)

// ScheduleParams controls fixture date assignment. The schedule itself
// carries no randomness: the same team order always yields the same
// fixture set.
type ScheduleParams struct {
	RoundInterval time.Duration
	StartDay      int
	StartMonth    time.Month
}

func DefaultScheduleParams() ScheduleParams {
	return ScheduleParams{
		RoundInterval: defaultRoundInterval,
		StartDay:      defaultSeasonStartDay,
		StartMonth:    defaultSeasonStartMonth,
	}
}

func (p ScheduleParams) normalize() ScheduleParams {
	defaults := DefaultScheduleParams()
	if p.RoundInterval <= 0 {
		p.RoundInterval = defaults.RoundInterval
	}
	if p.StartDay < 1 || p.StartDay > 28 {
		p.StartDay = defaults.StartDay
	}
	if p.StartMonth < time.January || p.StartMonth > time.December {
		p.StartMonth = defaults.StartMonth
	}
	return p
}

type ScheduleService struct {
	teamRepo    team.Repository
	fixtureRepo fixture.Repository
	params      ScheduleParams
	logger      *logging.Logger
}

func NewScheduleService(teamRepo team.Repository, fixtureRepo fixture.Repository, params ScheduleParams, logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		teamRepo:    teamRepo,
		fixtureRepo: fixtureRepo,
		params:      params.normalize(),
		logger:      logger,
	}
}

// GenerateSeason builds and persists the double round-robin for one
// tier's season. The store rejects overwriting an existing schedule
// unless force is set.
func (s *ScheduleService) GenerateSeason(ctx context.Context, seasonYear, tier int, force bool) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateSeason")
	defer span.End()

	if seasonYear <= 0 {
		return nil, fmt.Errorf("%w: season year must be positive", ErrInvalidInput)
	}
	if tier < team.TopTier || tier > team.BottomTier {
		return nil, fmt.Errorf("%w: tier %d out of range", ErrInvalidInput, tier)
	}

	teams, err := s.teamRepo.ListByTier(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf("list teams tier=%d: %w", tier, err)
	}

	fixtures := BuildDoubleRoundRobin(teams, seasonYear, tier, s.params)
	if len(fixtures) == 0 {
		s.logger.InfoContext(ctx, "tier has fewer than two teams, empty schedule",
			"tier", tier, "season_year", seasonYear, "team_count", len(teams))
		return nil, nil
	}

	if err := s.fixtureRepo.SaveAll(ctx, seasonYear, tier, fixtures, force); err != nil {
		return nil, fmt.Errorf("save fixtures season=%d tier=%d: %w", seasonYear, tier, err)
	}

	s.logger.InfoContext(ctx, "season schedule generated",
		"tier", tier, "season_year", seasonYear,
		"team_count", len(teams), "fixture_count", len(fixtures), "round_count", RoundCount(len(teams)))

	return fixtures, nil
}

// RoundCount returns the number of rounds a double round-robin needs
// for teamCount teams: 2*(T-1) when even, 2*T when odd (one bye round
// per cycle), 0 below two teams.
func RoundCount(teamCount int) int {
	if teamCount < 2 {
		return 0
	}
	if teamCount%2 == 0 {
		return 2 * (teamCount - 1)
	}
	return 2 * teamCount
}

type pairing struct {
	home string
	away string
}

// BuildDoubleRoundRobin produces the full two-leg schedule using the
// circle method: team[0] stays fixed, the rest rotate by one slot each
// round, position i meets position T-1-i, and the home half alternates
// between successive rounds so home/away counts stay balanced. The
// second leg repeats the first with sides swapped.
func BuildDoubleRoundRobin(teams []team.Team, seasonYear, tier int, params ScheduleParams) []fixture.Fixture {
	if len(teams) < 2 {
		return nil
	}
	params = params.normalize()

	ids := make([]string, 0, len(teams)+1)
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	if len(ids)%2 != 0 {
		ids = append(ids, byeSentinel)
	}

	firstLeg := buildSingleRoundRobin(ids)
	start := time.Date(seasonYear, params.StartMonth, params.StartDay, 0, 0, 0, 0, time.UTC)

	out := make([]fixture.Fixture, 0, 2*len(firstLeg)*len(ids)/2)
	for roundIdx, round := range firstLeg {
		roundNo := roundIdx + 1
		for _, p := range round {
			out = append(out, newFixture(seasonYear, tier, roundNo, fixture.LegFirst, p.home, p.away, start, params.RoundInterval))
		}
	}
	for roundIdx, round := range firstLeg {
		roundNo := len(firstLeg) + roundIdx + 1
		for _, p := range round {
			out = append(out, newFixture(seasonYear, tier, roundNo, fixture.LegSecond, p.away, p.home, start, params.RoundInterval))
		}
	}

	return out
}

func buildSingleRoundRobin(ids []string) [][]pairing {
	slots := make([]string, len(ids))
	copy(slots, ids)

	n := len(slots)
	rounds := make([][]pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([]pairing, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := slots[i], slots[n-1-i]
			if a == byeSentinel || b == byeSentinel {
				continue
			}
			if r%2 == 1 {
				a, b = b, a
			}
			round = append(round, pairing{home: a, away: b})
		}
		rounds = append(rounds, round)

		// Rotate everything except the fixed pivot slot.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	return rounds
}

func newFixture(seasonYear, tier, round int, leg fixture.Leg, home, away string, start time.Time, interval time.Duration) fixture.Fixture {
	return fixture.Fixture{
		ID:         fixtureID(seasonYear, tier, round, home, away),
		SeasonYear: seasonYear,
		Tier:       tier,
		Round:      round,
		Leg:        leg,
		HomeTeamID: home,
		AwayTeamID: away,
		KickoffAt:  start.Add(time.Duration(round-1) * interval),
	}
}

// fixtureID is deterministic so regenerating a schedule from the same
// team order reproduces identical fixture identities.
func fixtureID(seasonYear, tier, round int, home, away string) string {
	return fmt.Sprintf("s%d-t%d-r%02d-%s-%s", seasonYear, tier, round, home, away)
}
