package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
)

// Table aggregates finished results for one tier's season. It keeps an
// explicit ledger of applied fixture IDs so re-applying the same result
// is a no-op instead of a double count.
type Table struct {
	seasonYear int
	tier       int
	rows       map[string]*standings.Row
	applied    map[string]struct{}
}

func NewTable(seasonYear, tier int, teams []team.Team) *Table {
	rows := make(map[string]*standings.Row, len(teams))
	for _, t := range teams {
		rows[t.ID] = &standings.Row{
			SeasonYear: seasonYear,
			Tier:       tier,
			TeamID:     t.ID,
		}
	}
	return &Table{
		seasonYear: seasonYear,
		tier:       tier,
		rows:       rows,
		applied:    make(map[string]struct{}),
	}
}

// ApplyResult folds one finished result into the table. It reports
// applied=false when the result is not finished or the fixture was
// already counted. A fixture naming a team outside the table is an
// inconsistency, not a recoverable condition.
func (t *Table) ApplyResult(fx fixture.Fixture, res fixture.Result) (bool, error) {
	if !fixture.IsFinishedStatus(res.Status) {
		return false, nil
	}
	if _, done := t.applied[fx.ID]; done {
		return false, nil
	}

	home, ok := t.rows[fx.HomeTeamID]
	if !ok {
		return false, fmt.Errorf("%w: fixture %s references unknown team %s", ErrInconsistentState, fx.ID, fx.HomeTeamID)
	}
	away, ok := t.rows[fx.AwayTeamID]
	if !ok {
		return false, fmt.Errorf("%w: fixture %s references unknown team %s", ErrInconsistentState, fx.ID, fx.AwayTeamID)
	}

	home.Played++
	away.Played++
	home.GoalsFor += res.HomeGoals
	home.GoalsAgainst += res.AwayGoals
	away.GoalsFor += res.AwayGoals
	away.GoalsAgainst += res.HomeGoals

	switch res.Outcome() {
	case fixture.OutcomeHomeWin:
		home.Wins++
		away.Losses++
	case fixture.OutcomeAwayWin:
		away.Wins++
		home.Losses++
	case fixture.OutcomeDraw:
		home.Draws++
		away.Draws++
	}
	home.Points = 3*home.Wins + home.Draws
	away.Points = 3*away.Wins + away.Draws

	t.applied[fx.ID] = struct{}{}
	return true, nil
}

// AppliedCount returns how many distinct fixtures the table has folded in.
func (t *Table) AppliedCount() int {
	return len(t.applied)
}

// Rank returns the rows in table order with 1-based positions. The
// tie-break chain ends at team id, so the order is total even when
// every counter is equal.
func (t *Table) Rank() []standings.Row {
	out := make([]standings.Row, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return standings.Less(out[i], out[j]) })
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// StandingsService rebuilds season tables from the store's finished
// results and persists ranked rows back. The table is never cached
// across runs; every invocation starts from the store's truth.
type StandingsService struct {
	standingsRepo standings.Repository
	logger        *logging.Logger
}

func NewStandingsService(standingsRepo standings.Repository, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{standingsRepo: standingsRepo, logger: logger}
}

// Rebuild replays every finished result for the season into a fresh
// table. Results whose fixture is unknown to the schedule surface as
// inconsistency errors.
func (s *StandingsService) Rebuild(ctx context.Context, seasonYear, tier int, teams []team.Team, fixtures []fixture.Fixture, results []fixture.Result) (*Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Rebuild")
	defer span.End()

	byID := make(map[string]fixture.Fixture, len(fixtures))
	for _, fx := range fixtures {
		byID[fx.ID] = fx
	}

	table := NewTable(seasonYear, tier, teams)
	replayed := 0
	for _, res := range results {
		fx, ok := byID[res.FixtureID]
		if !ok {
			return nil, fmt.Errorf("%w: result for unknown fixture %s", ErrInconsistentState, res.FixtureID)
		}
		applied, err := table.ApplyResult(fx, res)
		if err != nil {
			return nil, err
		}
		if applied {
			replayed++
		}
	}

	if replayed > 0 {
		s.logger.DebugContext(ctx, "standings rebuilt from finished results",
			"tier", tier, "season_year", seasonYear, "replayed", replayed)
	}

	return table, nil
}

// Persist upserts the ranked rows for the table's season.
func (s *StandingsService) Persist(ctx context.Context, table *Table) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Persist")
	defer span.End()

	ranked := table.Rank()
	for _, row := range ranked {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
		}
		if err := s.standingsRepo.UpsertRow(ctx, row); err != nil {
			return nil, fmt.Errorf("upsert standings row team=%s: %w", row.TeamID, err)
		}
	}

	return ranked, nil
}
