package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
)

type stubTeamRepository struct {
	mu    sync.Mutex
	teams map[string]team.Team

	setTierErrs map[string]error
}

func newStubTeamRepository(teams ...team.Team) *stubTeamRepository {
	byID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return &stubTeamRepository{teams: byID}
}

func (r *stubTeamRepository) ListByTier(_ context.Context, tier int) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.Tier == tier {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTeamRepository) ListByTierAndKind(ctx context.Context, tier int, kind team.Kind) ([]team.Team, error) {
	all, err := r.ListByTier(ctx, tier)
	if err != nil {
		return nil, err
	}
	out := make([]team.Team, 0, len(all))
	for _, t := range all {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[teamID]
	return t, ok, nil
}

func (r *stubTeamRepository) SetTier(_ context.Context, teamID string, newTier int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.setTierErrs[teamID]; err != nil {
		return err
	}
	t, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	t.Tier = newTier
	r.teams[teamID] = t
	return nil
}

type stubFixtureRepository struct {
	mu       sync.Mutex
	fixtures []fixture.Fixture
	results  map[string]fixture.Result

	saveAllErr    error
	saveAllCalls  int
	saveResultErr error
}

func newStubFixtureRepository() *stubFixtureRepository {
	return &stubFixtureRepository{results: make(map[string]fixture.Result)}
}

func (r *stubFixtureRepository) ListBySeason(_ context.Context, seasonYear, tier int) ([]fixture.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]fixture.Fixture, 0, len(r.fixtures))
	for _, fx := range r.fixtures {
		if fx.SeasonYear == seasonYear && fx.Tier == tier {
			out = append(out, fx)
		}
	}
	return out, nil
}

func (r *stubFixtureRepository) SaveAll(_ context.Context, seasonYear, tier int, fixtures []fixture.Fixture, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveAllCalls++
	if r.saveAllErr != nil {
		return r.saveAllErr
	}
	for _, fx := range r.fixtures {
		if fx.SeasonYear == seasonYear && fx.Tier == tier && !force {
			return fmt.Errorf("season %d tier %d: %w", seasonYear, tier, fixture.ErrFixturesExist)
		}
	}
	r.fixtures = append(r.fixtures, fixtures...)
	return nil
}

func (r *stubFixtureRepository) SaveResult(_ context.Context, result fixture.Result) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveResultErr != nil {
		return false, r.saveResultErr
	}
	if existing, ok := r.results[result.FixtureID]; ok && fixture.IsFinishedStatus(existing.Status) {
		return false, nil
	}
	r.results[result.FixtureID] = result
	return true, nil
}

func (r *stubFixtureRepository) ListFinishedResults(_ context.Context, seasonYear, tier int) ([]fixture.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]fixture.Result, 0, len(r.results))
	for _, fx := range r.fixtures {
		if fx.SeasonYear != seasonYear || fx.Tier != tier {
			continue
		}
		if res, ok := r.results[fx.ID]; ok && fixture.IsFinishedStatus(res.Status) {
			out = append(out, res)
		}
	}
	return out, nil
}

type stubStandingsRepository struct {
	mu   sync.Mutex
	rows map[string]standings.Row

	upsertErr error
}

func newStubStandingsRepository() *stubStandingsRepository {
	return &stubStandingsRepository{rows: make(map[string]standings.Row)}
}

func standingsRowKey(seasonYear, tier int, teamID string) string {
	return fmt.Sprintf("%d/%d/%s", seasonYear, tier, teamID)
}

func (r *stubStandingsRepository) ListBySeason(_ context.Context, seasonYear, tier int) ([]standings.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]standings.Row, 0, len(r.rows))
	for _, row := range r.rows {
		if row.SeasonYear == seasonYear && row.Tier == tier {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *stubStandingsRepository) UpsertRow(_ context.Context, row standings.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.rows[standingsRowKey(row.SeasonYear, row.Tier, row.TeamID)] = row
	return nil
}

type stubSeasonRepository struct {
	mu      sync.Mutex
	seasons map[string]season.Season

	createErr error
}

func newStubSeasonRepository(seasons ...season.Season) *stubSeasonRepository {
	byKey := make(map[string]season.Season, len(seasons))
	for _, s := range seasons {
		byKey[seasonKey(s.Tier, s.Year)] = s
	}
	return &stubSeasonRepository{seasons: byKey}
}

func seasonKey(tier, year int) string {
	return fmt.Sprintf("%d/%d", tier, year)
}

func (r *stubSeasonRepository) GetActiveByTier(_ context.Context, tier int) (season.Season, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best season.Season
	found := false
	for _, s := range r.seasons {
		if s.Tier != tier || s.Status != season.StatusActive {
			continue
		}
		if !found || s.Year > best.Year {
			best = s
			found = true
		}
	}
	return best, found, nil
}

func (r *stubSeasonRepository) GetLatestByTier(_ context.Context, tier int) (season.Season, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best season.Season
	found := false
	for _, s := range r.seasons {
		if s.Tier != tier {
			continue
		}
		if !found || s.Year > best.Year {
			best = s
			found = true
		}
	}
	return best, found, nil
}

func (r *stubSeasonRepository) Get(_ context.Context, tier, year int) (season.Season, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seasons[seasonKey(tier, year)]
	return s, ok, nil
}

func (r *stubSeasonRepository) Create(_ context.Context, s season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	key := seasonKey(s.Tier, s.Year)
	if _, exists := r.seasons[key]; exists {
		return fmt.Errorf("season tier=%d year=%d already exists", s.Tier, s.Year)
	}
	r.seasons[key] = s
	return nil
}

func (r *stubSeasonRepository) SetStatus(_ context.Context, tier, year int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonKey(tier, year)
	s, ok := r.seasons[key]
	if !ok {
		return fmt.Errorf("season tier=%d year=%d not found", tier, year)
	}
	s.Status = status
	r.seasons[key] = s
	return nil
}
