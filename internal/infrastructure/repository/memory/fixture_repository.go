package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
)

type seasonKey struct {
	year int
	tier int
}

type FixtureRepository struct {
	mu       sync.RWMutex
	bySeason map[seasonKey][]fixture.Fixture
	results  map[string]fixture.Result
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		bySeason: make(map[seasonKey][]fixture.Fixture),
		results:  make(map[string]fixture.Result),
	}
}

func (r *FixtureRepository) ListBySeason(_ context.Context, seasonYear, tier int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonKey{year: seasonYear, tier: tier}]
	out := make([]fixture.Fixture, len(items))
	copy(out, items)
	return out, nil
}

func (r *FixtureRepository) SaveAll(_ context.Context, seasonYear, tier int, fixtures []fixture.Fixture, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonKey{year: seasonYear, tier: tier}
	if existing := r.bySeason[key]; len(existing) > 0 && !force {
		return fmt.Errorf("season=%d tier=%d: %w", seasonYear, tier, fixture.ErrFixturesExist)
	}

	stored := make([]fixture.Fixture, len(fixtures))
	copy(stored, fixtures)
	sort.Slice(stored, func(i, j int) bool {
		if stored[i].Round != stored[j].Round {
			return stored[i].Round < stored[j].Round
		}
		return stored[i].ID < stored[j].ID
	})
	r.bySeason[key] = stored
	return nil
}

func (r *FixtureRepository) SaveResult(_ context.Context, result fixture.Result) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.results[result.FixtureID]; ok && fixture.IsFinishedStatus(existing.Status) {
		return false, nil
	}
	r.results[result.FixtureID] = result
	return true, nil
}

func (r *FixtureRepository) ListFinishedResults(_ context.Context, seasonYear, tier int) ([]fixture.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fixtures := r.bySeason[seasonKey{year: seasonYear, tier: tier}]
	out := make([]fixture.Result, 0, len(fixtures))
	for _, fx := range fixtures {
		if res, ok := r.results[fx.ID]; ok && fixture.IsFinishedStatus(res.Status) {
			out = append(out, res)
		}
	}
	return out, nil
}
