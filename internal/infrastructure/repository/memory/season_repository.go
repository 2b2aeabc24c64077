package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/tier-league/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[seasonKey]season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	byKey := make(map[seasonKey]season.Season, len(seasons))
	for _, s := range seasons {
		byKey[seasonKey{year: s.Year, tier: s.Tier}] = s
	}
	return &SeasonRepository{seasons: byKey}
}

func (r *SeasonRepository) GetActiveByTier(_ context.Context, tier int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// When several active seasons exist for a tier the latest year wins;
	// the lifecycle only ever leaves one active.
	var found season.Season
	ok := false
	for _, s := range r.seasons {
		if s.Tier != tier || s.Status != season.StatusActive {
			continue
		}
		if !ok || s.Year > found.Year {
			found = s
			ok = true
		}
	}
	return found, ok, nil
}

func (r *SeasonRepository) GetLatestByTier(_ context.Context, tier int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found season.Season
	ok := false
	for _, s := range r.seasons {
		if s.Tier != tier {
			continue
		}
		if !ok || s.Year > found.Year {
			found = s
			ok = true
		}
	}
	return found, ok, nil
}

func (r *SeasonRepository) Get(_ context.Context, tier, year int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.seasons[seasonKey{year: year, tier: tier}]
	return s, ok, nil
}

func (r *SeasonRepository) Create(_ context.Context, s season.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonKey{year: s.Year, tier: s.Tier}
	if _, exists := r.seasons[key]; exists {
		return fmt.Errorf("season tier=%d year=%d already exists", s.Tier, s.Year)
	}
	r.seasons[key] = s
	return nil
}

func (r *SeasonRepository) SetStatus(_ context.Context, tier, year int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonKey{year: year, tier: tier}
	s, ok := r.seasons[key]
	if !ok {
		return fmt.Errorf("season tier=%d year=%d not found", tier, year)
	}
	s.Status = status
	r.seasons[key] = s
	return nil
}
