package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/tier-league/internal/domain/standings"
)

type StandingsRepository struct {
	mu   sync.RWMutex
	rows map[seasonKey]map[string]standings.Row
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{rows: make(map[seasonKey]map[string]standings.Row)}
}

func (r *StandingsRepository) ListBySeason(_ context.Context, seasonYear, tier int) ([]standings.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTeam := r.rows[seasonKey{year: seasonYear, tier: tier}]
	out := make([]standings.Row, 0, len(byTeam))
	for _, row := range byTeam {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *StandingsRepository) UpsertRow(_ context.Context, row standings.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := seasonKey{year: row.SeasonYear, tier: row.Tier}
	if r.rows[key] == nil {
		r.rows[key] = make(map[string]standings.Row)
	}
	r.rows[key][row.TeamID] = row
	return nil
}
