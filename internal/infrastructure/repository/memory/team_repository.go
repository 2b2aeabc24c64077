package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/tier-league/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	byID  map[string]team.Team
	order []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byID := make(map[string]team.Team, len(teams))
	order := make([]string, 0, len(teams))
	for _, t := range teams {
		if _, ok := byID[t.ID]; !ok {
			order = append(order, t.ID)
		}
		byID[t.ID] = t
	}
	return &TeamRepository{byID: byID, order: order}
}

func (r *TeamRepository) ListByTier(_ context.Context, tier int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		if t := r.byID[id]; t.Tier == tier {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) ListByTierAndKind(ctx context.Context, tier int, kind team.Kind) ([]team.Team, error) {
	all, err := r.ListByTier(ctx, tier)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[teamID]
	return t, ok, nil
}

func (r *TeamRepository) SetTier(_ context.Context, teamID string, newTier int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[teamID]
	if !ok {
		return fmt.Errorf("team %s not found", teamID)
	}
	t.Tier = newTier
	r.byID[teamID] = t
	return nil
}

// MoveTiers applies the whole batch under one lock hold; every team is
// checked before the first write so an unknown ID changes nothing.
func (r *TeamRepository) MoveTiers(_ context.Context, moves []team.TierMove) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mv := range moves {
		if _, ok := r.byID[mv.TeamID]; !ok {
			return fmt.Errorf("team %s not found", mv.TeamID)
		}
	}
	for _, mv := range moves {
		t := r.byID[mv.TeamID]
		t.Tier = mv.NewTier
		r.byID[mv.TeamID] = t
	}
	return nil
}
