package usecase

import (
	"fmt"

	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
)

// TransitionConfig sizes the end-of-season movement between adjacent
// tiers. Spots are per tier per season.
type TransitionConfig struct {
	PromotionSpots  int `validate:"min=0,max=16"`
	RelegationSpots int `validate:"min=0,max=16"`
}

func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{PromotionSpots: 4, RelegationSpots: 4}
}

// TransitionPolicy decides which teams leave a tier when its season
// completes. ranked is the tier's final table in position order; kinds
// maps team id to its kind. Promotions only exist below the top tier,
// relegations only above the bottom tier; implementations may return
// fewer ids than the configured spots when eligibility filters apply.
type TransitionPolicy interface {
	Name() string
	Promote(tier int, ranked []standings.Row, kinds map[string]team.Kind, cfg TransitionConfig) []string
	Relegate(tier int, ranked []standings.Row, kinds map[string]team.Kind, cfg TransitionConfig) []string
}

// ProtectUserTeamsPolicy reproduces the observed asymmetric rule: only
// user teams go up, only machine teams go down. Rows of the opposite
// kind occupying a slot are skipped, not substituted.
type ProtectUserTeamsPolicy struct{}

func (ProtectUserTeamsPolicy) Name() string { return "protect-user-teams" }

func (ProtectUserTeamsPolicy) Promote(tier int, ranked []standings.Row, kinds map[string]team.Kind, cfg TransitionConfig) []string {
	if tier <= team.TopTier {
		return nil
	}
	out := make([]string, 0, cfg.PromotionSpots)
	for i := 0; i < len(ranked) && i < cfg.PromotionSpots; i++ {
		if kinds[ranked[i].TeamID] != team.KindUser {
			continue
		}
		out = append(out, ranked[i].TeamID)
	}
	return out
}

func (ProtectUserTeamsPolicy) Relegate(tier int, ranked []standings.Row, kinds map[string]team.Kind, cfg TransitionConfig) []string {
	if tier >= team.BottomTier {
		return nil
	}
	out := make([]string, 0, cfg.RelegationSpots)
	for i := 0; i < len(ranked) && i < cfg.RelegationSpots; i++ {
		row := ranked[len(ranked)-1-i]
		if kinds[row.TeamID] != team.KindMachine {
			continue
		}
		out = append(out, row.TeamID)
	}
	return out
}

// StrictTablePolicy moves teams purely on final position, regardless of
// kind. Selectable via configuration where the protective asymmetry is
// not wanted.
type StrictTablePolicy struct{}

func (StrictTablePolicy) Name() string { return "strict-table" }

func (StrictTablePolicy) Promote(tier int, ranked []standings.Row, _ map[string]team.Kind, cfg TransitionConfig) []string {
	if tier <= team.TopTier {
		return nil
	}
	out := make([]string, 0, cfg.PromotionSpots)
	for i := 0; i < len(ranked) && i < cfg.PromotionSpots; i++ {
		out = append(out, ranked[i].TeamID)
	}
	return out
}

func (StrictTablePolicy) Relegate(tier int, ranked []standings.Row, _ map[string]team.Kind, cfg TransitionConfig) []string {
	if tier >= team.BottomTier {
		return nil
	}
	out := make([]string, 0, cfg.RelegationSpots)
	for i := 0; i < len(ranked) && i < cfg.RelegationSpots; i++ {
		out = append(out, ranked[len(ranked)-1-i].TeamID)
	}
	return out
}

// PolicyByName resolves a configuration value to a policy.
func PolicyByName(name string) (TransitionPolicy, error) {
	switch name {
	case "", ProtectUserTeamsPolicy{}.Name():
		return ProtectUserTeamsPolicy{}, nil
	case StrictTablePolicy{}.Name():
		return StrictTablePolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown transition policy %q", ErrInvalidInput, name)
	}
}
