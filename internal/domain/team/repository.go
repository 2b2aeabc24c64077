package team

import "context"

// Repository describes team persistence needs from use cases.
// The registry owns team identity; the engine only reads it, except
// SetTier which the season transition uses at rollover.
type Repository interface {
	ListByTier(ctx context.Context, tier int) ([]Team, error)
	ListByTierAndKind(ctx context.Context, tier int, kind Kind) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	SetTier(ctx context.Context, teamID string, newTier int) error
}

// TierMove relocates one team into a new tier.
type TierMove struct {
	TeamID  string
	NewTier int
}

// TierMover is an optional Repository capability: apply a batch of tier
// moves as one all-or-nothing write. Either every move lands or none
// does.
type TierMover interface {
	MoveTiers(ctx context.Context, moves []TierMove) error
}
