package season

import "context"

// Repository persists season lifecycle state per tier.
type Repository interface {
	// GetActiveByTier returns the tier's current ACTIVE season, if any.
	GetActiveByTier(ctx context.Context, tier int) (Season, bool, error)
	// GetLatestByTier returns the tier's most recent season regardless
	// of status.
	GetLatestByTier(ctx context.Context, tier int) (Season, bool, error)
	Get(ctx context.Context, tier, year int) (Season, bool, error)
	Create(ctx context.Context, s Season) error
	SetStatus(ctx context.Context, tier, year int, status string) error
}
