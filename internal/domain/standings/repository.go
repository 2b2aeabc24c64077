package standings

import "context"

// Repository persists standings rows. UpsertRow replaces the row for
// (seasonYear, tier, teamID); the store never merges counters itself,
// aggregation happens in the use case layer.
type Repository interface {
	ListBySeason(ctx context.Context, seasonYear, tier int) ([]Row, error)
	UpsertRow(ctx context.Context, row Row) error
}
