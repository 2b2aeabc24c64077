package fixture

import (
	"context"
	"errors"
)

// ErrFixturesExist is returned by SaveAll when the season-tier already
// has a schedule and force was not set.
var ErrFixturesExist = errors.New("fixtures already exist for season")

// Repository exposes fixture and result persistence. SaveResult must be
// idempotent per fixture identity: writing a result for a fixture that
// already has a finished one reports applied=false and changes nothing.
type Repository interface {
	ListBySeason(ctx context.Context, seasonYear, tier int) ([]Fixture, error)
	SaveAll(ctx context.Context, seasonYear, tier int, fixtures []Fixture, force bool) error
	SaveResult(ctx context.Context, result Result) (applied bool, err error)
	ListFinishedResults(ctx context.Context, seasonYear, tier int) ([]Result, error)
}
