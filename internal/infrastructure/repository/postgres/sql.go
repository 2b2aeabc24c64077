package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/riskibarqy/tier-league/internal/platform/resilience"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// classify marks store errors as transient unless they are integrity
// violations, which retrying can never fix.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return err
	}
	return resilience.MarkTransient(err)
}
