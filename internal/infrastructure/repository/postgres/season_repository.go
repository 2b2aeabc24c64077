package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tier-league/internal/domain/season"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetActiveByTier(ctx context.Context, tier int) (season.Season, bool, error) {
	query := `SELECT year, tier, status FROM seasons
		WHERE tier = $1 AND status = $2 ORDER BY year DESC LIMIT 1`

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, tier, season.StatusActive); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, classify(fmt.Errorf("select active season: %w", err))
	}

	return row.toDomain(), true, nil
}

func (r *SeasonRepository) GetLatestByTier(ctx context.Context, tier int) (season.Season, bool, error) {
	query := `SELECT year, tier, status FROM seasons
		WHERE tier = $1 ORDER BY year DESC LIMIT 1`

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, tier); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, classify(fmt.Errorf("select latest season: %w", err))
	}

	return row.toDomain(), true, nil
}

func (r *SeasonRepository) Get(ctx context.Context, tier, year int) (season.Season, bool, error) {
	query := "SELECT year, tier, status FROM seasons WHERE tier = $1 AND year = $2"

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, tier, year); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, classify(fmt.Errorf("select season: %w", err))
	}

	return row.toDomain(), true, nil
}

func (r *SeasonRepository) Create(ctx context.Context, s season.Season) error {
	const query = "INSERT INTO seasons (year, tier, status) VALUES ($1, $2, $3)"

	if _, err := r.db.ExecContext(ctx, query, s.Year, s.Tier, s.Status); err != nil {
		return classify(fmt.Errorf("insert season: %w", err))
	}
	return nil
}

func (r *SeasonRepository) SetStatus(ctx context.Context, tier, year int, status string) error {
	const query = "UPDATE seasons SET status = $1 WHERE tier = $2 AND year = $3"

	res, err := r.db.ExecContext(ctx, query, status, tier, year)
	if err != nil {
		return classify(fmt.Errorf("update season status: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("update season status rows affected: %w", err))
	}
	if affected == 0 {
		return fmt.Errorf("season tier=%d year=%d not found", tier, year)
	}
	return nil
}
