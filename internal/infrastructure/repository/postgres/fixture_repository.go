package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tier-league/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, seasonYear, tier int) ([]fixture.Fixture, error) {
	query := `SELECT id, season_year, tier, round, leg, home_team_id, away_team_id, kickoff_at
		FROM fixtures WHERE season_year = $1 AND tier = $2 ORDER BY round, id`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonYear, tier); err != nil {
		return nil, classify(fmt.Errorf("select fixtures by season: %w", err))
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SaveAll writes a season's schedule in one transaction. An existing
// schedule is rejected unless force is set, in which case fixtures and
// their results are replaced together.
func (r *FixtureRepository) SaveAll(ctx context.Context, seasonYear, tier int, fixtures []fixture.Fixture, force bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin save fixtures: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.GetContext(ctx, &existing,
		"SELECT COUNT(*) FROM fixtures WHERE season_year = $1 AND tier = $2", seasonYear, tier); err != nil {
		return classify(fmt.Errorf("count existing fixtures: %w", err))
	}
	if existing > 0 {
		if !force {
			return fmt.Errorf("season=%d tier=%d: %w", seasonYear, tier, fixture.ErrFixturesExist)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM results WHERE fixture_id IN
				(SELECT id FROM fixtures WHERE season_year = $1 AND tier = $2)`, seasonYear, tier); err != nil {
			return classify(fmt.Errorf("delete results for forced regenerate: %w", err))
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM fixtures WHERE season_year = $1 AND tier = $2", seasonYear, tier); err != nil {
			return classify(fmt.Errorf("delete fixtures for forced regenerate: %w", err))
		}
	}

	const insert = `INSERT INTO fixtures
		(id, season_year, tier, round, leg, home_team_id, away_team_id, kickoff_at)
		VALUES (:id, :season_year, :tier, :round, :leg, :home_team_id, :away_team_id, :kickoff_at)`
	for _, fx := range fixtures {
		model := fixtureTableModel{
			ID:         fx.ID,
			SeasonYear: fx.SeasonYear,
			Tier:       fx.Tier,
			Round:      fx.Round,
			Leg:        string(fx.Leg),
			HomeTeamID: fx.HomeTeamID,
			AwayTeamID: fx.AwayTeamID,
			KickoffAt:  fx.KickoffAt,
		}
		if _, err := tx.NamedExecContext(ctx, insert, model); err != nil {
			return classify(fmt.Errorf("insert fixture %s: %w", fx.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit save fixtures: %w", err))
	}
	return nil
}

// SaveResult relies on the primary key to stay idempotent: a finished
// fixture keeps its first result and later writes report applied=false.
func (r *FixtureRepository) SaveResult(ctx context.Context, result fixture.Result) (bool, error) {
	const query = `INSERT INTO results (fixture_id, home_goals, away_goals, status, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fixture_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		result.FixtureID, result.HomeGoals, result.AwayGoals, result.Status, result.FinishedAt)
	if err != nil {
		return false, classify(fmt.Errorf("insert result: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, classify(fmt.Errorf("insert result rows affected: %w", err))
	}
	return affected > 0, nil
}

func (r *FixtureRepository) ListFinishedResults(ctx context.Context, seasonYear, tier int) ([]fixture.Result, error) {
	query := `SELECT res.fixture_id, res.home_goals, res.away_goals, res.status, res.finished_at
		FROM results res
		JOIN fixtures fx ON fx.id = res.fixture_id
		WHERE fx.season_year = $1 AND fx.tier = $2 AND res.status = $3
		ORDER BY fx.round, fx.id`

	var rows []resultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonYear, tier, fixture.StatusFinished); err != nil {
		return nil, classify(fmt.Errorf("select finished results: %w", err))
	}

	out := make([]fixture.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
