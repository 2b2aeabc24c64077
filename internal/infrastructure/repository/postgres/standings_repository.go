package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
)

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListBySeason(ctx context.Context, seasonYear, tier int) ([]standings.Row, error) {
	query := `SELECT season_year, tier, team_id, played, wins, draws, losses,
			goals_for, goals_against, points, position
		FROM standings WHERE season_year = $1 AND tier = $2 ORDER BY position`

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonYear, tier); err != nil {
		return nil, classify(fmt.Errorf("select standings by season: %w", err))
	}

	out := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *StandingsRepository) UpsertRow(ctx context.Context, row standings.Row) error {
	const query = `INSERT INTO standings
		(season_year, tier, team_id, played, wins, draws, losses, goals_for, goals_against, points, position)
		VALUES (:season_year, :tier, :team_id, :played, :wins, :draws, :losses, :goals_for, :goals_against, :points, :position)
		ON CONFLICT (season_year, tier, team_id) DO UPDATE SET
			played = EXCLUDED.played,
			wins = EXCLUDED.wins,
			draws = EXCLUDED.draws,
			losses = EXCLUDED.losses,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			points = EXCLUDED.points,
			position = EXCLUDED.position`

	model := standingsTableModel{
		SeasonYear:   row.SeasonYear,
		Tier:         row.Tier,
		TeamID:       row.TeamID,
		Played:       row.Played,
		Wins:         row.Wins,
		Draws:        row.Draws,
		Losses:       row.Losses,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Points:       row.Points,
		Position:     row.Position,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return classify(fmt.Errorf("upsert standings row: %w", err))
	}
	return nil
}
