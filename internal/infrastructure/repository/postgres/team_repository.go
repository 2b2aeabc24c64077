package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tier-league/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const selectTeamColumns = "id, name, tier, kind, strength"

func (r *TeamRepository) ListByTier(ctx context.Context, tier int) ([]team.Team, error) {
	query := "SELECT " + selectTeamColumns + " FROM teams WHERE tier = $1 ORDER BY id"

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tier); err != nil {
		return nil, classify(fmt.Errorf("select teams by tier: %w", err))
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) ListByTierAndKind(ctx context.Context, tier int, kind team.Kind) ([]team.Team, error) {
	query := "SELECT " + selectTeamColumns + " FROM teams WHERE tier = $1 AND kind = $2 ORDER BY id"

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tier, string(kind)); err != nil {
		return nil, classify(fmt.Errorf("select teams by tier and kind: %w", err))
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query := "SELECT " + selectTeamColumns + " FROM teams WHERE id = $1"

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, classify(fmt.Errorf("select team by id: %w", err))
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) SetTier(ctx context.Context, teamID string, newTier int) error {
	query := "UPDATE teams SET tier = $1, updated_at = NOW() WHERE id = $2"

	res, err := r.db.ExecContext(ctx, query, newTier, teamID)
	if err != nil {
		return classify(fmt.Errorf("update team tier: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("update team tier rows affected: %w", err))
	}
	if affected == 0 {
		return fmt.Errorf("team %s not found", teamID)
	}
	return nil
}

// MoveTiers writes a batch of tier moves in one transaction so a
// transition either lands completely or not at all.
func (r *TeamRepository) MoveTiers(ctx context.Context, moves []team.TierMove) error {
	if len(moves) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin move tiers: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	const update = "UPDATE teams SET tier = $1, updated_at = NOW() WHERE id = $2"
	for _, mv := range moves {
		res, err := tx.ExecContext(ctx, update, mv.NewTier, mv.TeamID)
		if err != nil {
			return classify(fmt.Errorf("move team %s to tier %d: %w", mv.TeamID, mv.NewTier, err))
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return classify(fmt.Errorf("move team %s rows affected: %w", mv.TeamID, err))
		}
		if affected == 0 {
			return fmt.Errorf("team %s not found", mv.TeamID)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit move tiers: %w", err))
	}
	return nil
}
