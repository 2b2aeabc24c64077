package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/standings"
	"github.com/riskibarqy/tier-league/internal/domain/team"
)

type teamTableModel struct {
	ID       string  `db:"id"`
	Name     string  `db:"name"`
	Tier     int     `db:"tier"`
	Kind     string  `db:"kind"`
	Strength float64 `db:"strength"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:       m.ID,
		Name:     m.Name,
		Tier:     m.Tier,
		Kind:     team.Kind(m.Kind),
		Strength: m.Strength,
	}
}

type fixtureTableModel struct {
	ID         string    `db:"id"`
	SeasonYear int       `db:"season_year"`
	Tier       int       `db:"tier"`
	Round      int       `db:"round"`
	Leg        string    `db:"leg"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.ID,
		SeasonYear: m.SeasonYear,
		Tier:       m.Tier,
		Round:      m.Round,
		Leg:        fixture.Leg(m.Leg),
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
	}
}

type resultTableModel struct {
	FixtureID  string       `db:"fixture_id"`
	HomeGoals  int          `db:"home_goals"`
	AwayGoals  int          `db:"away_goals"`
	Status     string       `db:"status"`
	FinishedAt sql.NullTime `db:"finished_at"`
}

func (m resultTableModel) toDomain() fixture.Result {
	res := fixture.Result{
		FixtureID: m.FixtureID,
		HomeGoals: m.HomeGoals,
		AwayGoals: m.AwayGoals,
		Status:    m.Status,
	}
	if m.FinishedAt.Valid {
		res.FinishedAt = m.FinishedAt.Time
	}
	return res
}

type standingsTableModel struct {
	SeasonYear   int    `db:"season_year"`
	Tier         int    `db:"tier"`
	TeamID       string `db:"team_id"`
	Played       int    `db:"played"`
	Wins         int    `db:"wins"`
	Draws        int    `db:"draws"`
	Losses       int    `db:"losses"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
	Points       int    `db:"points"`
	Position     int    `db:"position"`
}

func (m standingsTableModel) toDomain() standings.Row {
	return standings.Row{
		SeasonYear:   m.SeasonYear,
		Tier:         m.Tier,
		TeamID:       m.TeamID,
		Played:       m.Played,
		Wins:         m.Wins,
		Draws:        m.Draws,
		Losses:       m.Losses,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		Points:       m.Points,
		Position:     m.Position,
	}
}

type seasonTableModel struct {
	Year   int    `db:"year"`
	Tier   int    `db:"tier"`
	Status string `db:"status"`
}

func (m seasonTableModel) toDomain() season.Season {
	return season.Season{Year: m.Year, Tier: m.Tier, Status: m.Status}
}
