package standings

import "fmt"

// Row is one team's aggregated record inside a tier's season table.
type Row struct {
	SeasonYear   int
	Tier         int
	TeamID       string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Points       int
	Position     int
}

func (r Row) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Validate checks the arithmetic invariants that hold for any row
// produced by result aggregation.
func (r Row) Validate() error {
	if r.TeamID == "" {
		return fmt.Errorf("standings row team id is required")
	}
	if r.Played != r.Wins+r.Draws+r.Losses {
		return fmt.Errorf("standings row played=%d does not match w+d+l=%d", r.Played, r.Wins+r.Draws+r.Losses)
	}
	if r.Points != 3*r.Wins+r.Draws {
		return fmt.Errorf("standings row points=%d does not match 3w+d=%d", r.Points, 3*r.Wins+r.Draws)
	}
	if r.GoalsFor < 0 || r.GoalsAgainst < 0 {
		return fmt.Errorf("standings row goal counts cannot be negative")
	}

	return nil
}

// Less reports whether a ranks strictly above b: points desc, goal
// difference desc, goals for desc, then team id asc so the order is a
// total order even for identical records.
func Less(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference() != b.GoalDifference() {
		return a.GoalDifference() > b.GoalDifference()
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamID < b.TeamID
}
