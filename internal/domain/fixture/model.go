package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

type Leg string

const (
	LegFirst  Leg = "first"
	LegSecond Leg = "second"
)

// Fixture is one scheduled pairing inside a tier's season. Fixtures are
// created once per season by the schedule generator and never mutated.
type Fixture struct {
	ID         string
	SeasonYear int
	Tier       int
	Round      int
	Leg        Leg
	HomeTeamID string
	AwayTeamID string
	KickoffAt  time.Time
}

// Result is the simulated outcome of a fixture. A fixture has at most
// one finished result; re-simulation of a finished fixture is rejected.
type Result struct {
	FixtureID  string
	HomeGoals  int
	AwayGoals  int
	Status     string
	FinishedAt time.Time
}

// Outcome classifies a finished result from the home side's view.
type Outcome int

const (
	OutcomeHomeWin Outcome = iota
	OutcomeDraw
	OutcomeAwayWin
)

func (r Result) Outcome() Outcome {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return OutcomeHomeWin
	case r.HomeGoals < r.AwayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

func (f Fixture) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if f.Round < 1 {
		return fmt.Errorf("fixture round must be >= 1")
	}
	if f.Leg != LegFirst && f.Leg != LegSecond {
		return fmt.Errorf("fixture leg %q is invalid", f.Leg)
	}
	if f.HomeTeamID == "" || f.AwayTeamID == "" {
		return fmt.Errorf("fixture team ids are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture cannot pair team %s with itself", f.HomeTeamID)
	}

	return nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}
