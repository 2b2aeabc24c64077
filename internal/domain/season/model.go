package season

import "fmt"

const (
	StatusActive   = "ACTIVE"
	StatusFinished = "FINISHED"
)

// Season is one tier's competition year. Exactly one season per tier is
// ACTIVE at a time; FINISHED is terminal and triggers the transition.
type Season struct {
	Year   int
	Tier   int
	Status string
}

func (s Season) Validate() error {
	if s.Year <= 0 {
		return fmt.Errorf("season year must be positive")
	}
	if s.Status != StatusActive && s.Status != StatusFinished {
		return fmt.Errorf("season status %q is invalid", s.Status)
	}

	return nil
}
