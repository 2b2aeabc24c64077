package team

import "fmt"

type Kind string

const (
	KindUser    Kind = "user"
	KindMachine Kind = "machine"
)

const (
	TopTier    = 1
	BottomTier = 4

	MinStrength = 0
	MaxStrength = 100
)

// Team is one club competing in a tier. Tier is the only field that
// changes during a team's lifetime, and only at season rollover.
type Team struct {
	ID       string
	Name     string
	Tier     int
	Kind     Kind
	Strength float64
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Tier < TopTier || t.Tier > BottomTier {
		return fmt.Errorf("team tier %d out of range %d..%d", t.Tier, TopTier, BottomTier)
	}
	if t.Kind != KindUser && t.Kind != KindMachine {
		return fmt.Errorf("team kind %q is invalid", t.Kind)
	}
	if t.Strength < MinStrength || t.Strength > MaxStrength {
		return fmt.Errorf("team strength %.1f out of range %d..%d", t.Strength, MinStrength, MaxStrength)
	}

	return nil
}
