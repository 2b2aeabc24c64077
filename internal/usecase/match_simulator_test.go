package usecase

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewMatchSimulator_RejectsNilRand(t *testing.T) {
	t.Parallel()

	if _, err := NewMatchSimulator(DefaultSimulationParams(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewMatchSimulator_RejectsBadParams(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	cases := []struct {
		name   string
		mutate func(*SimulationParams)
	}{
		{name: "draw prob out of range", mutate: func(p *SimulationParams) { p.DrawProb = 1.2 }},
		{name: "inverted clamp", mutate: func(p *SimulationParams) { p.MinWinProb = 0.9; p.MaxWinProb = 0.1 }},
		{name: "probability budget over 1", mutate: func(p *SimulationParams) { p.MaxWinProb = 0.9; p.DrawProb = 0.3 }},
		{name: "zero winner goals", mutate: func(p *SimulationParams) { p.MaxWinnerGoals = 0 }},
	}
	for _, tc := range cases {
		params := DefaultSimulationParams()
		tc.mutate(&params)
		if _, err := NewMatchSimulator(params, rng); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestMatchSimulator_Simulate_GoalBounds(t *testing.T) {
	t.Parallel()

	params := DefaultSimulationParams()
	sim, err := NewMatchSimulator(params, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewMatchSimulator error: %v", err)
	}

	for i := 0; i < 5000; i++ {
		hg, ag := sim.Simulate(70, 55)
		if hg < 0 || ag < 0 {
			t.Fatalf("negative goals: %d-%d", hg, ag)
		}
		if hg == ag {
			if hg > params.MaxDrawGoals {
				t.Fatalf("draw score %d-%d exceeds draw bound %d", hg, ag, params.MaxDrawGoals)
			}
			continue
		}
		winner, loser := hg, ag
		if ag > hg {
			winner, loser = ag, hg
		}
		if winner < 1 || winner > params.MaxWinnerGoals {
			t.Fatalf("winning score %d out of [1, %d]", winner, params.MaxWinnerGoals)
		}
		if loser >= winner {
			t.Fatalf("loser score %d not below winner %d", loser, winner)
		}
	}
}

func TestMatchSimulator_Simulate_StrengthMatters(t *testing.T) {
	t.Parallel()

	sim, err := NewMatchSimulator(DefaultSimulationParams(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewMatchSimulator error: %v", err)
	}

	homeWins, awayWins := 0, 0
	for i := 0; i < 4000; i++ {
		hg, ag := sim.Simulate(90, 40)
		switch {
		case hg > ag:
			homeWins++
		case ag > hg:
			awayWins++
		}
	}
	if homeWins <= awayWins {
		t.Fatalf("much stronger home side won %d vs %d away wins", homeWins, awayWins)
	}
}

func TestMatchSimulator_Simulate_DeterministicPerSeed(t *testing.T) {
	t.Parallel()

	first, err := NewMatchSimulator(DefaultSimulationParams(), rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("NewMatchSimulator error: %v", err)
	}
	second, err := NewMatchSimulator(DefaultSimulationParams(), rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("NewMatchSimulator error: %v", err)
	}

	for i := 0; i < 200; i++ {
		h1, a1 := first.Simulate(64, 58)
		h2, a2 := second.Simulate(64, 58)
		if h1 != h2 || a1 != a2 {
			t.Fatalf("sample %d diverged: %d-%d vs %d-%d", i, h1, a1, h2, a2)
		}
	}
}
