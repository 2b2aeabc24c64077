package usecase

import "fmt"

// RandSource is the injected randomness behind match simulation.
// *math/rand.Rand satisfies it, so tests run against a fixed seed.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// SimulationParams gathers every probability and goal-count constant
// the simulator uses. Strengths are on the team 0..100 scale.
type SimulationParams struct {
	// HomeAdvantage is added to the home side's strength before the
	// strength difference is computed.
	HomeAdvantage float64
	// BaseHomeWinProb is the home win probability at equal adjusted
	// strengths; WinProbSlope shifts it per strength point of
	// difference, clamped into [MinWinProb, MaxWinProb].
	BaseHomeWinProb float64
	WinProbSlope    float64
	MinWinProb      float64
	MaxWinProb      float64
	// DrawProb is fixed; the away win probability is the remainder,
	// floored at MinAwayWinProb (the home win probability gives way).
	DrawProb       float64
	MinAwayWinProb float64
	// MaxWinnerGoals bounds a winning scoreline; MaxDrawGoals bounds
	// each side of a drawn one.
	MaxWinnerGoals int
	MaxDrawGoals   int
}

func DefaultSimulationParams() SimulationParams {
	return SimulationParams{
		HomeAdvantage:   6.0,
		BaseHomeWinProb: 0.42,
		WinProbSlope:    0.006,
		MinWinProb:      0.08,
		MaxWinProb:      0.80,
		DrawProb:        0.26,
		MinAwayWinProb:  0.05,
		MaxWinnerGoals:  4,
		MaxDrawGoals:    3,
	}
}

func (p SimulationParams) Validate() error {
	if p.BaseHomeWinProb <= 0 || p.BaseHomeWinProb >= 1 {
		return fmt.Errorf("base home win probability %.3f out of (0,1)", p.BaseHomeWinProb)
	}
	if p.MinWinProb <= 0 || p.MaxWinProb >= 1 || p.MinWinProb >= p.MaxWinProb {
		return fmt.Errorf("win probability clamp [%.3f, %.3f] is invalid", p.MinWinProb, p.MaxWinProb)
	}
	if p.DrawProb <= 0 || p.DrawProb >= 1 {
		return fmt.Errorf("draw probability %.3f out of (0,1)", p.DrawProb)
	}
	if p.MaxWinProb+p.DrawProb+p.MinAwayWinProb > 1 {
		return fmt.Errorf("probability budget exceeds 1: max_win=%.3f draw=%.3f min_away=%.3f",
			p.MaxWinProb, p.DrawProb, p.MinAwayWinProb)
	}
	if p.MaxWinnerGoals < 1 || p.MaxDrawGoals < 0 {
		return fmt.Errorf("goal bounds are invalid: winner=%d draw=%d", p.MaxWinnerGoals, p.MaxDrawGoals)
	}

	return nil
}

// MatchSimulator turns two strength ratings into a scoreline. It is
// deterministic up to the injected random source.
type MatchSimulator struct {
	params SimulationParams
	rng    RandSource
}

func NewMatchSimulator(params SimulationParams, rng RandSource) (*MatchSimulator, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidInput)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &MatchSimulator{params: params, rng: rng}, nil
}

// Simulate returns non-negative goal counts whose comparison always
// matches the sampled outcome classification.
func (m *MatchSimulator) Simulate(homeStrength, awayStrength float64) (homeGoals, awayGoals int) {
	pHome, pDraw := m.outcomeProbabilities(homeStrength, awayStrength)

	u := m.rng.Float64()
	switch {
	case u < pHome:
		return m.winningScore()
	case u < pHome+pDraw:
		g := m.rng.Intn(m.params.MaxDrawGoals + 1)
		return g, g
	default:
		winner, loser := m.winningScore()
		return loser, winner
	}
}

func (m *MatchSimulator) outcomeProbabilities(homeStrength, awayStrength float64) (pHome, pDraw float64) {
	diff := (homeStrength + m.params.HomeAdvantage) - awayStrength

	pHome = clamp(m.params.BaseHomeWinProb+m.params.WinProbSlope*diff, m.params.MinWinProb, m.params.MaxWinProb)
	pDraw = m.params.DrawProb
	if rest := 1 - pHome - pDraw; rest < m.params.MinAwayWinProb {
		pHome = 1 - pDraw - m.params.MinAwayWinProb
	}

	return pHome, pDraw
}

// winningScore samples a decisive scoreline: the winner scores at
// least one, the loser strictly fewer.
func (m *MatchSimulator) winningScore() (winner, loser int) {
	winner = 1 + m.rng.Intn(m.params.MaxWinnerGoals)
	loser = m.rng.Intn(winner)
	return winner, loser
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
