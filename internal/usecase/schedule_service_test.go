package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/tier-league/internal/domain/fixture"
	"github.com/riskibarqy/tier-league/internal/domain/team"
	"github.com/riskibarqy/tier-league/internal/platform/logging"
)

func tierTeams(tier, count int) []team.Team {
	out := make([]team.Team, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, team.Team{
			ID:       string(rune('a'+i)) + "-club",
			Name:     "Club " + string(rune('A'+i)),
			Tier:     tier,
			Kind:     team.KindMachine,
			Strength: 50,
		})
	}
	return out
}

func TestRoundCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		teams int
		want  int
	}{
		{teams: 0, want: 0},
		{teams: 1, want: 0},
		{teams: 2, want: 2},
		{teams: 4, want: 6},
		{teams: 5, want: 10},
		{teams: 6, want: 10},
		{teams: 20, want: 38},
	}
	for _, tc := range cases {
		if got := RoundCount(tc.teams); got != tc.want {
			t.Fatalf("RoundCount(%d) = %d, want %d", tc.teams, got, tc.want)
		}
	}
}

func TestBuildDoubleRoundRobin_EvenTeams(t *testing.T) {
	t.Parallel()

	teams := tierTeams(1, 4)
	fixtures := BuildDoubleRoundRobin(teams, 2026, 1, DefaultScheduleParams())

	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures for 4 teams, got %d", len(fixtures))
	}

	// Every ordered pair appears exactly once, so each pair meets
	// twice with venues swapped.
	ordered := make(map[string]int)
	perRound := make(map[int]map[string]int)
	maxRound := 0
	for _, fx := range fixtures {
		ordered[fx.HomeTeamID+">"+fx.AwayTeamID]++
		if fx.Round > maxRound {
			maxRound = fx.Round
		}
		if perRound[fx.Round] == nil {
			perRound[fx.Round] = make(map[string]int)
		}
		perRound[fx.Round][fx.HomeTeamID]++
		perRound[fx.Round][fx.AwayTeamID]++
	}
	if maxRound != RoundCount(len(teams)) {
		t.Fatalf("expected %d rounds, got %d", RoundCount(len(teams)), maxRound)
	}
	for pair, n := range ordered {
		if n != 1 {
			t.Fatalf("ordered pair %s appears %d times, want 1", pair, n)
		}
	}
	for round, appearances := range perRound {
		for id, n := range appearances {
			if n != 1 {
				t.Fatalf("team %s plays %d times in round %d", id, n, round)
			}
		}
		if len(appearances) != len(teams) {
			t.Fatalf("round %d covers %d teams, want %d", round, len(appearances), len(teams))
		}
	}
}

func TestBuildDoubleRoundRobin_OddTeamsGetByes(t *testing.T) {
	t.Parallel()

	teams := tierTeams(2, 5)
	fixtures := BuildDoubleRoundRobin(teams, 2026, 2, DefaultScheduleParams())

	// 2 * C(5,2) games over 10 rounds, two fixtures per round.
	if len(fixtures) != 20 {
		t.Fatalf("expected 20 fixtures for 5 teams, got %d", len(fixtures))
	}

	games := make(map[string]int)
	byeRounds := make(map[string]int)
	for round := 1; round <= RoundCount(len(teams)); round++ {
		playing := make(map[string]bool)
		for _, fx := range fixtures {
			if fx.Round != round {
				continue
			}
			playing[fx.HomeTeamID] = true
			playing[fx.AwayTeamID] = true
		}
		for _, tm := range teams {
			if playing[tm.ID] {
				games[tm.ID]++
			} else {
				byeRounds[tm.ID]++
			}
		}
	}
	for _, tm := range teams {
		if games[tm.ID] != 8 {
			t.Fatalf("team %s plays %d games, want 8", tm.ID, games[tm.ID])
		}
		if byeRounds[tm.ID] != 2 {
			t.Fatalf("team %s has %d bye rounds, want 2", tm.ID, byeRounds[tm.ID])
		}
	}
}

func TestBuildDoubleRoundRobin_Reproducible(t *testing.T) {
	t.Parallel()

	teams := tierTeams(3, 6)
	first := BuildDoubleRoundRobin(teams, 2026, 3, DefaultScheduleParams())
	second := BuildDoubleRoundRobin(teams, 2026, 3, DefaultScheduleParams())

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different schedules")
	}
}

func TestBuildDoubleRoundRobin_KickoffDates(t *testing.T) {
	t.Parallel()

	params := ScheduleParams{RoundInterval: 48 * time.Hour, StartDay: 3, StartMonth: time.March}
	fixtures := BuildDoubleRoundRobin(tierTeams(1, 4), 2026, 1, params)

	start := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	for _, fx := range fixtures {
		want := start.Add(time.Duration(fx.Round-1) * 48 * time.Hour)
		if !fx.KickoffAt.Equal(want) {
			t.Fatalf("fixture %s round %d kicks off at %v, want %v", fx.ID, fx.Round, fx.KickoffAt, want)
		}
	}
}

func TestBuildDoubleRoundRobin_FewerThanTwoTeams(t *testing.T) {
	t.Parallel()

	if got := BuildDoubleRoundRobin(nil, 2026, 1, DefaultScheduleParams()); got != nil {
		t.Fatalf("expected nil schedule for no teams, got %d fixtures", len(got))
	}
	if got := BuildDoubleRoundRobin(tierTeams(1, 1), 2026, 1, DefaultScheduleParams()); got != nil {
		t.Fatalf("expected nil schedule for one team, got %d fixtures", len(got))
	}
}

func TestScheduleService_GenerateSeason(t *testing.T) {
	t.Parallel()

	teamRepo := newStubTeamRepository(tierTeams(1, 4)...)
	fixtureRepo := newStubFixtureRepository()
	service := NewScheduleService(teamRepo, fixtureRepo, DefaultScheduleParams(), logging.NewNop())

	fixtures, err := service.GenerateSeason(context.Background(), 2026, 1, false)
	if err != nil {
		t.Fatalf("GenerateSeason error: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("expected 12 fixtures, got %d", len(fixtures))
	}

	saved, err := fixtureRepo.ListBySeason(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("ListBySeason error: %v", err)
	}
	if len(saved) != 12 {
		t.Fatalf("expected 12 saved fixtures, got %d", len(saved))
	}

	// A second generation without force must hit the store's guard.
	if _, err := service.GenerateSeason(context.Background(), 2026, 1, false); !errors.Is(err, fixture.ErrFixturesExist) {
		t.Fatalf("expected ErrFixturesExist, got %v", err)
	}
}

func TestScheduleService_GenerateSeason_InvalidInput(t *testing.T) {
	t.Parallel()

	service := NewScheduleService(newStubTeamRepository(), newStubFixtureRepository(), DefaultScheduleParams(), logging.NewNop())

	if _, err := service.GenerateSeason(context.Background(), 0, 1, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year 0, got %v", err)
	}
	if _, err := service.GenerateSeason(context.Background(), 2026, 9, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for tier 9, got %v", err)
	}
}

func TestScheduleService_GenerateSeason_TooFewTeams(t *testing.T) {
	t.Parallel()

	teamRepo := newStubTeamRepository(tierTeams(4, 1)...)
	fixtureRepo := newStubFixtureRepository()
	service := NewScheduleService(teamRepo, fixtureRepo, DefaultScheduleParams(), logging.NewNop())

	fixtures, err := service.GenerateSeason(context.Background(), 2026, 4, false)
	if err != nil {
		t.Fatalf("GenerateSeason error: %v", err)
	}
	if fixtures != nil {
		t.Fatalf("expected empty schedule, got %d fixtures", len(fixtures))
	}
	if fixtureRepo.saveAllCalls != 0 {
		t.Fatalf("expected no SaveAll call, got %d", fixtureRepo.saveAllCalls)
	}
}
