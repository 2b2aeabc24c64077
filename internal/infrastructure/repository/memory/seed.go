package memory

import (
	"github.com/riskibarqy/tier-league/internal/domain/season"
	"github.com/riskibarqy/tier-league/internal/domain/team"
)

const SeedSeasonYear = 2026

// SeedTeams is a small four-tier league for local runs and tests. Six
// teams per tier, two of them user controlled.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "t1-persija", Name: "Persija Jakarta", Tier: 1, Kind: team.KindUser, Strength: 86},
		{ID: "t1-persib", Name: "Persib Bandung", Tier: 1, Kind: team.KindUser, Strength: 84},
		{ID: "t1-arema", Name: "Arema", Tier: 1, Kind: team.KindMachine, Strength: 80},
		{ID: "t1-baliutd", Name: "Bali United", Tier: 1, Kind: team.KindMachine, Strength: 78},
		{ID: "t1-psm", Name: "PSM Makassar", Tier: 1, Kind: team.KindMachine, Strength: 76},
		{ID: "t1-borneo", Name: "Borneo", Tier: 1, Kind: team.KindMachine, Strength: 74},

		{ID: "t2-persebaya", Name: "Persebaya Surabaya", Tier: 2, Kind: team.KindUser, Strength: 70},
		{ID: "t2-psis", Name: "PSIS Semarang", Tier: 2, Kind: team.KindUser, Strength: 68},
		{ID: "t2-persita", Name: "Persita Tangerang", Tier: 2, Kind: team.KindMachine, Strength: 66},
		{ID: "t2-persik", Name: "Persik Kediri", Tier: 2, Kind: team.KindMachine, Strength: 64},
		{ID: "t2-madura", Name: "Madura United", Tier: 2, Kind: team.KindMachine, Strength: 62},
		{ID: "t2-dewa", Name: "Dewa United", Tier: 2, Kind: team.KindMachine, Strength: 60},

		{ID: "t3-persis", Name: "Persis Solo", Tier: 3, Kind: team.KindUser, Strength: 56},
		{ID: "t3-psim", Name: "PSIM Yogyakarta", Tier: 3, Kind: team.KindUser, Strength: 54},
		{ID: "t3-sriwijaya", Name: "Sriwijaya", Tier: 3, Kind: team.KindMachine, Strength: 52},
		{ID: "t3-persiraja", Name: "Persiraja Banda Aceh", Tier: 3, Kind: team.KindMachine, Strength: 50},
		{ID: "t3-semen", Name: "Semen Padang", Tier: 3, Kind: team.KindMachine, Strength: 48},
		{ID: "t3-kalteng", Name: "Kalteng Putra", Tier: 3, Kind: team.KindMachine, Strength: 46},

		{ID: "t4-persipura", Name: "Persipura Jayapura", Tier: 4, Kind: team.KindUser, Strength: 42},
		{ID: "t4-psps", Name: "PSPS Pekanbaru", Tier: 4, Kind: team.KindUser, Strength: 40},
		{ID: "t4-persiba", Name: "Persiba Balikpapan", Tier: 4, Kind: team.KindMachine, Strength: 38},
		{ID: "t4-mitra", Name: "Mitra Kukar", Tier: 4, Kind: team.KindMachine, Strength: 36},
		{ID: "t4-persewar", Name: "Persewar Waropen", Tier: 4, Kind: team.KindMachine, Strength: 34},
		{ID: "t4-cilegon", Name: "Cilegon United", Tier: 4, Kind: team.KindMachine, Strength: 32},
	}
}

func SeedSeasons() []season.Season {
	return []season.Season{
		{Year: SeedSeasonYear, Tier: 1, Status: season.StatusActive},
		{Year: SeedSeasonYear, Tier: 2, Status: season.StatusActive},
		{Year: SeedSeasonYear, Tier: 3, Status: season.StatusActive},
		{Year: SeedSeasonYear, Tier: 4, Status: season.StatusActive},
	}
}
