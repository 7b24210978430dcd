package analysis

import (
	"testing"
)

func TestRankByScore(t *testing.T) {
	stats := map[string]*ChampionStats{
		"Ahri":  {LearningScore: fptr(4)},
		"Zed":   {LearningScore: fptr(-2)},
		"Gnar":  {LearningScore: fptr(4)},
		"Kayle": {}, // null score, insufficient bucket
	}
	thresholds := []*ThresholdResult{
		{ChampionName: "Ahri", Status: StatusCrosses, EstimatedGames: iptr(12),
			MasteryThreshold: fptr(8_400), StartingWinrate: fptr(0.47)},
	}

	entries := rankByScore(stats, thresholds, learningScoreOf)

	got := make([]string, len(entries))
	for i, e := range entries {
		got[i] = e.Champion
	}
	want := []string{"Ahri", "Gnar", "Zed"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if len(entries) != 3 {
		t.Fatalf("null-score champion must be excluded, got %d entries", len(entries))
	}

	ahri := entries[0]
	if ahri.GamesTo50Status != StatusCrosses {
		t.Errorf("status = %q", ahri.GamesTo50Status)
	}
	if ahri.ThresholdGames == nil || *ahri.ThresholdGames != 12 {
		t.Errorf("threshold games = %v", ahri.ThresholdGames)
	}
	if ahri.StartingWinrate == nil || *ahri.StartingWinrate != 0.47 {
		t.Errorf("starting winrate = %v", ahri.StartingWinrate)
	}
	if entries[1].GamesTo50Status != "" {
		t.Error("champions without a crossover row should carry no status")
	}
}

func TestSortThresholdResults(t *testing.T) {
	list := []*ThresholdResult{
		{ChampionName: "Slow", Status: StatusCrosses, EstimatedGames: iptr(40)},
		{ChampionName: "Never", Status: StatusNeverReaches},
		{ChampionName: "Thin", Status: StatusInsufficient},
		{ChampionName: "Fast", Status: StatusCrosses, EstimatedGames: iptr(5)},
		{ChampionName: "Beta", Status: StatusAlwaysAbove},
		{ChampionName: "Alpha", Status: StatusAlwaysAbove},
	}
	sortThresholdResults(list)

	want := []string{"Alpha", "Beta", "Fast", "Slow", "Never", "Thin"}
	for i, tr := range list {
		if tr.ChampionName != want[i] {
			t.Fatalf("position %d = %q, want %q", i, tr.ChampionName, want[i])
		}
	}
}

func TestSortSlopeIterations(t *testing.T) {
	easy, hard := PickupEasy, PickupHard
	list := []*SlopeIteration{
		{Champion: "NoTier"},
		{Champion: "Late", SlopeTier: &easy, InflectionGames: iptr(90)},
		{Champion: "Hard", SlopeTier: &hard, InflectionGames: iptr(10)},
		{Champion: "Early", SlopeTier: &easy, InflectionGames: iptr(20)},
		{Champion: "NoInflection", SlopeTier: &easy},
		{Champion: "Early", Lane: "TOP", SlopeTier: &easy, InflectionGames: iptr(20)},
	}
	sortSlopeIterations(list)

	type key struct{ champion, lane string }
	want := []key{
		{"Early", ""}, {"Early", "TOP"}, {"Late", ""}, {"NoInflection", ""},
		{"Hard", ""}, {"NoTier", ""},
	}
	for i, si := range list {
		if si.Champion != want[i].champion || si.Lane != want[i].lane {
			t.Fatalf("position %d = %q/%q, want %q/%q",
				i, si.Champion, si.Lane, want[i].champion, want[i].lane)
		}
	}
}
