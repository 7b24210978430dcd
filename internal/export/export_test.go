package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbonville/mastery-lab/internal/analysis"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func sampleRows() []ChampionRow {
	return []ChampionRow{
		{
			Champion:      "Ahri",
			Lane:          "MIDDLE",
			LowWR:         fptr(0.4512),
			LowGames:      250,
			MediumWR:      fptr(0.5),
			MediumGames:   750,
			LearningScore: fptr(-9.76),
			LearningTier:  "Moderate",
		},
		{
			Champion: "Aurelion Sol",
			// Every optional metric nil: the row renders with empty cells.
			LowGames: 12,
		},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, sampleRows(), false); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "champion,lane,low_wr,low_games") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Ahri,MIDDLE,0.4512,250,0.5000,750") {
		t.Errorf("row = %q", lines[1])
	}
	// Nil pointers must produce empty cells, not zeros.
	if !strings.HasPrefix(lines[2], "Aurelion Sol,,,12,,") {
		t.Errorf("sparse row = %q", lines[2])
	}
}

func TestExportCSVRejectsNonSlice(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, "not a slice", false); err == nil {
		t.Fatal("expected error for non-slice data")
	}
	if err := ExportToWriter(&buf, FormatCSV, []ChampionRow{}, false); err == nil {
		t.Fatal("expected error for empty slice")
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rows.json")
	exporter := NewExporter(Options{
		Format:     FormatJSON,
		FilePath:   path,
		PrettyJSON: true,
	})
	if err := exporter.Export(sampleRows()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []ChampionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Champion != "Ahri" {
		t.Errorf("round trip = %+v", rows)
	}

	// A second export without Overwrite must refuse to clobber the file.
	if err := exporter.Export(sampleRows()); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("emerald_plus", "easiest_to_learn", FormatCSV); got != "emerald_plus_easiest_to_learn.csv" {
		t.Errorf("filename = %q", got)
	}
	if got := Filename("diamond_plus", "champion_stats", FormatJSON); got != "diamond_plus_champion_stats.json" {
		t.Errorf("filename = %q", got)
	}
}

func TestChampionRowsSorted(t *testing.T) {
	tier := analysis.LearningModerate
	stats := map[string]*analysis.ChampionStats{
		"Zed":  {MostCommonLane: "MIDDLE"},
		"Ahri": {MostCommonLane: "MIDDLE", LearningScore: fptr(-8), LearningTier: &tier},
	}
	rows := ChampionRows(stats)
	if len(rows) != 2 || rows[0].Champion != "Ahri" || rows[1].Champion != "Zed" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].LearningTier != "Moderate" {
		t.Errorf("tier = %q", rows[0].LearningTier)
	}
	if rows[1].LearningTier != "" {
		t.Errorf("missing tier should render empty, got %q", rows[1].LearningTier)
	}
}

func TestRankingRows(t *testing.T) {
	tier := analysis.LearningLowRisk
	entries := []analysis.RankingEntry{
		{Champion: "Ahri", ChampionStats: &analysis.ChampionStats{
			LearningScore: fptr(-3), LearningTier: &tier, MostCommonLane: "MIDDLE",
		}},
		{Champion: "Zed", ChampionStats: &analysis.ChampionStats{
			LearningScore: fptr(-7),
		}},
	}
	rows := RankingRows(entries, func(s *analysis.ChampionStats) (*float64, string) {
		var t string
		if s.LearningTier != nil {
			t = string(*s.LearningTier)
		}
		return s.LearningScore, t
	})

	if rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", rows[0].Rank, rows[1].Rank)
	}
	if rows[0].Tier != "Low Risk" || *rows[0].Score != -3 {
		t.Errorf("first row = %+v", rows[0])
	}
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	res := &analysis.Result{
		Filter: "emerald_plus",
		ChampionStats: map[string]*analysis.ChampionStats{
			"Ahri": {MostCommonLane: "MIDDLE", LowGames: 250},
		},
		EasiestToLearn: []analysis.RankingEntry{
			{Champion: "Ahri", ChampionStats: &analysis.ChampionStats{LearningScore: fptr(-2)}},
		},
		BestToMaster: []analysis.RankingEntry{
			{Champion: "Ahri", ChampionStats: &analysis.ChampionStats{MasteryScore: fptr(6)}},
		},
		BestInvestment: []analysis.RankingEntry{
			{Champion: "Ahri", ChampionStats: &analysis.ChampionStats{InvestmentScore: fptr(2.8)}},
		},
		GamesTo50Winrate: []*analysis.ThresholdResult{
			{ChampionName: "Ahri", Status: analysis.StatusCrosses,
				MasteryThreshold: fptr(11_250), EstimatedGames: iptr(16)},
		},
		SlopeIterations: []*analysis.SlopeIteration{
			{Champion: "Ahri", MostCommonLane: "MIDDLE", ValidIntervals: 5},
		},
	}

	if err := WriteReports(res, dir, FormatCSV); err != nil {
		t.Fatal(err)
	}

	for _, table := range []string{
		"champion_stats", "easiest_to_learn", "best_to_master",
		"best_investment", "games_to_50_winrate", "slope_iterations",
	} {
		path := filepath.Join(dir, Filename("emerald_plus", table, FormatCSV))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing table %s: %v", table, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "emerald_plus_games_to_50_winrate.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Ahri,crosses,11250.0000,16") {
		t.Errorf("threshold table = %q", data)
	}
}
