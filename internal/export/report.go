package export

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/tbonville/mastery-lab/internal/analysis"
)

// ChampionRow is one champion's bucket table line.
type ChampionRow struct {
	Champion        string   `csv:"champion"`
	Lane            string   `csv:"lane"`
	LowWR           *float64 `csv:"low_wr"`
	LowGames        int      `csv:"low_games"`
	MediumWR        *float64 `csv:"medium_wr"`
	MediumGames     int      `csv:"medium_games"`
	HighWR          *float64 `csv:"high_wr"`
	HighGames       int      `csv:"high_games"`
	LowRatio        *float64 `csv:"low_ratio"`
	HighRatio       *float64 `csv:"high_ratio"`
	Delta           *float64 `csv:"delta"`
	LearningScore   *float64 `csv:"learning_score"`
	MasteryScore    *float64 `csv:"mastery_score"`
	InvestmentScore *float64 `csv:"investment_score"`
	LearningTier    string   `csv:"learning_tier"`
	MasteryTier     string   `csv:"mastery_tier"`
}

// RankingRow is one line of a ranked table (easiest to learn, best to
// master, best investment).
type RankingRow struct {
	Rank           int      `csv:"rank"`
	Champion       string   `csv:"champion"`
	Score          *float64 `csv:"score"`
	Tier           string   `csv:"tier"`
	LowWR          *float64 `csv:"low_wr"`
	HighWR         *float64 `csv:"high_wr"`
	LowGames       int      `csv:"low_games"`
	HighGames      int      `csv:"high_games"`
	MostCommonLane string   `csv:"most_common_lane"`
}

// ThresholdRow is one line of the games-to-threshold table.
type ThresholdRow struct {
	Rank             int      `csv:"rank"`
	Champion         string   `csv:"champion"`
	Status           string   `csv:"status"`
	MasteryThreshold *float64 `csv:"mastery_threshold"`
	EstimatedGames   *int     `csv:"estimated_games"`
	StartingWinrate  *float64 `csv:"starting_winrate"`
}

// SlopeRow is one line of the learning-curve table.
type SlopeRow struct {
	Champion          string   `csv:"champion"`
	Lane              string   `csv:"lane"`
	InitialWR         *float64 `csv:"initial_wr"`
	PeakWR            *float64 `csv:"peak_wr"`
	TotalSlope        *float64 `csv:"total_slope"`
	EarlySlope        *float64 `csv:"early_slope"`
	EarlySlopeCI      *float64 `csv:"early_slope_ci"`
	LateSlope         *float64 `csv:"late_slope"`
	InflectionMastery *int64   `csv:"inflection_mastery"`
	InflectionGames   *int     `csv:"inflection_games"`
	SlopeTier         string   `csv:"slope_tier"`
	GrowthType        string   `csv:"growth_type"`
	TierUncertain     bool     `csv:"tier_uncertain"`
	ValidIntervals    int      `csv:"valid_intervals"`
}

// ChampionRows flattens the per-champion stats into table lines sorted by
// champion name.
func ChampionRows(stats map[string]*analysis.ChampionStats) []ChampionRow {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]ChampionRow, 0, len(names))
	for _, name := range names {
		s := stats[name]
		rows = append(rows, ChampionRow{
			Champion:        name,
			Lane:            s.MostCommonLane,
			LowWR:           s.LowWR,
			LowGames:        s.LowGames,
			MediumWR:        s.MediumWR,
			MediumGames:     s.MediumGames,
			HighWR:          s.HighWR,
			HighGames:       s.HighGames,
			LowRatio:        s.LowRatio,
			HighRatio:       s.HighRatio,
			Delta:           s.Delta,
			LearningScore:   s.LearningScore,
			MasteryScore:    s.MasteryScore,
			InvestmentScore: s.InvestmentScore,
			LearningTier:    tierString(s.LearningTier),
			MasteryTier:     tierString(s.MasteryTier),
		})
	}
	return rows
}

// RankingRows converts a ranking into table lines. scoreTier picks which
// score and tier column the table shows.
func RankingRows(entries []analysis.RankingEntry, scoreOf func(*analysis.ChampionStats) (*float64, string)) []RankingRow {
	rows := make([]RankingRow, 0, len(entries))
	for i, e := range entries {
		score, tier := scoreOf(e.ChampionStats)
		rows = append(rows, RankingRow{
			Rank:           i + 1,
			Champion:       e.Champion,
			Score:          score,
			Tier:           tier,
			LowWR:          e.LowWR,
			HighWR:         e.HighWR,
			LowGames:       e.LowGames,
			HighGames:      e.HighGames,
			MostCommonLane: e.MostCommonLane,
		})
	}
	return rows
}

// ThresholdRows converts threshold results into table lines.
func ThresholdRows(results []*analysis.ThresholdResult) []ThresholdRow {
	rows := make([]ThresholdRow, 0, len(results))
	for i, t := range results {
		rows = append(rows, ThresholdRow{
			Rank:             i + 1,
			Champion:         t.ChampionName,
			Status:           string(t.Status),
			MasteryThreshold: t.MasteryThreshold,
			EstimatedGames:   t.EstimatedGames,
			StartingWinrate:  t.StartingWinrate,
		})
	}
	return rows
}

// SlopeRows converts slope iterations into table lines.
func SlopeRows(iterations []*analysis.SlopeIteration) []SlopeRow {
	rows := make([]SlopeRow, 0, len(iterations))
	for _, s := range iterations {
		lane := s.Lane
		if lane == "" {
			lane = s.MostCommonLane
		}
		rows = append(rows, SlopeRow{
			Champion:          s.Champion,
			Lane:              lane,
			InitialWR:         s.InitialWR,
			PeakWR:            s.PeakWR,
			TotalSlope:        s.TotalSlope,
			EarlySlope:        s.EarlySlope,
			EarlySlopeCI:      s.EarlySlopeCI,
			LateSlope:         s.LateSlope,
			InflectionMastery: s.InflectionMastery,
			InflectionGames:   s.InflectionGames,
			SlopeTier:         tierString(s.SlopeTier),
			GrowthType:        tierString(s.GrowthType),
			TierUncertain:     s.TierUncertain,
			ValidIntervals:    s.ValidIntervals,
		})
	}
	return rows
}

// tierString renders an optional tier enum, empty when unassigned.
func tierString[T ~string](t *T) string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// WriteReports writes every table of one analysis result into dir.
func WriteReports(result *analysis.Result, dir string, format Format) error {
	learning := func(s *analysis.ChampionStats) (*float64, string) {
		return s.LearningScore, tierString(s.LearningTier)
	}
	mastery := func(s *analysis.ChampionStats) (*float64, string) {
		return s.MasteryScore, tierString(s.MasteryTier)
	}
	investment := func(s *analysis.ChampionStats) (*float64, string) {
		return s.InvestmentScore, ""
	}

	tables := []struct {
		name string
		data interface{}
	}{
		{"champion_stats", ChampionRows(result.ChampionStats)},
		{"easiest_to_learn", RankingRows(result.EasiestToLearn, learning)},
		{"best_to_master", RankingRows(result.BestToMaster, mastery)},
		{"best_investment", RankingRows(result.BestInvestment, investment)},
		{"games_to_50_winrate", ThresholdRows(result.GamesTo50Winrate)},
		{"slope_iterations", SlopeRows(result.SlopeIterations)},
	}

	for _, table := range tables {
		path := filepath.Join(dir, Filename(result.Filter, table.name, format))
		exporter := NewExporter(Options{
			Format:    format,
			FilePath:  path,
			Overwrite: true,
		})
		if err := exporter.Export(table.data); err != nil {
			return fmt.Errorf("export %s: %w", table.name, err)
		}
	}
	return nil
}
