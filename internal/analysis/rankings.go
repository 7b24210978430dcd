package analysis

import (
	"math"
	"sort"
)

// RankingEntry is one row of a pre-sorted ranking. It carries the full stat
// block plus, for learnability rankings, the crossover context.
type RankingEntry struct {
	Champion string `json:"champion"`
	*ChampionStats

	GamesTo50Status  ThresholdStatus `json:"games_to_50_status,omitempty"`
	ThresholdGames   *int            `json:"threshold_games,omitempty"`
	ThresholdMastery *float64        `json:"threshold_mastery,omitempty"`
	StartingWinrate  *float64        `json:"starting_winrate,omitempty"`
}

func learningScoreOf(s *ChampionStats) *float64   { return s.LearningScore }
func masteryScoreOf(s *ChampionStats) *float64    { return s.MasteryScore }
func investmentScoreOf(s *ChampionStats) *float64 { return s.InvestmentScore }

// rankByScore sorts champions by the given score descending, ties broken by
// champion name ascending. Champions whose score is null (insufficient
// backing bucket) are excluded from the ranking, not ranked at zero.
func rankByScore(stats map[string]*ChampionStats, thresholds []*ThresholdResult, scoreOf func(*ChampionStats) *float64) []RankingEntry {
	byName := map[string]*ThresholdResult{}
	for _, tr := range thresholds {
		byName[tr.ChampionName] = tr
	}

	entries := make([]RankingEntry, 0, len(stats))
	for name, s := range stats {
		if scoreOf(s) == nil {
			continue
		}
		entry := RankingEntry{Champion: name, ChampionStats: s}
		if tr := byName[name]; tr != nil {
			entry.GamesTo50Status = tr.Status
			entry.ThresholdGames = tr.EstimatedGames
			entry.ThresholdMastery = tr.MasteryThreshold
			entry.StartingWinrate = tr.StartingWinrate
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		si, sj := *scoreOf(entries[i].ChampionStats), *scoreOf(entries[j].ChampionStats)
		if si != sj {
			return si > sj
		}
		return entries[i].Champion < entries[j].Champion
	})
	return entries
}

// thresholdStatusOrder groups crossover results for display: instantly
// viable champions first, then crossers by estimated games, then the rest.
func thresholdStatusOrder(s ThresholdStatus) int {
	switch s {
	case StatusAlwaysAbove:
		return 0
	case StatusCrosses:
		return 1
	case StatusNeverReaches:
		return 2
	default:
		return 3
	}
}

func sortThresholdResults(list []*ThresholdResult) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if oa, ob := thresholdStatusOrder(a.Status), thresholdStatusOrder(b.Status); oa != ob {
			return oa < ob
		}
		ga, gb := 0, 0
		if a.Status == StatusCrosses && a.EstimatedGames != nil {
			ga = *a.EstimatedGames
		}
		if b.Status == StatusCrosses && b.EstimatedGames != nil {
			gb = *b.EstimatedGames
		}
		if ga != gb {
			return ga < gb
		}
		return a.ChampionName < b.ChampionName
	})
}

// pickupTierOrder sorts slope results flattest-first.
func pickupTierOrder(t *PickupTier) int {
	if t == nil {
		return 4
	}
	switch *t {
	case PickupEasy:
		return 0
	case PickupMild:
		return 1
	case PickupHard:
		return 2
	case PickupVeryHard:
		return 3
	}
	return 4
}

func sortSlopeIterations(list []*SlopeIteration) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if oa, ob := pickupTierOrder(a.SlopeTier), pickupTierOrder(b.SlopeTier); oa != ob {
			return oa < ob
		}
		ga, gb := math.Inf(1), math.Inf(1)
		if a.InflectionGames != nil {
			ga = float64(*a.InflectionGames)
		}
		if b.InflectionGames != nil {
			gb = float64(*b.InflectionGames)
		}
		if ga != gb {
			return ga < gb
		}
		if a.Champion != b.Champion {
			return a.Champion < b.Champion
		}
		return a.Lane < b.Lane
	})
}
