package analysis

import "math"

// ChampionStats is the per-champion bucket stat block: win rates, Wilson
// bounds, ratios against the medium bucket and the composite scores derived
// from them. Fields are nil when the backing bucket is insufficient; they
// are never coerced to zero.
type ChampionStats struct {
	LowWR    *float64 `json:"low_wr"`
	MediumWR *float64 `json:"medium_wr"`
	HighWR   *float64 `json:"high_wr"`

	LowGames    int `json:"low_games"`
	MediumGames int `json:"medium_games"`
	HighGames   int `json:"high_games"`

	LowInsufficient    bool `json:"low_insufficient"`
	MediumInsufficient bool `json:"medium_insufficient"`
	HighInsufficient   bool `json:"high_insufficient"`

	LowRatio  *float64 `json:"low_ratio"`
	HighRatio *float64 `json:"high_ratio"`
	LowDelta  *float64 `json:"low_delta"`
	Delta     *float64 `json:"delta"`

	LearningScore   *float64 `json:"learning_score"`
	MasteryScore    *float64 `json:"mastery_score"`
	InvestmentScore *float64 `json:"investment_score"`

	LearningTier *LearningTier `json:"learning_tier"`
	MasteryTier  *MasteryTier  `json:"mastery_tier"`

	MostCommonLane string `json:"most_common_lane,omitempty"`

	LowCILower    *float64 `json:"low_wr_ci_lower"`
	LowCIUpper    *float64 `json:"low_wr_ci_upper"`
	MediumCILower *float64 `json:"medium_wr_ci_lower"`
	MediumCIUpper *float64 `json:"medium_wr_ci_upper"`
	HighCILower   *float64 `json:"high_wr_ci_lower"`
	HighCIUpper   *float64 `json:"high_wr_ci_upper"`

	// Dynamic-bucket runs carry the threshold context that shaped the
	// per-champion boundaries. Empty on fixed-bucket stats.
	BiasStatus       ThresholdStatus  `json:"bias_status,omitempty"`
	MasteryThreshold *float64         `json:"mastery_threshold,omitempty"`
	EstimatedGames   *int             `json:"estimated_games,omitempty"`
	DifficultyLabel  *DifficultyLabel `json:"difficulty_label,omitempty"`
}

// bucketStats turns coarse bucket counts into the full stat block. A bucket
// below MinSample is marked insufficient, which nulls every value derived
// from it. A medium bucket with zero qualifying games is a degenerate
// denominator and is treated exactly like an insufficient one.
func (c Config) bucketStats(counts map[Bucket]Counts, lane string) *ChampionStats {
	low, medium, high := counts[BucketLow], counts[BucketMedium], counts[BucketHigh]

	stats := &ChampionStats{
		LowGames:           low.Games,
		MediumGames:        medium.Games,
		HighGames:          high.Games,
		LowInsufficient:    low.Games < c.MinSample,
		MediumInsufficient: medium.Games < c.MinSample,
		HighInsufficient:   high.Games < c.MinSample,
		MostCommonLane:     lane,
	}

	var lowWR, medWR, highWR *float64
	if !stats.LowInsufficient {
		lowWR = fptr(low.WinRate())
	}
	if !stats.MediumInsufficient {
		medWR = fptr(medium.WinRate())
	}
	if !stats.HighInsufficient {
		highWR = fptr(high.WinRate())
	}
	stats.LowWR, stats.MediumWR, stats.HighWR = lowWR, medWR, highWR

	stats.LowCILower, stats.LowCIUpper = c.wilsonBounds(low)
	stats.MediumCILower, stats.MediumCIUpper = c.wilsonBounds(medium)
	stats.HighCILower, stats.HighCIUpper = c.wilsonBounds(high)

	if lowWR != nil && medWR != nil && *medWR > 0 {
		stats.LowRatio = fptr(*lowWR / *medWR)
		stats.LowDelta = fptr((*lowWR - *medWR) * 100)
	}
	if highWR != nil && medWR != nil && *medWR > 0 {
		stats.HighRatio = fptr(*highWR / *medWR)
		stats.Delta = fptr((*highWR - *medWR) * 100)
	}

	if lowWR != nil && stats.LowRatio != nil {
		score := (*lowWR*100 - 50) + (*stats.LowRatio-1)*50
		tier := learningTierFor(score)
		stats.LearningScore = fptr(score)
		stats.LearningTier = &tier
	}
	if highWR != nil && stats.HighRatio != nil {
		score := (*highWR*100 - 50) + (*stats.HighRatio-1)*50
		tier := masteryTierFor(score)
		stats.MasteryScore = fptr(score)
		stats.MasteryTier = &tier
	}
	if stats.LearningScore != nil && stats.MasteryScore != nil {
		stats.InvestmentScore = fptr(*stats.LearningScore*0.4 + *stats.MasteryScore*0.6)
	}

	return stats
}

// fixedBucketStats computes the stat block for an aligned profile by merging
// fine interval counts, so the coarse counts provably equal the sum of the
// fine ones.
func (c Config) fixedBucketStats(ca *ChampionAggregate) *ChampionStats {
	counts := mergeFineCounts(ca.Fine, c.FineIntervals, c.Buckets)
	return c.bucketStats(counts, ca.PrimaryLane())
}

// broadBucketStats computes the parallel stat set for the broad profile.
// Its 30k boundary does not align with the fine intervals, so it buckets
// the raw records directly.
func (c Config) broadBucketStats(ca *ChampionAggregate) *ChampionStats {
	counts := rawBucketCounts(ca.Records, c.BroadBuckets)
	return c.bucketStats(counts, ca.PrimaryLane())
}

// dynamicBucketStats rebuilds the coarse buckets per champion from its
// threshold crossover result, then re-runs the same scoring against them.
// Champions with an insufficient threshold status get no dynamic stats.
func (c Config) dynamicBucketStats(ca *ChampionAggregate, tr *ThresholdResult) *ChampionStats {
	if tr == nil || tr.Status == StatusInsufficient {
		return nil
	}

	counts := map[Bucket]Counts{}
	for _, r := range ca.Records {
		b, ok := dynamicBucketFor(r.Mastery, tr, c.Buckets.MediumMax)
		if !ok {
			continue
		}
		cur := counts[b]
		cur.add(r.Win)
		counts[b] = cur
	}

	stats := c.bucketStats(counts, ca.PrimaryLane())
	stats.BiasStatus = tr.Status
	stats.MasteryThreshold = tr.MasteryThreshold
	stats.EstimatedGames = tr.EstimatedGames

	if label := difficultyLabelFor(tr); label != nil {
		stats.DifficultyLabel = label
	}
	return stats
}

// dynamicBucketFor places a single game under the per-champion boundaries.
//   - crosses:       low [0, threshold), medium [threshold, highMax), high [highMax, inf)
//   - always_above:  no low bucket; medium [0, highMax), high [highMax, inf)
//   - never_reaches: low [0, highMax), no medium; high [highMax, inf)
//
// The three ranges are contiguous and cover [0, inf) for every status.
func dynamicBucketFor(mastery int64, tr *ThresholdResult, highMax int64) (Bucket, bool) {
	switch tr.Status {
	case StatusAlwaysAbove:
		if mastery < highMax {
			return BucketMedium, true
		}
		return BucketHigh, true
	case StatusCrosses:
		if tr.MasteryThreshold == nil {
			return "", false
		}
		if float64(mastery) < *tr.MasteryThreshold {
			return BucketLow, true
		}
		if mastery < highMax {
			return BucketMedium, true
		}
		return BucketHigh, true
	case StatusNeverReaches:
		if mastery < highMax {
			return BucketLow, true
		}
		return BucketHigh, true
	default:
		return "", false
	}
}

// extremelyHardThreshold is the crossover point past which a champion is
// labeled as extremely hard to learn even though it does become viable.
const extremelyHardThreshold = 90_000

func difficultyLabelFor(tr *ThresholdResult) *DifficultyLabel {
	var label DifficultyLabel
	switch tr.Status {
	case StatusAlwaysAbove:
		label = DifficultyInstantlyViable
	case StatusNeverReaches:
		label = DifficultyNeverViable
	case StatusCrosses:
		if tr.MasteryThreshold != nil && *tr.MasteryThreshold >= extremelyHardThreshold {
			label = DifficultyExtremelyHard
		}
	}
	if label == "" {
		return nil
	}
	return &label
}

func iptr(v int) *int { return &v }

func roundToInt(v float64) int { return int(math.Round(v)) }
