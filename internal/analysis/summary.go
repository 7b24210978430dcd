package analysis

import (
	"log/slog"
	"sort"
)

// Summary is the partition-level verification block.
type Summary struct {
	TotalMatches         int            `json:"total_matches"`
	TotalParticipants    int            `json:"total_participants"`
	TotalUniquePlayers   int            `json:"total_unique_players"`
	TotalUniqueChampions int            `json:"total_unique_champions"`
	OverallWinRate       float64        `json:"overall_win_rate"`
	RegionBalance        map[string]int `json:"region_balance"`
}

func buildSummary(agg *Aggregate) Summary {
	s := Summary{
		TotalMatches:         len(agg.Matches),
		TotalParticipants:    agg.TotalObs,
		TotalUniquePlayers:   len(agg.Players),
		TotalUniqueChampions: len(agg.Champions),
		RegionBalance:        agg.Regions,
	}
	if agg.TotalObs > 0 {
		s.OverallWinRate = float64(agg.TotalWins) / float64(agg.TotalObs)
	}
	return s
}

// verifySummary logs sanity warnings on the snapshot. The thresholds mirror
// what a healthy ranked crawl should look like: the overall win rate must
// hover around 50% and no region should dominate the sample.
func verifySummary(log *slog.Logger, s Summary) {
	if s.OverallWinRate < 0.49 || s.OverallWinRate > 0.51 {
		log.Warn("overall win rate outside expected 49-51% band",
			"win_rate", s.OverallWinRate)
	}
	if s.TotalMatches > 0 {
		for region, count := range s.RegionBalance {
			share := float64(count) / float64(s.TotalParticipants)
			if share > 0.45 || share < 0.22 {
				log.Warn("region share outside expected 22-45% band",
					"region", region, "share", share)
			}
		}
	}
}

// Distribution describes how mastery points are spread across the snapshot.
type Distribution struct {
	Count             int                       `json:"count"`
	Mean              float64                   `json:"mean"`
	Median            int64                     `json:"median"`
	P25               int64                     `json:"p25"`
	P75               int64                     `json:"p75"`
	P90               int64                     `json:"p90"`
	P95               int64                     `json:"p95"`
	P99               int64                     `json:"p99"`
	BucketCounts      map[Bucket]int            `json:"bucket_counts"`
	BucketPercentages map[Bucket]float64        `json:"bucket_percentages"`
	ByLane            map[string]map[Bucket]int `json:"by_lane"`
}

func (c Config) buildDistribution(agg *Aggregate) *Distribution {
	values := agg.MasteryValues
	if len(values) == 0 {
		return nil
	}
	n := len(values)

	percentile := func(pct int) int64 {
		idx := n * pct / 100
		if idx >= n {
			idx = n - 1
		}
		return values[idx]
	}

	var sum float64
	buckets := map[Bucket]int{}
	for _, v := range values {
		sum += float64(v)
		buckets[c.Buckets.BucketFor(v)]++
	}
	percentages := map[Bucket]float64{}
	for b, count := range buckets {
		percentages[b] = float64(count) / float64(n) * 100
	}

	return &Distribution{
		Count:             n,
		Mean:              sum / float64(n),
		Median:            values[n/2],
		P25:               percentile(25),
		P75:               percentile(75),
		P90:               percentile(90),
		P95:               percentile(95),
		P99:               percentile(99),
		BucketCounts:      buckets,
		BucketPercentages: percentages,
		ByLane:            agg.LaneBucketCounts,
	}
}

// BucketAggregate is the overall (all champions pooled) win rate for one
// coarse bucket.
type BucketAggregate struct {
	WinRate float64 `json:"win_rate"`
	Games   int     `json:"games"`
}

func (c Config) overallWinrateByBucket(agg *Aggregate) map[Bucket]BucketAggregate {
	merged := mergeFineCounts(agg.OverallFine, c.FineIntervals, c.Buckets)
	out := map[Bucket]BucketAggregate{}
	for b, counts := range merged {
		if counts.Games == 0 {
			continue
		}
		out[b] = BucketAggregate{WinRate: counts.WinRate(), Games: counts.Games}
	}
	return out
}

// CurvePoint is one interval of the pooled win-rate curve.
type CurvePoint struct {
	Interval string  `json:"interval"`
	Min      int64   `json:"min"`
	Max      *int64  `json:"max"`
	WinRate  float64 `json:"win_rate"`
	Games    int     `json:"games"`
}

func (c Config) overallWinrateCurve(agg *Aggregate) []CurvePoint {
	var out []CurvePoint
	for i, counts := range agg.OverallFine {
		if counts.Games == 0 {
			continue
		}
		iv := c.FineIntervals[i]
		var max *int64
		if iv.Max != Unbounded {
			m := iv.Max
			max = &m
		}
		out = append(out, CurvePoint{
			Interval: iv.Label,
			Min:      iv.Min,
			Max:      max,
			WinRate:  counts.WinRate(),
			Games:    counts.Games,
		})
	}
	return out
}

// laneDisplayNames maps API lane tokens to UI labels.
var laneDisplayNames = map[string]string{
	"TOP":     "Top",
	"JUNGLE":  "Jungle",
	"MIDDLE":  "Middle",
	"BOTTOM":  "ADC",
	"UTILITY": "Support",
}

// LaneImpact averages bucket win rates and ratios across the champions
// whose primary lane matches.
type LaneImpact struct {
	DisplayName   string   `json:"display_name"`
	AvgLowWR      *float64 `json:"avg_low_wr"`
	AvgMediumWR   *float64 `json:"avg_medium_wr"`
	AvgHighWR     *float64 `json:"avg_high_wr"`
	AvgLowRatio   *float64 `json:"avg_low_ratio"`
	AvgHighRatio  *float64 `json:"avg_high_ratio"`
	ChampionCount int      `json:"champion_count"`
}

func buildLaneImpact(stats map[string]*ChampionStats) map[string]*LaneImpact {
	type acc struct {
		lowWR, medWR, highWR, lowRatio, highRatio []float64
		champions                                 int
	}
	lanes := map[string]*acc{}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]
		if s.MostCommonLane == "" {
			continue
		}
		a := lanes[s.MostCommonLane]
		if a == nil {
			a = &acc{}
			lanes[s.MostCommonLane] = a
		}
		a.champions++
		appendIf := func(dst *[]float64, v *float64) {
			if v != nil {
				*dst = append(*dst, *v)
			}
		}
		appendIf(&a.lowWR, s.LowWR)
		appendIf(&a.medWR, s.MediumWR)
		appendIf(&a.highWR, s.HighWR)
		appendIf(&a.lowRatio, s.LowRatio)
		appendIf(&a.highRatio, s.HighRatio)
	}

	avg := func(vals []float64) *float64 {
		if len(vals) == 0 {
			return nil
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return fptr(sum / float64(len(vals)))
	}

	out := map[string]*LaneImpact{}
	for lane, a := range lanes {
		display := laneDisplayNames[lane]
		if display == "" {
			display = lane
		}
		out[lane] = &LaneImpact{
			DisplayName:   display,
			AvgLowWR:      avg(a.lowWR),
			AvgMediumWR:   avg(a.medWR),
			AvgHighWR:     avg(a.highWR),
			AvgLowRatio:   avg(a.lowRatio),
			AvgHighRatio:  avg(a.highRatio),
			ChampionCount: a.champions,
		}
	}
	return out
}
