package analysis

import (
	"sort"
)

// Counts accumulates games and wins for one cell of the aggregation.
type Counts struct {
	Games int
	Wins  int
}

func (c *Counts) add(win bool) {
	c.Games++
	if win {
		c.Wins++
	}
}

// WinRate returns wins/games. It is only meaningful when Games > 0.
func (c Counts) WinRate() float64 {
	if c.Games == 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.Games)
}

// gameRecord is the compact per-observation record retained per champion so
// that profiles with boundaries not aligned to the fine intervals (broad and
// per-champion dynamic buckets) can be re-bucketed without a second pass
// over the full feed.
type gameRecord struct {
	Mastery int64
	Win     bool
}

// ChampionAggregate holds every per-champion count the downstream
// components read. Computed once per run, read-only afterward.
type ChampionAggregate struct {
	Name string

	// Fine is indexed parallel to Config.FineIntervals.
	Fine []Counts

	// LaneFine maps lane -> fine interval counts, only for lanes seen.
	LaneFine map[string][]Counts

	// LaneGames counts observations per lane, for the primary-lane mode.
	LaneGames map[string]int

	// Records are the raw per-game records for dynamic re-bucketing.
	Records []gameRecord

	// LaneRecords splits Records by lane (empty-lane records excluded).
	LaneRecords map[string][]gameRecord
}

// PrimaryLane returns the most common lane for the champion. Ties break
// toward the lexicographically first lane so repeated runs agree.
func (ca *ChampionAggregate) PrimaryLane() string {
	best, bestN := "", -1
	for lane, n := range ca.LaneGames {
		if n > bestN || (n == bestN && lane < best) {
			best, bestN = lane, n
		}
	}
	return best
}

// mergeFineCounts merges fine interval counts into the coarse buckets of an
// aligned profile by summation. The merge is exact: every game lands in
// exactly one bucket.
func mergeFineCounts(fine []Counts, intervals []Interval, profile BucketProfile) map[Bucket]Counts {
	out := map[Bucket]Counts{}
	for i, iv := range intervals {
		b := profile.BucketFor(iv.Min)
		c := out[b]
		c.Games += fine[i].Games
		c.Wins += fine[i].Wins
		out[b] = c
	}
	return out
}

// RawBucketCounts buckets the raw records directly; used for profiles whose
// boundaries do not align with the fine intervals.
func rawBucketCounts(records []gameRecord, profile BucketProfile) map[Bucket]Counts {
	out := map[Bucket]Counts{}
	for _, r := range records {
		b := profile.BucketFor(r.Mastery)
		c := out[b]
		c.add(r.Win)
		out[b] = c
	}
	return out
}

// Aggregate is the output of the observation aggregator for one partition.
type Aggregate struct {
	Champions map[string]*ChampionAggregate

	// Overall fine interval counts across all champions.
	OverallFine []Counts

	// Mastery values of every observation, sorted ascending; feeds the
	// distribution percentiles.
	MasteryValues []int64

	// Per-lane, per-bucket observation counts for the distribution.
	LaneBucketCounts map[string]map[Bucket]int

	Matches   map[string]struct{}
	Players   map[string]struct{}
	Regions   map[string]int
	TotalObs  int
	TotalWins int
}

func (a *Aggregate) championNames() []string {
	names := make([]string, 0, len(a.Champions))
	for name := range a.Champions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aggregate groups the observation feed by champion and mastery interval.
// It is the leaf of the pipeline; everything downstream reads its counts.
func (c Config) Aggregate(observations []Observation) *Aggregate {
	agg := &Aggregate{
		Champions:        map[string]*ChampionAggregate{},
		OverallFine:      make([]Counts, len(c.FineIntervals)),
		LaneBucketCounts: map[string]map[Bucket]int{},
		Matches:          map[string]struct{}{},
		Players:          map[string]struct{}{},
		Regions:          map[string]int{},
	}

	for _, obs := range observations {
		ca := agg.Champions[obs.ChampionName]
		if ca == nil {
			ca = &ChampionAggregate{
				Name:        obs.ChampionName,
				Fine:        make([]Counts, len(c.FineIntervals)),
				LaneFine:    map[string][]Counts{},
				LaneGames:   map[string]int{},
				LaneRecords: map[string][]gameRecord{},
			}
			agg.Champions[obs.ChampionName] = ca
		}

		idx := c.fineIndex(obs.MasteryPoints)
		ca.Fine[idx].add(obs.Win)
		agg.OverallFine[idx].add(obs.Win)

		rec := gameRecord{Mastery: obs.MasteryPoints, Win: obs.Win}
		ca.Records = append(ca.Records, rec)

		if obs.Lane != "" {
			lf := ca.LaneFine[obs.Lane]
			if lf == nil {
				lf = make([]Counts, len(c.FineIntervals))
				ca.LaneFine[obs.Lane] = lf
			}
			lf[idx].add(obs.Win)
			ca.LaneGames[obs.Lane]++
			ca.LaneRecords[obs.Lane] = append(ca.LaneRecords[obs.Lane], rec)

			lb := agg.LaneBucketCounts[obs.Lane]
			if lb == nil {
				lb = map[Bucket]int{}
				agg.LaneBucketCounts[obs.Lane] = lb
			}
			lb[c.Buckets.BucketFor(obs.MasteryPoints)]++
		}

		agg.MasteryValues = append(agg.MasteryValues, obs.MasteryPoints)
		if obs.MatchID != "" {
			agg.Matches[obs.MatchID] = struct{}{}
		}
		if obs.PlayerID != "" {
			agg.Players[obs.PlayerID] = struct{}{}
		}
		agg.Regions[obs.Region]++
		agg.TotalObs++
		if obs.Win {
			agg.TotalWins++
		}
	}

	sort.Slice(agg.MasteryValues, func(i, j int) bool {
		return agg.MasteryValues[i] < agg.MasteryValues[j]
	})
	return agg
}

// fineIndex locates the fine interval containing the given mastery points.
// The intervals are contiguous from zero, so a linear scan suffices and
// points always land somewhere (the last interval is unbounded).
func (c Config) fineIndex(points int64) int {
	for i, iv := range c.FineIntervals {
		if iv.Contains(points) {
			return i
		}
	}
	return len(c.FineIntervals) - 1
}
