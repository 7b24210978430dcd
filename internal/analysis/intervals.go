package analysis

import (
	"fmt"
	"math"
)

// Unbounded marks an interval with no upper limit.
const Unbounded = int64(math.MaxInt64)

// Interval is a half-open mastery-point range [Min, Max) with a display
// label. Max may be Unbounded.
type Interval struct {
	Min   int64
	Max   int64
	Label string
}

// Contains reports whether the given mastery points fall in the interval.
// Zero points fall in the lowest interval, never outside the axis.
func (iv Interval) Contains(points int64) bool {
	return points >= iv.Min && (iv.Max == Unbounded || points < iv.Max)
}

// Representative returns the mastery value used to stand in for the interval
// during interpolation: the midpoint for bounded intervals, 1.5x the lower
// bound for the open-ended one.
func (iv Interval) Representative() float64 {
	if iv.Max == Unbounded {
		return 1.5 * float64(iv.Min)
	}
	return float64(iv.Min) + float64(iv.Max-iv.Min)/2
}

// DefaultFineIntervals returns the fixed fine-grained mastery bands used for
// curves and threshold solving.
func DefaultFineIntervals() []Interval {
	return []Interval{
		{0, 1_000, "0-1k"},
		{1_000, 2_000, "1k-2k"},
		{2_000, 5_000, "2k-5k"},
		{5_000, 10_000, "5k-10k"},
		{10_000, 20_000, "10k-20k"},
		{20_000, 50_000, "20k-50k"},
		{50_000, 100_000, "50k-100k"},
		{100_000, 200_000, "100k-200k"},
		{200_000, 500_000, "200k-500k"},
		{500_000, 1_000_000, "500k-1M"},
		{1_000_000, Unbounded, "1M+"},
	}
}

// Bucket names the three coarse mastery ranges used for ratio scoring.
type Bucket string

const (
	BucketLow    Bucket = "low"
	BucketMedium Bucket = "medium"
	BucketHigh   Bucket = "high"
)

// BucketProfile defines coarse bucket boundaries: low is [0, LowMax),
// medium [LowMax, MediumMax), high [MediumMax, inf).
type BucketProfile struct {
	Name      string
	LowMax    int64
	MediumMax int64
}

// DefaultBucketProfile is the global fixed split: <10k / 10k-100k / 100k+.
func DefaultBucketProfile() BucketProfile {
	return BucketProfile{Name: "standard", LowMax: 10_000, MediumMax: 100_000}
}

// BroadBucketProfile widens the medium range down to 30k, matching how
// mid-investment play is commonly discussed.
func BroadBucketProfile() BucketProfile {
	return BucketProfile{Name: "broad", LowMax: 30_000, MediumMax: 100_000}
}

// BucketFor returns the bucket the given mastery points fall into.
func (p BucketProfile) BucketFor(points int64) Bucket {
	switch {
	case points < p.LowMax:
		return BucketLow
	case points < p.MediumMax:
		return BucketMedium
	default:
		return BucketHigh
	}
}

// AlignedWith reports whether the profile's boundaries coincide with fine
// interval bounds, which is required for merging fine counts into buckets
// without re-reading raw observations.
func (p BucketProfile) AlignedWith(intervals []Interval) bool {
	lowOK, medOK := false, false
	for _, iv := range intervals {
		if iv.Min == p.LowMax {
			lowOK = true
		}
		if iv.Min == p.MediumMax {
			medOK = true
		}
	}
	return lowOK && medOK
}

// Config carries every constant and axis definition the engine needs for one
// run. It is constructed once and threaded through all components; the
// engine keeps no global state.
type Config struct {
	// FineIntervals partitions the mastery axis for curves and the
	// threshold solver. Must be ordered and non-overlapping.
	FineIntervals []Interval

	// Buckets is the fixed coarse split used for champion_stats.
	Buckets BucketProfile

	// BroadBuckets is the secondary coarse split (30k medium boundary)
	// used for the parallel broad stat set.
	BroadBuckets BucketProfile

	// MinSample is the minimum games for a bucket or interval to count.
	MinSample int

	// CurveMinSample is the stricter per-interval minimum for slope work.
	CurveMinSample int

	// CurveMinMastery excludes the earliest bands from slope work; they are
	// dominated by first-games selection bias.
	CurveMinMastery int64

	// GamesPerPoint converts a mastery-point threshold to a game estimate.
	GamesPerPoint float64

	// TargetWinRate is the baseline the threshold solver looks for.
	TargetWinRate float64

	// WilsonZ is the two-sided critical value for the 95% Wilson interval.
	WilsonZ float64

	// Workers caps the per-champion computation fan-out. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultEngineConfig returns the engine constants used in production runs.
func DefaultEngineConfig() Config {
	return Config{
		FineIntervals:   DefaultFineIntervals(),
		Buckets:         DefaultBucketProfile(),
		BroadBuckets:    BroadBucketProfile(),
		MinSample:       100,
		CurveMinSample:  200,
		CurveMinMastery: 3_500,
		GamesPerPoint:   700,
		TargetWinRate:   0.50,
		WilsonZ:         1.95996,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if len(c.FineIntervals) < 2 {
		return fmt.Errorf("need at least 2 fine intervals, got %d", len(c.FineIntervals))
	}
	if c.FineIntervals[0].Min != 0 {
		return fmt.Errorf("fine intervals must start at 0, got %d", c.FineIntervals[0].Min)
	}
	for i := 1; i < len(c.FineIntervals); i++ {
		prev, cur := c.FineIntervals[i-1], c.FineIntervals[i]
		if prev.Max != cur.Min {
			return fmt.Errorf("fine intervals %q and %q are not contiguous", prev.Label, cur.Label)
		}
	}
	if last := c.FineIntervals[len(c.FineIntervals)-1]; last.Max != Unbounded {
		return fmt.Errorf("last fine interval %q must be unbounded", last.Label)
	}
	if !c.Buckets.AlignedWith(c.FineIntervals) {
		return fmt.Errorf("bucket profile %q does not align with fine interval bounds", c.Buckets.Name)
	}
	if c.MinSample <= 0 || c.CurveMinSample <= 0 {
		return fmt.Errorf("sample minimums must be positive")
	}
	if c.GamesPerPoint <= 0 {
		return fmt.Errorf("games per point must be positive")
	}
	if c.TargetWinRate <= 0 || c.TargetWinRate >= 1 {
		return fmt.Errorf("target win rate %v outside (0, 1)", c.TargetWinRate)
	}
	return nil
}
