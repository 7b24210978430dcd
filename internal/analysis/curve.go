package analysis

import "math"

// CurveInterval is one plotted point of a champion's mastery curve.
type CurveInterval struct {
	Label   string   `json:"label"`
	Min     int64    `json:"min"`
	Max     *int64   `json:"max"` // nil for the open-ended band
	WinRate float64  `json:"win_rate"`
	Games   int      `json:"games"`
	CILower *float64 `json:"ci_lower"`
	CIUpper *float64 `json:"ci_upper"`
}

// MasteryCurve is the win-rate-by-mastery-interval series for one champion,
// restricted to intervals with a displayable sample.
type MasteryCurve struct {
	Lane      string          `json:"lane,omitempty"`
	Intervals []CurveInterval `json:"intervals"`
}

// masteryCurve builds the curve from fine interval counts, keeping only
// intervals at or above MinSample. Returns nil when nothing qualifies.
func (c Config) masteryCurve(fine []Counts, lane string) *MasteryCurve {
	var list []CurveInterval
	for i, counts := range fine {
		if counts.Games < c.MinSample {
			continue
		}
		iv := c.FineIntervals[i]
		var max *int64
		if iv.Max != Unbounded {
			m := iv.Max
			max = &m
		}
		lo, hi := c.wilsonBounds(counts)
		list = append(list, CurveInterval{
			Label:   iv.Label,
			Min:     iv.Min,
			Max:     max,
			WinRate: counts.WinRate(),
			Games:   counts.Games,
			CILower: lo,
			CIUpper: hi,
		})
	}
	if len(list) == 0 {
		return nil
	}
	return &MasteryCurve{Lane: lane, Intervals: list}
}

// SlopeIteration decomposes one champion's learning curve into pickup
// difficulty, competency point and long-term growth signals. All slope
// metrics are in percentage points and derive from smoothed win rates; the
// raw initial and peak rates are kept separately for display.
type SlopeIteration struct {
	Champion       string `json:"champion"`
	MostCommonLane string `json:"most_common_lane,omitempty"`
	Lane           string `json:"lane,omitempty"`

	InitialWR  *float64 `json:"initial_wr"`
	PeakWR     *float64 `json:"peak_wr"`
	TotalSlope *float64 `json:"total_slope"`

	EarlySlope   *float64 `json:"early_slope"`
	EarlySlopeCI *float64 `json:"early_slope_ci"`
	LateSlope    *float64 `json:"late_slope"`

	InflectionMastery *int64 `json:"inflection_mastery"`
	InflectionGames   *int   `json:"inflection_games"`

	SlopeTier  *PickupTier `json:"slope_tier"`
	GrowthType *GrowthType `json:"growth_type"`

	// TierUncertain is set when the early-slope interval spans a tier
	// boundary, meaning the pickup classification could flip with more
	// data. GamesNeededPerBracket then estimates the per-bracket sample
	// required to resolve it.
	TierUncertain         bool `json:"tier_uncertain"`
	GamesNeededPerBracket *int `json:"games_needed_per_bracket"`

	ValidIntervals int `json:"valid_intervals"`
}

// slopePlateauMargin is how close (in proportion) a smoothed win rate must
// be to the smoothed peak to count as plateaued.
const slopePlateauMargin = 0.005

// pickupBoundaries are the tier cut points for the early slope, in pp.
var pickupBoundaries = [...]float64{2, 5, 8}

// gamesNeededNumerator comes from the two-proportion worst case:
// 1.96^2 * 2 * 0.25 * 100^2. UI behavior depends on this exact constant.
const gamesNeededNumerator = 19208.0

// slopeIteration computes the three-phase decomposition for one curve.
// Intervals below CurveMinMastery or CurveMinSample are excluded first; a
// champion with fewer than three qualifying intervals gets a null signal
// with only the interval count filled in.
func (c Config) slopeIteration(champion string, curve *MasteryCurve) *SlopeIteration {
	res := &SlopeIteration{
		Champion:       champion,
		MostCommonLane: curve.Lane,
		ValidIntervals: len(curve.Intervals),
	}

	var qualifying []CurveInterval
	for _, iv := range curve.Intervals {
		if iv.Min >= c.CurveMinMastery && iv.Games >= c.CurveMinSample {
			qualifying = append(qualifying, iv)
		}
	}
	if len(qualifying) < 3 {
		return res
	}

	res.InitialWR = fptr(round4(qualifying[0].WinRate))
	peakRaw := qualifying[0].WinRate
	for _, iv := range qualifying[1:] {
		if iv.WinRate > peakRaw {
			peakRaw = iv.WinRate
		}
	}
	res.PeakWR = fptr(round4(peakRaw))

	smoothed := smoothCurve(qualifying)
	sInitial := smoothed[0]
	sPeak := smoothed[0]
	for _, v := range smoothed[1:] {
		if v > sPeak {
			sPeak = v
		}
	}
	res.TotalSlope = fptr(round2((sPeak - sInitial) * 100))

	earlySlope := (smoothed[2] - smoothed[0]) * 100
	res.EarlySlope = fptr(round2(earlySlope))
	tier := pickupTierFor(earlySlope)
	res.SlopeTier = &tier

	earlyCI := c.earlySlopeCI(qualifying[0].Games, qualifying[2].Games)
	res.EarlySlopeCI = fptr(round2(earlyCI))
	c.flagUncertainTier(res, earlySlope, earlyCI)

	if n := len(smoothed); n >= 5 {
		lateSlope := (smoothed[n-1] - smoothed[n-3]) * 100
		res.LateSlope = fptr(round2(lateSlope))
		growth := growthTypeFor(lateSlope)
		res.GrowthType = &growth
	}

	nearPeak := sPeak - slopePlateauMargin
	for i, v := range smoothed {
		if v >= nearPeak {
			mastery := qualifying[i].Min
			res.InflectionMastery = &mastery
			res.InflectionGames = iptr(roundToInt(float64(mastery) / c.GamesPerPoint))
			break
		}
	}

	return res
}

// smoothCurve replaces each interval's win rate with the games-weighted
// average of itself and its immediate neighbors (window of three, two-point
// at the endpoints). Weighting by games downweights noisy sparse brackets
// against their denser neighbors.
func smoothCurve(intervals []CurveInterval) []float64 {
	out := make([]float64, len(intervals))
	for i := range intervals {
		lo := i - 1
		if lo < 0 {
			lo = 0
		}
		hi := i + 2
		if hi > len(intervals) {
			hi = len(intervals)
		}
		var weighted float64
		var games int
		for _, iv := range intervals[lo:hi] {
			weighted += iv.WinRate * float64(iv.Games)
			games += iv.Games
		}
		out[i] = weighted / float64(games)
	}
	return out
}

// earlySlopeCI approximates the +/- half-width of the early slope in pp,
// using the p=0.5 worst case over the smaller of the two boundary samples.
func (c Config) earlySlopeCI(n1, n2 int) float64 {
	n := n1
	if n2 < n {
		n = n2
	}
	return c.WilsonZ * math.Sqrt(2*0.5*0.5) * 100 / math.Sqrt(float64(n))
}

// flagUncertainTier marks the pickup tier uncertain when the early slope's
// interval spans a tier boundary, and estimates the sample needed to pin
// the slope down to the nearest boundary.
func (c Config) flagUncertainTier(res *SlopeIteration, earlySlope, ci float64) {
	spanned := false
	nearest := math.Inf(1)
	for _, b := range pickupBoundaries {
		if earlySlope-ci < b && b < earlySlope+ci {
			spanned = true
		}
		if d := math.Abs(earlySlope - b); d < nearest {
			nearest = d
		}
	}
	if !spanned {
		return
	}
	res.TierUncertain = true
	if nearest >= 0.05 {
		res.GamesNeededPerBracket = iptr(int(math.Ceil(gamesNeededNumerator / (nearest * nearest))))
	}
}
