package analysis

// ThresholdResult estimates where a champion's win-rate curve first reaches
// the target baseline.
type ThresholdResult struct {
	ChampionName string          `json:"champion_name"`
	Lane         string          `json:"lane,omitempty"`
	Status       ThresholdStatus `json:"status"`

	// MasteryThreshold is the interpolated crossover point. Zero for
	// always_above, nil for never_reaches and insufficient.
	MasteryThreshold *float64 `json:"mastery_threshold"`

	// EstimatedGames converts the threshold to games at GamesPerPoint.
	EstimatedGames *int `json:"estimated_games"`

	// StartingWinrate is the win rate of the lowest qualifying interval.
	StartingWinrate *float64 `json:"starting_winrate"`

	WinRateThreshold float64 `json:"win_rate_threshold"`
}

// thresholdPoint is one qualifying fine interval on the solver's walk.
type thresholdPoint struct {
	rep     float64 // representative mastery value
	winRate float64
}

// solveThreshold walks the champion's fine intervals in increasing mastery
// order, skipping those under MinSample, and finds where the win rate first
// reaches target:
//
//   - lowest qualifying interval already at/above target -> always_above
//   - an adjacent qualifying pair straddles target       -> crosses, with
//     the crossover linearly interpolated between the two representative
//     mastery values
//   - no qualifying interval reaches target              -> never_reaches
//   - fewer than two qualifying intervals                -> insufficient
func (c Config) solveThreshold(ca *ChampionAggregate, fine []Counts, lane string, target float64) *ThresholdResult {
	res := &ThresholdResult{
		ChampionName:     ca.Name,
		Lane:             lane,
		WinRateThreshold: target,
	}

	var points []thresholdPoint
	for i, counts := range fine {
		if counts.Games < c.MinSample {
			continue
		}
		points = append(points, thresholdPoint{
			rep:     c.FineIntervals[i].Representative(),
			winRate: counts.WinRate(),
		})
	}

	if len(points) > 0 {
		res.StartingWinrate = fptr(points[0].winRate)
	}
	if len(points) < 2 {
		res.Status = StatusInsufficient
		return res
	}

	if points[0].winRate >= target {
		res.Status = StatusAlwaysAbove
		res.MasteryThreshold = fptr(0)
		res.EstimatedGames = iptr(0)
		return res
	}

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.winRate < target && b.winRate >= target {
			threshold := a.rep
			if b.winRate != a.winRate {
				frac := (target - a.winRate) / (b.winRate - a.winRate)
				threshold = a.rep + frac*(b.rep-a.rep)
			}
			res.Status = StatusCrosses
			res.MasteryThreshold = fptr(threshold)
			res.EstimatedGames = iptr(roundToInt(threshold / c.GamesPerPoint))
			return res
		}
	}

	res.Status = StatusNeverReaches
	return res
}
