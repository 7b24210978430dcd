package analysis

import "math"

// WilsonInterval computes the two-sided Wilson score confidence interval for
// a binomial proportion. The Wilson form is preferred over the normal
// approximation because it stays sane at small n and extreme proportions.
// Bounds are clamped to [0, 1]. Games must be positive.
func WilsonInterval(wins, games int, z float64) (lower, upper float64) {
	n := float64(games)
	p := float64(wins) / n
	z2 := z * z

	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	halfwidth := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom

	lower = center - halfwidth
	upper = center + halfwidth
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}
	return lower, upper
}

// wilsonBounds applies the engine's sample-size policy: intervals and
// buckets below MinSample get null bounds instead of a wide interval.
func (c Config) wilsonBounds(counts Counts) (lower, upper *float64) {
	if counts.Games < c.MinSample {
		return nil, nil
	}
	lo, hi := WilsonInterval(counts.Wins, counts.Games, c.WilsonZ)
	return fptr(round4(lo)), fptr(round4(hi))
}

func fptr(v float64) *float64 { return &v }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
