package analysis

import (
	"math"
	"testing"
)

func TestWilsonInterval(t *testing.T) {
	const z = 1.95996

	t.Run("symmetric at half", func(t *testing.T) {
		lower, upper := WilsonInterval(50, 100, z)
		if math.Abs(lower-0.4038) > 0.001 || math.Abs(upper-0.5962) > 0.001 {
			t.Errorf("got [%.4f, %.4f], want about [0.4038, 0.5962]", lower, upper)
		}
		if math.Abs((0.5-lower)-(upper-0.5)) > 1e-9 {
			t.Errorf("interval should be symmetric around 0.5, got [%.6f, %.6f]", lower, upper)
		}
	})

	t.Run("contains the point estimate", func(t *testing.T) {
		for _, tc := range []struct{ wins, games int }{
			{10, 100}, {50, 100}, {90, 100}, {3, 10}, {700, 1400},
		} {
			lower, upper := WilsonInterval(tc.wins, tc.games, z)
			p := float64(tc.wins) / float64(tc.games)
			if p < lower || p > upper {
				t.Errorf("p=%.3f outside [%.4f, %.4f] for %d/%d", p, lower, upper, tc.wins, tc.games)
			}
		}
	})

	t.Run("clamped to unit range", func(t *testing.T) {
		lower, upper := WilsonInterval(0, 5, z)
		if lower != 0 {
			t.Errorf("lower bound at p=0 should clamp to 0, got %v", lower)
		}
		if upper <= 0 || upper > 1 {
			t.Errorf("upper bound out of range: %v", upper)
		}

		lower, upper = WilsonInterval(5, 5, z)
		if upper > 1 {
			t.Errorf("upper bound at p=1 should not exceed 1, got %v", upper)
		}
		if lower >= 1 || lower < 0 {
			t.Errorf("lower bound out of range: %v", lower)
		}
	})

	t.Run("narrows with sample size", func(t *testing.T) {
		l1, u1 := WilsonInterval(50, 100, z)
		l2, u2 := WilsonInterval(500, 1000, z)
		if (u2 - l2) >= (u1 - l1) {
			t.Errorf("interval should narrow with more games: %v vs %v", u2-l2, u1-l1)
		}
	})
}

func TestWilsonBoundsSamplePolicy(t *testing.T) {
	cfg := DefaultEngineConfig()

	lower, upper := cfg.wilsonBounds(Counts{Games: 99, Wins: 50})
	if lower != nil || upper != nil {
		t.Error("bounds below MinSample should be nil")
	}

	lower, upper = cfg.wilsonBounds(Counts{Games: 100, Wins: 50})
	if lower == nil || upper == nil {
		t.Fatal("bounds at MinSample should be set")
	}
	if *lower != round4(*lower) || *upper != round4(*upper) {
		t.Errorf("bounds should carry 4 decimals, got %v, %v", *lower, *upper)
	}
	if *lower >= 0.5 || *upper <= 0.5 {
		t.Errorf("bounds [%v, %v] should straddle 0.5", *lower, *upper)
	}
}
