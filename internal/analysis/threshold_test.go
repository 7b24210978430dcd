package analysis

import (
	"math"
	"testing"
)

// fineCounts builds an 11-slot fine axis with the given cells filled in.
func fineCounts(cells map[int]Counts) []Counts {
	out := make([]Counts, 11)
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func TestSolveThreshold(t *testing.T) {
	cfg := DefaultEngineConfig()
	ca := &ChampionAggregate{Name: "Yasuo"}

	t.Run("crosses with interpolation", func(t *testing.T) {
		// 5k-10k (rep 7500) at 48%, 10k-20k (rep 15000) at 52%: the 50%
		// crossover interpolates to the midpoint of the representatives.
		fine := fineCounts(map[int]Counts{
			3: {Games: 200, Wins: 96},
			4: {Games: 200, Wins: 104},
		})
		res := cfg.solveThreshold(ca, fine, "MIDDLE", 0.50)

		if res.Status != StatusCrosses {
			t.Fatalf("status = %v, want crosses", res.Status)
		}
		if res.MasteryThreshold == nil || math.Abs(*res.MasteryThreshold-11_250) > 1e-6 {
			t.Errorf("threshold = %v, want 11250", res.MasteryThreshold)
		}
		if res.EstimatedGames == nil || *res.EstimatedGames != 16 {
			t.Errorf("estimated games = %v, want 16 (11250/700 rounded)", res.EstimatedGames)
		}
		if res.StartingWinrate == nil || *res.StartingWinrate != 0.48 {
			t.Errorf("starting winrate = %v, want 0.48", res.StartingWinrate)
		}
	})

	t.Run("always above", func(t *testing.T) {
		fine := fineCounts(map[int]Counts{
			3: {Games: 200, Wins: 104},
			4: {Games: 200, Wins: 110},
		})
		res := cfg.solveThreshold(ca, fine, "", 0.50)

		if res.Status != StatusAlwaysAbove {
			t.Fatalf("status = %v, want always_above", res.Status)
		}
		if res.MasteryThreshold == nil || *res.MasteryThreshold != 0 {
			t.Errorf("threshold = %v, want 0", res.MasteryThreshold)
		}
		if res.EstimatedGames == nil || *res.EstimatedGames != 0 {
			t.Errorf("estimated games = %v, want 0", res.EstimatedGames)
		}
	})

	t.Run("never reaches", func(t *testing.T) {
		fine := fineCounts(map[int]Counts{
			3: {Games: 200, Wins: 90},
			4: {Games: 200, Wins: 96},
		})
		res := cfg.solveThreshold(ca, fine, "", 0.50)

		if res.Status != StatusNeverReaches {
			t.Fatalf("status = %v, want never_reaches", res.Status)
		}
		if res.MasteryThreshold != nil || res.EstimatedGames != nil {
			t.Error("never_reaches should carry no threshold")
		}
	})

	t.Run("insufficient below min sample", func(t *testing.T) {
		// Fifty games in every interval: nothing qualifies.
		cells := map[int]Counts{}
		for i := 0; i < 11; i++ {
			cells[i] = Counts{Games: 50, Wins: 25}
		}
		res := cfg.solveThreshold(ca, fineCounts(cells), "", 0.50)

		if res.Status != StatusInsufficient {
			t.Fatalf("status = %v, want insufficient", res.Status)
		}
		if res.StartingWinrate != nil {
			t.Error("no qualifying interval means no starting winrate")
		}
	})

	t.Run("single qualifying interval is insufficient", func(t *testing.T) {
		fine := fineCounts(map[int]Counts{5: {Games: 500, Wins: 260}})
		res := cfg.solveThreshold(ca, fine, "", 0.50)

		if res.Status != StatusInsufficient {
			t.Fatalf("status = %v, want insufficient", res.Status)
		}
		if res.StartingWinrate == nil || *res.StartingWinrate != 0.52 {
			t.Errorf("starting winrate = %v, want 0.52", res.StartingWinrate)
		}
	})

	t.Run("open ended interval uses scaled representative", func(t *testing.T) {
		// 500k-1M (rep 750k) below target, 1M+ (rep 1.5M) above.
		fine := fineCounts(map[int]Counts{
			9:  {Games: 200, Wins: 96},
			10: {Games: 200, Wins: 104},
		})
		res := cfg.solveThreshold(ca, fine, "", 0.50)

		if res.Status != StatusCrosses {
			t.Fatalf("status = %v, want crosses", res.Status)
		}
		want := 750_000 + 0.5*(1_500_000-750_000)
		if math.Abs(*res.MasteryThreshold-want) > 1e-6 {
			t.Errorf("threshold = %v, want %v", *res.MasteryThreshold, want)
		}
	})
}
