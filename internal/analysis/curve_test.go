package analysis

import (
	"math"
	"testing"
)

func TestMasteryCurveFiltering(t *testing.T) {
	cfg := DefaultEngineConfig()

	fine := fineCounts(map[int]Counts{
		2: {Games: 99, Wins: 40},   // below MinSample, dropped
		4: {Games: 400, Wins: 200}, // kept
		6: {Games: 150, Wins: 80},  // kept
	})
	curve := cfg.masteryCurve(fine, "TOP")
	if curve == nil {
		t.Fatal("expected a curve")
	}
	if curve.Lane != "TOP" {
		t.Errorf("lane = %q", curve.Lane)
	}
	if len(curve.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(curve.Intervals))
	}
	if curve.Intervals[0].Label != "10k-20k" || curve.Intervals[1].Label != "50k-100k" {
		t.Errorf("unexpected labels %q, %q", curve.Intervals[0].Label, curve.Intervals[1].Label)
	}
	if curve.Intervals[0].CILower == nil || curve.Intervals[0].CIUpper == nil {
		t.Error("qualifying interval should carry confidence bounds")
	}

	if got := cfg.masteryCurve(fineCounts(map[int]Counts{2: {Games: 10, Wins: 5}}), ""); got != nil {
		t.Error("all-sparse axis should produce a nil curve")
	}
}

func TestSmoothCurve(t *testing.T) {
	intervals := []CurveInterval{
		{WinRate: 0.40, Games: 100},
		{WinRate: 0.50, Games: 100},
		{WinRate: 0.60, Games: 100},
	}
	smoothed := smoothCurve(intervals)

	want := []float64{0.45, 0.50, 0.55}
	for i := range want {
		if math.Abs(smoothed[i]-want[i]) > 1e-9 {
			t.Errorf("smoothed[%d] = %v, want %v", i, smoothed[i], want[i])
		}
	}

	// Weighting: a dense neighbor dominates a sparse one.
	weighted := smoothCurve([]CurveInterval{
		{WinRate: 0.40, Games: 900},
		{WinRate: 0.60, Games: 100},
	})
	if math.Abs(weighted[0]-0.42) > 1e-9 {
		t.Errorf("weighted smoothing = %v, want 0.42", weighted[0])
	}
}

func TestSmoothCurveBounded(t *testing.T) {
	intervals := []CurveInterval{
		{WinRate: 0.44, Games: 300},
		{WinRate: 0.58, Games: 250},
		{WinRate: 0.47, Games: 800},
		{WinRate: 0.52, Games: 120},
	}
	lo, hi := intervals[0].WinRate, intervals[0].WinRate
	for _, iv := range intervals[1:] {
		lo = math.Min(lo, iv.WinRate)
		hi = math.Max(hi, iv.WinRate)
	}
	for i, v := range smoothCurve(intervals) {
		if v < lo || v > hi {
			t.Errorf("smoothed[%d] = %v escapes input range [%v, %v]", i, v, lo, hi)
		}
	}
}

func TestSlopeIteration(t *testing.T) {
	cfg := DefaultEngineConfig()

	// Five qualifying intervals (all above 3500 mastery, 1000 games each)
	// rising from 46% to 53.5%.
	curve := &MasteryCurve{
		Lane: "MIDDLE",
		Intervals: []CurveInterval{
			{Label: "5k-10k", Min: 5_000, WinRate: 0.46, Games: 1000},
			{Label: "10k-20k", Min: 10_000, WinRate: 0.48, Games: 1000},
			{Label: "20k-50k", Min: 20_000, WinRate: 0.52, Games: 1000},
			{Label: "50k-100k", Min: 50_000, WinRate: 0.53, Games: 1000},
			{Label: "100k-200k", Min: 100_000, WinRate: 0.535, Games: 1000},
		},
	}
	res := cfg.slopeIteration("Azir", curve)

	if res.Champion != "Azir" || res.MostCommonLane != "MIDDLE" {
		t.Errorf("identity fields wrong: %+v", res)
	}
	if res.ValidIntervals != 5 {
		t.Errorf("valid intervals = %d, want 5", res.ValidIntervals)
	}
	if res.InitialWR == nil || *res.InitialWR != 0.46 {
		t.Errorf("initial wr = %v, want 0.46", res.InitialWR)
	}
	if res.PeakWR == nil || *res.PeakWR != 0.535 {
		t.Errorf("peak wr = %v, want 0.535", res.PeakWR)
	}

	// Smoothed series: .47, .4867, .51, .5283, .5325.
	if res.EarlySlope == nil || *res.EarlySlope != 4.0 {
		t.Errorf("early slope = %v, want 4.0", res.EarlySlope)
	}
	if res.SlopeTier == nil || *res.SlopeTier != PickupMild {
		t.Errorf("slope tier = %v, want Mild Pickup", res.SlopeTier)
	}
	if res.TotalSlope == nil || *res.TotalSlope != 6.25 {
		t.Errorf("total slope = %v, want 6.25", res.TotalSlope)
	}
	if res.LateSlope == nil || *res.LateSlope != 2.25 {
		t.Errorf("late slope = %v, want 2.25", res.LateSlope)
	}
	if res.GrowthType == nil || *res.GrowthType != GrowthContinual {
		t.Errorf("growth = %v, want Continual", res.GrowthType)
	}

	wantCI := round2(cfg.earlySlopeCI(1000, 1000))
	if res.EarlySlopeCI == nil || *res.EarlySlopeCI != wantCI {
		t.Errorf("early slope ci = %v, want %v", res.EarlySlopeCI, wantCI)
	}
	// The CI of about +/-4.4pp spans every tier boundary here.
	if !res.TierUncertain {
		t.Error("wide CI around slope 4.0 should flag the tier uncertain")
	}

	// Smoothed peak is .5325; the first interval within .005 of it is
	// 50k-100k at .5283.
	if res.InflectionMastery == nil || *res.InflectionMastery != 50_000 {
		t.Errorf("inflection mastery = %v, want 50000", res.InflectionMastery)
	}
	if res.InflectionGames == nil || *res.InflectionGames != 71 {
		t.Errorf("inflection games = %v, want 71", res.InflectionGames)
	}
}

func TestSlopeIterationInsufficient(t *testing.T) {
	cfg := DefaultEngineConfig()

	curve := &MasteryCurve{
		Intervals: []CurveInterval{
			{Min: 0, WinRate: 0.45, Games: 5000},  // below CurveMinMastery
			{Min: 5_000, WinRate: 0.48, Games: 150}, // below CurveMinSample
			{Min: 10_000, WinRate: 0.50, Games: 800},
			{Min: 20_000, WinRate: 0.52, Games: 900},
		},
	}
	res := cfg.slopeIteration("Taric", curve)

	if res.EarlySlope != nil || res.SlopeTier != nil || res.InitialWR != nil {
		t.Error("fewer than three qualifying intervals must leave the signal null")
	}
	if res.ValidIntervals != 4 {
		t.Errorf("valid intervals = %d, want 4", res.ValidIntervals)
	}
}

func TestFlagUncertainTier(t *testing.T) {
	cfg := DefaultEngineConfig()

	t.Run("spans a boundary", func(t *testing.T) {
		res := &SlopeIteration{}
		cfg.flagUncertainTier(res, 4.8, 0.4)
		if !res.TierUncertain {
			t.Fatal("slope 4.8 +/- 0.4 spans the 5pp boundary")
		}
		if res.GamesNeededPerBracket == nil || *res.GamesNeededPerBracket != 480_200 {
			t.Errorf("games needed = %v, want 480200", res.GamesNeededPerBracket)
		}
	})

	t.Run("clear of boundaries", func(t *testing.T) {
		res := &SlopeIteration{}
		cfg.flagUncertainTier(res, 3.5, 0.3)
		if res.TierUncertain || res.GamesNeededPerBracket != nil {
			t.Error("slope 3.5 +/- 0.3 spans no boundary")
		}
	})

	t.Run("too close for an estimate", func(t *testing.T) {
		res := &SlopeIteration{}
		cfg.flagUncertainTier(res, 5.01, 0.1)
		if !res.TierUncertain {
			t.Fatal("slope 5.01 +/- 0.1 spans the 5pp boundary")
		}
		if res.GamesNeededPerBracket != nil {
			t.Error("distance under 0.05pp should not produce a games estimate")
		}
	})
}
