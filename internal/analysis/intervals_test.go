package analysis

import (
	"strings"
	"testing"
)

func TestDefaultFineIntervals(t *testing.T) {
	intervals := DefaultFineIntervals()

	if len(intervals) != 11 {
		t.Fatalf("expected 11 fine intervals, got %d", len(intervals))
	}
	if intervals[0].Min != 0 {
		t.Errorf("first interval should start at 0, got %d", intervals[0].Min)
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i-1].Max != intervals[i].Min {
			t.Errorf("intervals %q and %q are not contiguous",
				intervals[i-1].Label, intervals[i].Label)
		}
	}
	if last := intervals[len(intervals)-1]; last.Max != Unbounded {
		t.Errorf("last interval should be unbounded, got max %d", last.Max)
	}
}

func TestIntervalContains(t *testing.T) {
	tests := []struct {
		name     string
		interval Interval
		points   int64
		want     bool
	}{
		{"at lower bound", Interval{1000, 2000, "1k-2k"}, 1000, true},
		{"below lower bound", Interval{1000, 2000, "1k-2k"}, 999, false},
		{"at upper bound", Interval{1000, 2000, "1k-2k"}, 2000, false},
		{"zero in lowest", Interval{0, 1000, "0-1k"}, 0, true},
		{"unbounded large", Interval{1_000_000, Unbounded, "1M+"}, 50_000_000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.interval.Contains(tt.points); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}

func TestIntervalRepresentative(t *testing.T) {
	tests := []struct {
		name     string
		interval Interval
		want     float64
	}{
		{"bounded midpoint", Interval{0, 1000, "0-1k"}, 500},
		{"bounded wide", Interval{10_000, 20_000, "10k-20k"}, 15_000},
		{"open ended", Interval{1_000_000, Unbounded, "1M+"}, 1_500_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.interval.Representative(); got != tt.want {
				t.Errorf("Representative() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBucketFor(t *testing.T) {
	p := DefaultBucketProfile()

	tests := []struct {
		points int64
		want   Bucket
	}{
		{0, BucketLow},
		{9_999, BucketLow},
		{10_000, BucketMedium},
		{99_999, BucketMedium},
		{100_000, BucketHigh},
		{5_000_000, BucketHigh},
	}
	for _, tt := range tests {
		if got := p.BucketFor(tt.points); got != tt.want {
			t.Errorf("BucketFor(%d) = %v, want %v", tt.points, got, tt.want)
		}
	}
}

func TestBucketProfileAlignment(t *testing.T) {
	intervals := DefaultFineIntervals()

	if !DefaultBucketProfile().AlignedWith(intervals) {
		t.Error("default profile should align with fine intervals")
	}
	// The broad profile's 30k boundary falls inside 20k-50k.
	if BroadBucketProfile().AlignedWith(intervals) {
		t.Error("broad profile should not align with fine intervals")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultEngineConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"gap between intervals",
			func(c *Config) {
				c.FineIntervals = []Interval{{0, 1000, "a"}, {2000, Unbounded, "b"}}
			},
			"not contiguous",
		},
		{
			"does not start at zero",
			func(c *Config) {
				c.FineIntervals = []Interval{{100, 1000, "a"}, {1000, Unbounded, "b"}}
			},
			"must start at 0",
		},
		{
			"last interval bounded",
			func(c *Config) {
				c.FineIntervals = []Interval{{0, 10_000, "a"}, {10_000, 100_000, "b"}}
			},
			"must be unbounded",
		},
		{
			"misaligned buckets",
			func(c *Config) { c.Buckets = BucketProfile{Name: "odd", LowMax: 7_777, MediumMax: 100_000} },
			"does not align",
		},
		{
			"target out of range",
			func(c *Config) { c.TargetWinRate = 1.5 },
			"outside (0, 1)",
		},
		{
			"zero min sample",
			func(c *Config) { c.MinSample = 0 },
			"must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}
