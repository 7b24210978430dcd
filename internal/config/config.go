// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration. It is built once at
// startup and passed explicitly to every component.
type Config struct {
	// Riot API configuration
	API APIConfig `toml:"api"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Collection configuration
	Collection CollectionConfig `toml:"collection"`

	// Analysis configuration
	Analysis AnalysisConfig `toml:"analysis"`

	// Output configuration
	Output OutputConfig `toml:"output"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// APIConfig contains Riot API settings.
type APIConfig struct {
	Key       string `toml:"key"`         // Riot API key (or RIOT_API_KEY env)
	UseDevKey bool   `toml:"use_dev_key"` // Apply development-key rate limits
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Path to the snapshot database
}

// RegionConfig maps a region to its platform and routing hosts.
type RegionConfig struct {
	Platform string `toml:"platform"` // league-v4 / mastery-v4 host (e.g. "na1")
	Routing  string `toml:"routing"`  // match-v5 host (e.g. "americas")
}

// CollectionConfig contains crawl targets and validation settings.
type CollectionConfig struct {
	Regions         map[string]RegionConfig `toml:"regions"`
	MatchTarget     int                     `toml:"match_target"`      // total matches across regions
	QueueID         int                     `toml:"queue_id"`          // ranked solo queue
	MinGameDuration int                     `toml:"min_game_duration"` // seconds; skips remakes
	PatchMode       string                  `toml:"patch_mode"`        // current, last3 or season
	Season          int                     `toml:"season"`            // for patch_mode = "season"
}

// TierFilter selects one ranked-elo analysis partition.
type TierFilter struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Tiers       []string `toml:"tiers"`
	// Divisions restricts the lowest listed tier (e.g. Diamond II+).
	// Empty means all divisions.
	Divisions []string `toml:"divisions"`
}

// AnalysisConfig contains the engine constants.
type AnalysisConfig struct {
	Filters         []TierFilter `toml:"filters"`
	MinSample       int          `toml:"min_sample"`
	CurveMinSample  int          `toml:"curve_min_sample"`
	CurveMinMastery int64        `toml:"curve_min_mastery"`
	GamesPerPoint   float64      `toml:"games_per_point"`
	TargetWinRate   float64      `toml:"target_win_rate"`
	Workers         int          `toml:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig contains result, export and chart destinations.
type OutputConfig struct {
	AnalysisDir string `toml:"analysis_dir"`
	ExportDir   string `toml:"export_dir"`
	ChartsDir   string `toml:"charts_dir"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	Verbose bool `toml:"verbose"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Key:       "",
			UseDevKey: false,
		},
		Database: DatabaseConfig{
			Path: "data/mastery.db",
		},
		Collection: CollectionConfig{
			Regions: map[string]RegionConfig{
				"NA":  {Platform: "na1", Routing: "americas"},
				"EUW": {Platform: "euw1", Routing: "europe"},
				"KR":  {Platform: "kr", Routing: "asia"},
			},
			MatchTarget:     1_000_000,
			QueueID:         420,
			MinGameDuration: 300,
			PatchMode:       "season",
			Season:          16,
		},
		Analysis: AnalysisConfig{
			Filters: []TierFilter{
				{
					Name:        "emerald_plus",
					Description: "Emerald, Diamond, Master, Grandmaster, Challenger",
					Tiers:       []string{"EMERALD", "DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER"},
				},
				{
					Name:        "diamond_plus",
					Description: "Diamond, Master, Grandmaster, Challenger",
					Tiers:       []string{"DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER"},
				},
				{
					Name:        "diamond2_plus",
					Description: "Diamond II+, Master, Grandmaster, Challenger",
					Tiers:       []string{"DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER"},
					Divisions:   []string{"II", "I"},
				},
			},
			MinSample:       100,
			CurveMinSample:  200,
			CurveMinMastery: 3_500,
			GamesPerPoint:   700,
			TargetWinRate:   0.50,
		},
		Output: OutputConfig{
			AnalysisDir: "output/analysis",
			ExportDir:   "output/export",
			ChartsDir:   "output/charts",
		},
		App: AppConfig{
			Verbose: false,
		},
	}
}

// Load loads the configuration from the given path, falling back to
// defaults when no file exists. The RIOT_API_KEY environment variable
// overrides the configured key.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file: defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv("RIOT_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	return cfg, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that every subcommand depends on.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if len(c.Analysis.Filters) == 0 {
		return fmt.Errorf("at least one analysis filter is required")
	}
	seen := map[string]bool{}
	for _, f := range c.Analysis.Filters {
		if f.Name == "" {
			return fmt.Errorf("analysis filter with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate analysis filter %q", f.Name)
		}
		seen[f.Name] = true
		if len(f.Tiers) == 0 {
			return fmt.Errorf("analysis filter %q selects no tiers", f.Name)
		}
	}
	return nil
}
