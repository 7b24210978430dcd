// masterylab collects ranked match and champion-mastery snapshots from the
// Riot API and analyzes how win rate moves with mastery investment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tbonville/mastery-lab/internal/analysis"
	"github.com/tbonville/mastery-lab/internal/charts"
	"github.com/tbonville/mastery-lab/internal/collect"
	"github.com/tbonville/mastery-lab/internal/config"
	"github.com/tbonville/mastery-lab/internal/ddragon"
	"github.com/tbonville/mastery-lab/internal/export"
	"github.com/tbonville/mastery-lab/internal/riot"
	"github.com/tbonville/mastery-lab/internal/storage"
	"github.com/tbonville/mastery-lab/internal/storage/repository"
	"github.com/tbonville/mastery-lab/internal/version"
)

const usage = `masterylab - champion mastery win-rate analysis

Usage:
  masterylab <command> [flags]

Commands:
  init             Write the default config file and initialize the database
  collect-players  Crawl the ranked ladders for players
  collect-matches  Discover and fetch match details for stored players
  collect-mastery  Snapshot champion mastery for match participants
  analyze          Run the analysis for every configured tier filter
  export           Write CSV tables from stored analysis results
  charts           Render HTML charts from stored analysis results
  run-all          Collect everything, then analyze, export and chart
  version          Print the application version

Flags (every command):
  -config string   Path to the TOML config file (default "masterylab.toml")
  -v               Enable debug logging
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	command := os.Args[1]
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "masterylab.toml", "Path to the TOML config file")
	verbose := fs.Bool("v", false, "Enable debug logging")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(*verbose || cfg.App.Verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{cfg: cfg, configPath: *configPath, log: log}

	var runErr error
	switch command {
	case "init":
		runErr = app.runInit(ctx)
	case "collect-players":
		runErr = app.runCollectPlayers(ctx)
	case "collect-matches":
		runErr = app.runCollectMatches(ctx)
	case "collect-mastery":
		runErr = app.runCollectMastery(ctx)
	case "analyze":
		runErr = app.runAnalyze(ctx)
	case "export":
		runErr = app.runExport(ctx)
	case "charts":
		runErr = app.runCharts(ctx)
	case "run-all":
		runErr = app.runAll(ctx)
	case "version":
		fmt.Println("masterylab " + version.GetVersion())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", command, usage)
		os.Exit(2)
	}

	if runErr != nil {
		log.Error("command failed", "command", command, "error", runErr)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// app wires the configuration into each subcommand.
type app struct {
	cfg        *config.Config
	configPath string
	log        *slog.Logger
}

func (a *app) openDB() (*storage.DB, error) {
	dbCfg := storage.DefaultConfig(a.cfg.Database.Path)
	dbCfg.AutoMigrate = true
	return storage.Open(dbCfg)
}

func (a *app) riotClient() (*riot.Client, error) {
	if a.cfg.API.Key == "" {
		return nil, fmt.Errorf("no Riot API key configured (set api.key or RIOT_API_KEY)")
	}
	return riot.NewClient(a.cfg.API.Key, a.cfg.API.UseDevKey), nil
}

func (a *app) runInit(ctx context.Context) error {
	if _, err := os.Stat(a.configPath); os.IsNotExist(err) {
		if err := a.cfg.Save(a.configPath); err != nil {
			return err
		}
		a.log.Info("wrote default config", "path", a.configPath)
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	a.log.Info("database initialized", "path", a.cfg.Database.Path)
	return nil
}

func (a *app) runCollectPlayers(ctx context.Context) error {
	client, err := a.riotClient()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	collector := collect.NewPlayerCollector(client,
		repository.NewPlayerRepository(db.Conn()),
		repository.NewProgressRepository(db.Conn()),
		a.cfg.Collection.Regions, a.log)
	return collector.Run(ctx)
}

func (a *app) runCollectMatches(ctx context.Context) error {
	client, err := a.riotClient()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	dd := ddragon.NewClient()
	patches, err := collect.ResolvePatches(ctx, dd,
		a.cfg.Collection.PatchMode, a.cfg.Collection.Season)
	if err != nil {
		return err
	}
	names, err := a.championNames(ctx, dd)
	if err != nil {
		return err
	}
	a.log.Info("collecting matches", "patches", patches, "champions", len(names))

	collector := collect.NewMatchCollector(client,
		repository.NewPlayerRepository(db.Conn()),
		repository.NewMatchRepository(db.Conn()),
		repository.NewProgressRepository(db.Conn()),
		a.cfg.Collection, patches, names, a.log)
	return collector.Run(ctx)
}

// championNames builds the id to display-name mapping from the newest
// published patch. It is fetched once per command invocation.
func (a *app) championNames(ctx context.Context, dd *ddragon.Client) (map[int]string, error) {
	latest, err := dd.LatestVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve latest patch: %w", err)
	}
	names, err := dd.ChampionNames(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("champion names for %s: %w", latest, err)
	}
	return names, nil
}

func (a *app) runCollectMastery(ctx context.Context) error {
	client, err := a.riotClient()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	collector := collect.NewMasteryCollector(client,
		repository.NewMasteryRepository(db.Conn()),
		repository.NewProgressRepository(db.Conn()),
		a.cfg.Collection.Regions, a.log)
	return collector.Run(ctx)
}

// runAnalyze runs every configured tier filter. A failing filter is logged
// and does not abort the others.
func (a *app) runAnalyze(ctx context.Context) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	engineCfg := a.engineConfig()
	analyzer, err := analysis.New(engineCfg, a.log)
	if err != nil {
		return err
	}

	// Analysis reads the same patch partition that collection wrote, so a
	// database spanning several seasons does not pool old-patch rows into
	// the current snapshot.
	patches, err := collect.ResolvePatches(ctx, ddragon.NewClient(),
		a.cfg.Collection.PatchMode, a.cfg.Collection.Season)
	if err != nil {
		return err
	}

	observations := repository.NewObservationRepository(db.Conn())

	failed := 0
	for _, filter := range a.cfg.Analysis.Filters {
		if err := a.analyzeFilter(ctx, analyzer, observations, filter, patches); err != nil {
			a.log.Error("analysis failed", "filter", filter.Name, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d filters failed", failed, len(a.cfg.Analysis.Filters))
	}
	return nil
}

func (a *app) analyzeFilter(ctx context.Context, analyzer *analysis.Analyzer,
	observations repository.ObservationRepository, filter config.TierFilter,
	patches []string) error {
	feed, err := observations.Feed(ctx, observationFilter(filter, patches))
	if err != nil {
		return err
	}
	a.log.Info("analyzing", "filter", filter.Name, "observations", len(feed))

	result, err := analyzer.Run(analysis.FeedV2, feed, analysis.Partition{
		Name:        filter.Name,
		Description: filter.Description,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(a.cfg.Output.AnalysisDir, filter.Name+"_results.json")
	exporter := export.NewExporter(export.Options{
		Format:     export.FormatJSON,
		FilePath:   path,
		PrettyJSON: true,
		Overwrite:  true,
	})
	if err := exporter.Export(result); err != nil {
		return err
	}

	a.log.Info("analysis written", "filter", filter.Name, "path", path)
	return nil
}

// observationFilter maps a configured tier filter plus the resolved patch
// list onto the repository's query filter.
func observationFilter(filter config.TierFilter, patches []string) repository.ObservationFilter {
	return repository.ObservationFilter{
		Tiers:     filter.Tiers,
		Divisions: filter.Divisions,
		Patches:   patches,
	}
}

func (a *app) engineConfig() analysis.Config {
	cfg := analysis.DefaultEngineConfig()
	ac := a.cfg.Analysis
	if ac.MinSample > 0 {
		cfg.MinSample = ac.MinSample
	}
	if ac.CurveMinSample > 0 {
		cfg.CurveMinSample = ac.CurveMinSample
	}
	if ac.CurveMinMastery > 0 {
		cfg.CurveMinMastery = ac.CurveMinMastery
	}
	if ac.GamesPerPoint > 0 {
		cfg.GamesPerPoint = ac.GamesPerPoint
	}
	if ac.TargetWinRate > 0 {
		cfg.TargetWinRate = ac.TargetWinRate
	}
	cfg.Workers = ac.Workers
	return cfg
}

// loadResult reads one stored analysis result back for export or charting.
func (a *app) loadResult(filter string) (*analysis.Result, error) {
	path := filepath.Join(a.cfg.Output.AnalysisDir, filter+"_results.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result for %s (run analyze first): %w", filter, err)
	}
	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse result for %s: %w", filter, err)
	}
	return &result, nil
}

func (a *app) runExport(ctx context.Context) error {
	for _, filter := range a.cfg.Analysis.Filters {
		result, err := a.loadResult(filter.Name)
		if err != nil {
			return err
		}
		if err := export.WriteReports(result, a.cfg.Output.ExportDir, export.FormatCSV); err != nil {
			return fmt.Errorf("export %s: %w", filter.Name, err)
		}
		a.log.Info("tables exported", "filter", filter.Name, "dir", a.cfg.Output.ExportDir)
	}
	return nil
}

func (a *app) runCharts(ctx context.Context) error {
	for _, filter := range a.cfg.Analysis.Filters {
		result, err := a.loadResult(filter.Name)
		if err != nil {
			return err
		}
		if err := charts.RenderAll(result, a.cfg.Output.ChartsDir); err != nil {
			return fmt.Errorf("render charts for %s: %w", filter.Name, err)
		}
		a.log.Info("charts rendered", "filter", filter.Name, "dir", a.cfg.Output.ChartsDir)
	}
	return nil
}

func (a *app) runAll(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"collect-players", a.runCollectPlayers},
		{"collect-matches", a.runCollectMatches},
		{"collect-mastery", a.runCollectMastery},
		{"analyze", a.runAnalyze},
		{"export", a.runExport},
		{"charts", a.runCharts},
	}
	for _, step := range steps {
		a.log.Info("starting step", "step", step.name)
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
