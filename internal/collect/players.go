package collect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tbonville/mastery-lab/internal/config"
	"github.com/tbonville/mastery-lab/internal/riot"
	"github.com/tbonville/mastery-lab/internal/storage/models"
	"github.com/tbonville/mastery-lab/internal/storage/repository"
)

const taskPlayers = "players"

// Divisions walked for the paged league-entries endpoint. Apex tiers use the
// dedicated league endpoints instead.
var pagedTiers = []struct {
	Tier      string
	Divisions []string
}{
	{Tier: "EMERALD", Divisions: []string{"I", "II", "III", "IV"}},
	{Tier: "DIAMOND", Divisions: []string{"I", "II", "III", "IV"}},
}

var apexLeagues = []struct {
	League string
	Tier   string
}{
	{League: "challengerleagues", Tier: "CHALLENGER"},
	{League: "grandmasterleagues", Tier: "GRANDMASTER"},
	{League: "masterleagues", Tier: "MASTER"},
}

// PlayerCollector walks the ranked ladders and stores every discovered
// player.
type PlayerCollector struct {
	client   *riot.Client
	players  repository.PlayerRepository
	progress repository.ProgressRepository
	regions  map[string]config.RegionConfig
	log      *slog.Logger
}

// NewPlayerCollector creates a player collector.
func NewPlayerCollector(client *riot.Client, players repository.PlayerRepository,
	progress repository.ProgressRepository, regions map[string]config.RegionConfig,
	log *slog.Logger) *PlayerCollector {
	return &PlayerCollector{
		client:   client,
		players:  players,
		progress: progress,
		regions:  regions,
		log:      log,
	}
}

// Run collects players for every configured region. Ladder sections a
// previous run finished are skipped.
func (c *PlayerCollector) Run(ctx context.Context) error {
	for _, region := range sortedRegions(c.regions) {
		if err := c.collectRegion(ctx, region, c.regions[region]); err != nil {
			return fmt.Errorf("collect players for %s: %w", region, err)
		}
	}
	return nil
}

func (c *PlayerCollector) collectRegion(ctx context.Context, region string, rc config.RegionConfig) error {
	done, err := c.progress.DoneKeys(ctx, taskPlayers, region)
	if err != nil {
		return err
	}

	for _, apex := range apexLeagues {
		if done[apex.League] {
			continue
		}
		if err := c.collectApex(ctx, region, rc.Platform, apex.League, apex.Tier); err != nil {
			return err
		}
	}

	for _, pt := range pagedTiers {
		for _, div := range pt.Divisions {
			key := pt.Tier + "/" + div
			if done[key] {
				continue
			}
			if err := c.collectEntries(ctx, region, rc.Platform, pt.Tier, div); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *PlayerCollector) collectApex(ctx context.Context, region, platform, league, tier string) error {
	list, err := c.client.ApexLeague(ctx, platform, league)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", league, err)
	}

	batch := make([]*models.Player, 0, len(list.Entries))
	for _, e := range list.Entries {
		batch = append(batch, &models.Player{
			PUUID:        e.PUUID,
			SummonerID:   e.SummonerID,
			Region:       region,
			Tier:         tier,
			Division:     "I",
			LeaguePoints: e.LeaguePoints,
		})
	}
	if err := c.players.UpsertBatch(ctx, batch); err != nil {
		return err
	}

	c.log.Info("collected apex league",
		"region", region, "tier", tier, "players", len(batch))

	return c.progress.Set(ctx, &models.Progress{
		TaskName: taskPlayers,
		Region:   region,
		Key:      league,
		Status:   models.ProgressDone,
		Detail:   fmt.Sprintf("%d players", len(batch)),
	})
}

func (c *PlayerCollector) collectEntries(ctx context.Context, region, platform, tier, division string) error {
	total := 0
	for page := 1; ; page++ {
		entries, err := c.client.LeagueEntries(ctx, platform, tier, division, page)
		if err != nil {
			return fmt.Errorf("fetch %s %s page %d: %w", tier, division, page, err)
		}
		if len(entries) == 0 {
			break
		}

		batch := make([]*models.Player, 0, len(entries))
		for _, e := range entries {
			batch = append(batch, &models.Player{
				PUUID:        e.PUUID,
				SummonerID:   e.SummonerID,
				Region:       region,
				Tier:         tier,
				Division:     e.Rank,
				LeaguePoints: e.LeaguePoints,
			})
		}
		if err := c.players.UpsertBatch(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
	}

	c.log.Info("collected ladder section",
		"region", region, "tier", tier, "division", division, "players", total)

	return c.progress.Set(ctx, &models.Progress{
		TaskName: taskPlayers,
		Region:   region,
		Key:      tier + "/" + division,
		Status:   models.ProgressDone,
		Detail:   fmt.Sprintf("%d players", total),
	})
}

func sortedRegions(regions map[string]config.RegionConfig) []string {
	out := make([]string, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
