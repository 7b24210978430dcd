package collect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbonville/mastery-lab/internal/config"
	"github.com/tbonville/mastery-lab/internal/riot"
	"github.com/tbonville/mastery-lab/internal/storage/models"
	"github.com/tbonville/mastery-lab/internal/storage/repository"
)

const (
	taskMastery      = "mastery"
	masteryBatchSize = 500
)

// MasteryCollector snapshots the champion mastery of every player that
// appears in a stored match.
type MasteryCollector struct {
	client   *riot.Client
	mastery  repository.MasteryRepository
	progress repository.ProgressRepository
	regions  map[string]config.RegionConfig
	log      *slog.Logger
}

// NewMasteryCollector creates a mastery collector.
func NewMasteryCollector(client *riot.Client, mastery repository.MasteryRepository,
	progress repository.ProgressRepository, regions map[string]config.RegionConfig,
	log *slog.Logger) *MasteryCollector {
	return &MasteryCollector{
		client:   client,
		mastery:  mastery,
		progress: progress,
		regions:  regions,
		log:      log,
	}
}

// Run fetches mastery for participants that do not have a snapshot yet.
// Players whose lookup failed on a previous run are not retried.
func (c *MasteryCollector) Run(ctx context.Context) error {
	for _, region := range sortedRegions(c.regions) {
		if err := c.collectRegion(ctx, region, c.regions[region]); err != nil {
			return fmt.Errorf("collect mastery for %s: %w", region, err)
		}
	}
	return nil
}

func (c *MasteryCollector) collectRegion(ctx context.Context, region string, rc config.RegionConfig) error {
	processed := 0
	for {
		// Every player in a batch either gets a snapshot or a progress
		// record, and the pending query excludes both, so the set
		// strictly shrinks between iterations.
		pending, err := c.mastery.PendingPUUIDs(ctx, region, masteryBatchSize)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		for _, puuid := range pending {
			masteries, err := c.client.ChampionMasteries(ctx, rc.Platform, puuid)
			if err != nil {
				if riot.IsNotFound(err) {
					if err := c.markFailed(ctx, region, puuid); err != nil {
						return err
					}
					continue
				}
				return fmt.Errorf("mastery for %s: %w", puuid, err)
			}

			// An empty mastery list never satisfies the pending join, so
			// record it or the player would be refetched every pass.
			if len(masteries) == 0 {
				if err := c.progress.Set(ctx, &models.Progress{
					TaskName: taskMastery,
					Region:   region,
					Key:      puuid,
					Status:   models.ProgressExhausted,
					Detail:   "no mastery records",
				}); err != nil {
					return err
				}
				continue
			}

			batch := make([]*models.Mastery, 0, len(masteries))
			for _, m := range masteries {
				batch = append(batch, &models.Mastery{
					PUUID:         puuid,
					ChampionID:    m.ChampionID,
					MasteryPoints: m.ChampionPoints,
					MasteryLevel:  m.ChampionLevel,
				})
			}
			if err := c.mastery.UpsertBatch(ctx, batch); err != nil {
				return err
			}

			processed++
			if processed%progressLogEvery == 0 {
				c.log.Info("mastery collection progress",
					"region", region, "players", processed)
			}
		}
	}
}

func (c *MasteryCollector) markFailed(ctx context.Context, region, puuid string) error {
	return c.progress.Set(ctx, &models.Progress{
		TaskName: taskMastery,
		Region:   region,
		Key:      puuid,
		Status:   models.ProgressFailed,
		Detail:   "not found",
	})
}
