package collect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbonville/mastery-lab/internal/config"
	"github.com/tbonville/mastery-lab/internal/ddragon"
	"github.com/tbonville/mastery-lab/internal/riot"
	"github.com/tbonville/mastery-lab/internal/storage/models"
	"github.com/tbonville/mastery-lab/internal/storage/repository"
)

const (
	taskMatchIDs    = "match_ids"
	taskMatchDetail = "match_detail"

	// Match-v5 pages are capped at 100 ids. Three pages per player keeps
	// discovery within the current season for almost everyone.
	matchIDPageSize  = 100
	matchIDMaxPages  = 3
	detailBatchSize  = 500
	progressLogEvery = 1000
)

// MatchCollector discovers match ids from player histories and fetches
// their details, keeping only valid ranked games on allowed patches.
type MatchCollector struct {
	client   *riot.Client
	players  repository.PlayerRepository
	matches  repository.MatchRepository
	progress repository.ProgressRepository

	regions       map[string]config.RegionConfig
	queueID       int
	minDuration   int
	matchTarget   int
	patches       patchSet
	championNames map[int]string
	log           *slog.Logger
}

// NewMatchCollector creates a match collector. allowedPatches gates which
// game versions are stored; championNames maps champion ids to their Data
// Dragon display names, since match payloads carry internal identifiers
// like "MonkeyKing" instead of "Wukong".
func NewMatchCollector(client *riot.Client, players repository.PlayerRepository,
	matches repository.MatchRepository, progress repository.ProgressRepository,
	cfg config.CollectionConfig, allowedPatches []string,
	championNames map[int]string, log *slog.Logger) *MatchCollector {
	return &MatchCollector{
		client:        client,
		players:       players,
		matches:       matches,
		progress:      progress,
		regions:       cfg.Regions,
		queueID:       cfg.QueueID,
		minDuration:   cfg.MinGameDuration,
		matchTarget:   cfg.MatchTarget,
		patches:       newPatchSet(allowedPatches),
		championNames: championNames,
		log:           log,
	}
}

// Run first discovers match ids from every stored player's history, then
// fetches details for ids whose participants are not stored yet. Both
// phases resume where a previous run stopped.
func (c *MatchCollector) Run(ctx context.Context) error {
	for _, region := range sortedRegions(c.regions) {
		rc := c.regions[region]
		if err := c.discoverIDs(ctx, region, rc); err != nil {
			return fmt.Errorf("discover match ids for %s: %w", region, err)
		}
		if err := c.fetchDetails(ctx, region, rc); err != nil {
			return fmt.Errorf("fetch match details for %s: %w", region, err)
		}
	}
	return nil
}

func (c *MatchCollector) discoverIDs(ctx context.Context, region string, rc config.RegionConfig) error {
	puuids, err := c.players.PUUIDs(ctx, region)
	if err != nil {
		return err
	}
	done, err := c.progress.DoneKeys(ctx, taskMatchIDs, region)
	if err != nil {
		return err
	}

	processed := 0
	for _, puuid := range puuids {
		if done[puuid] {
			continue
		}

		discovered := 0
		for page := 0; page < matchIDMaxPages; page++ {
			ids, err := c.client.MatchIDsByPUUID(ctx, rc.Routing, puuid,
				page*matchIDPageSize, matchIDPageSize, c.queueID)
			if err != nil {
				if riot.IsNotFound(err) {
					break
				}
				return fmt.Errorf("match ids for %s: %w", puuid, err)
			}

			batch := make([]*models.MatchID, 0, len(ids))
			for _, id := range ids {
				batch = append(batch, &models.MatchID{
					MatchID:            id,
					Region:             region,
					CollectedFromPUUID: puuid,
				})
			}
			inserted, err := c.matches.InsertMatchIDs(ctx, batch)
			if err != nil {
				return err
			}
			discovered += inserted

			if len(ids) < matchIDPageSize {
				break
			}
		}

		if err := c.progress.Set(ctx, &models.Progress{
			TaskName: taskMatchIDs,
			Region:   region,
			Key:      puuid,
			Status:   models.ProgressDone,
			Detail:   fmt.Sprintf("%d new ids", discovered),
		}); err != nil {
			return err
		}

		processed++
		if processed%progressLogEvery == 0 {
			c.log.Info("match id discovery progress",
				"region", region, "players", processed, "of", len(puuids))
		}
	}

	total, err := c.matches.CountMatchIDs(ctx, region)
	if err != nil {
		return err
	}
	c.log.Info("match id discovery complete", "region", region, "ids", total)
	return nil
}

func (c *MatchCollector) fetchDetails(ctx context.Context, region string, rc config.RegionConfig) error {
	for {
		stored, err := c.matches.CountParticipants(ctx, "")
		if err != nil {
			return err
		}
		if c.matchTarget > 0 && stored/10 >= c.matchTarget {
			c.log.Info("match target reached", "matches", stored/10)
			return nil
		}

		pending, err := c.matches.PendingMatchIDs(ctx, region, detailBatchSize)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		for _, matchID := range pending {
			if err := c.fetchOne(ctx, region, rc, matchID); err != nil {
				return err
			}
		}
	}
}

func (c *MatchCollector) fetchOne(ctx context.Context, region string, rc config.RegionConfig, matchID string) error {
	match, err := c.client.Match(ctx, rc.Routing, matchID)
	if err != nil {
		if riot.IsNotFound(err) {
			return c.reject(ctx, region, matchID, "not found")
		}
		return fmt.Errorf("match %s: %w", matchID, err)
	}

	patch := ddragon.PatchPrefix(match.Info.GameVersion)
	switch {
	case match.Info.QueueID != c.queueID:
		return c.reject(ctx, region, matchID, "wrong queue")
	case match.Info.GameDuration < int64(c.minDuration):
		return c.reject(ctx, region, matchID, "remake")
	case !c.patches.contains(patch):
		return c.reject(ctx, region, matchID, "patch "+patch)
	}

	// A detail with no participant rows would never leave the pending set.
	if len(match.Info.Participants) == 0 {
		return c.reject(ctx, region, matchID, "no participants")
	}

	rows := make([]*models.MatchParticipant, 0, len(match.Info.Participants))
	for _, p := range match.Info.Participants {
		rows = append(rows, &models.MatchParticipant{
			MatchID:      matchID,
			PUUID:        p.PUUID,
			ChampionID:   p.ChampionID,
			ChampionName: c.displayName(p.ChampionID, p.ChampionName),
			Win:          p.Win,
			Lane:         p.TeamPosition,
			Region:       region,
			Patch:        patch,
			GameDuration: int(match.Info.GameDuration),
		})
	}
	return c.matches.InsertParticipants(ctx, rows)
}

// displayName resolves a champion id to its display name, falling back to
// the name the match payload carried when the id is unknown.
func (c *MatchCollector) displayName(championID int, fallback string) string {
	if name, ok := c.championNames[championID]; ok {
		return name
	}
	return fallback
}

// reject records a match that was fetched but not stored, so the pending
// query stops returning it.
func (c *MatchCollector) reject(ctx context.Context, region, matchID, reason string) error {
	return c.progress.Set(ctx, &models.Progress{
		TaskName: taskMatchDetail,
		Region:   region,
		Key:      matchID,
		Status:   models.ProgressExhausted,
		Detail:   reason,
	})
}
