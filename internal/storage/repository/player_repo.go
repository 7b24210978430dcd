// Package repository provides data access for the mastery snapshot tables.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tbonville/mastery-lab/internal/storage/models"
)

// PlayerRepository provides methods for managing collected players.
type PlayerRepository interface {
	UpsertBatch(ctx context.Context, players []*models.Player) error
	GetByPUUID(ctx context.Context, puuid string) (*models.Player, error)
	PUUIDs(ctx context.Context, region string) ([]string, error)
	PUUIDsByTiers(ctx context.Context, region string, tiers []string) ([]string, error)
	Count(ctx context.Context, region string) (int, error)
}

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *sql.DB) PlayerRepository {
	return &playerRepository{db: db}
}

// UpsertBatch inserts or refreshes players in a single transaction.
func (r *playerRepository) UpsertBatch(ctx context.Context, players []*models.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (puuid, summoner_id, region, tier, division, league_points)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			tier = excluded.tier,
			division = excluded.division,
			league_points = excluded.league_points
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx,
			p.PUUID, p.SummonerID, p.Region, p.Tier, p.Division, p.LeaguePoints,
		); err != nil {
			return fmt.Errorf("upsert player %s: %w", p.PUUID, err)
		}
	}

	return tx.Commit()
}

// GetByPUUID retrieves a player by PUUID.
func (r *playerRepository) GetByPUUID(ctx context.Context, puuid string) (*models.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT puuid, summoner_id, region, tier, COALESCE(division, ''), COALESCE(league_points, 0)
		FROM players
		WHERE puuid = ?
	`, puuid)

	var p models.Player
	err := row.Scan(&p.PUUID, &p.SummonerID, &p.Region, &p.Tier, &p.Division, &p.LeaguePoints)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return &p, nil
}

// PUUIDs returns all player PUUIDs, optionally restricted to one region.
func (r *playerRepository) PUUIDs(ctx context.Context, region string) ([]string, error) {
	query := `SELECT puuid FROM players`
	var args []any
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}
	query += ` ORDER BY puuid`
	return r.queryStrings(ctx, query, args...)
}

// PUUIDsByTiers returns PUUIDs for players in any of the given tiers.
func (r *playerRepository) PUUIDsByTiers(ctx context.Context, region string, tiers []string) ([]string, error) {
	if len(tiers) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(tiers)-1) + "?"
	query := fmt.Sprintf(`SELECT puuid FROM players WHERE region = ? AND tier IN (%s) ORDER BY puuid`, placeholders)

	args := make([]any, 0, len(tiers)+1)
	args = append(args, region)
	for _, t := range tiers {
		args = append(args, t)
	}
	return r.queryStrings(ctx, query, args...)
}

// Count returns the player count, optionally for one region.
func (r *playerRepository) Count(ctx context.Context, region string) (int, error) {
	query := `SELECT COUNT(*) FROM players`
	var args []any
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

func (r *playerRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan puuid: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
