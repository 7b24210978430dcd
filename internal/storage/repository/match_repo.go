package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tbonville/mastery-lab/internal/storage/models"
)

// MatchRepository provides methods for managing match ids and participants.
type MatchRepository interface {
	InsertMatchIDs(ctx context.Context, ids []*models.MatchID) (int, error)
	PendingMatchIDs(ctx context.Context, region string, limit int) ([]string, error)
	InsertParticipants(ctx context.Context, participants []*models.MatchParticipant) error
	CountMatchIDs(ctx context.Context, region string) (int, error)
	CountParticipants(ctx context.Context, region string) (int, error)
}

type matchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *sql.DB) MatchRepository {
	return &matchRepository{db: db}
}

// InsertMatchIDs stores newly discovered match ids, skipping duplicates.
// Returns the number of ids actually inserted.
func (r *matchRepository) InsertMatchIDs(ctx context.Context, ids []*models.MatchID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO match_ids (match_id, region, collected_from_puuid)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, m := range ids {
		res, err := stmt.ExecContext(ctx, m.MatchID, m.Region, m.CollectedFromPUUID)
		if err != nil {
			return 0, fmt.Errorf("insert match id %s: %w", m.MatchID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// PendingMatchIDs returns match ids whose detail has neither been stored nor
// recorded as rejected in collection_progress.
func (r *matchRepository) PendingMatchIDs(ctx context.Context, region string, limit int) ([]string, error) {
	query := `
		SELECT m.match_id
		FROM match_ids m
		LEFT JOIN match_participants p ON p.match_id = m.match_id
		LEFT JOIN collection_progress cp
			ON cp.task_name = 'match_detail' AND cp.region = m.region AND cp.key = m.match_id
		WHERE m.region = ? AND p.match_id IS NULL AND cp.key IS NULL
		ORDER BY m.match_id
	`
	args := []any{region}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending matches: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan match id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertParticipants stores the flattened participant rows for fetched matches.
func (r *matchRepository) InsertParticipants(ctx context.Context, participants []*models.MatchParticipant) error {
	if len(participants) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO match_participants
			(match_id, puuid, champion_id, champion_name, win, lane, region, patch, game_duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range participants {
		win := 0
		if p.Win {
			win = 1
		}
		if _, err := stmt.ExecContext(ctx,
			p.MatchID, p.PUUID, p.ChampionID, p.ChampionName, win,
			p.Lane, p.Region, p.Patch, p.GameDuration,
		); err != nil {
			return fmt.Errorf("insert participant %s/%s: %w", p.MatchID, p.PUUID, err)
		}
	}

	return tx.Commit()
}

// CountMatchIDs returns the number of discovered match ids.
func (r *matchRepository) CountMatchIDs(ctx context.Context, region string) (int, error) {
	return r.count(ctx, `match_ids`, region)
}

// CountParticipants returns the number of stored participant rows.
func (r *matchRepository) CountParticipants(ctx context.Context, region string) (int, error) {
	return r.count(ctx, `match_participants`, region)
}

func (r *matchRepository) count(ctx context.Context, table, region string) (int, error) {
	query := `SELECT COUNT(*) FROM ` + table
	var args []any
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}
