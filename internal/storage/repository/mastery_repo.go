package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tbonville/mastery-lab/internal/storage/models"
)

// MasteryRepository provides methods for managing mastery snapshots.
type MasteryRepository interface {
	UpsertBatch(ctx context.Context, entries []*models.Mastery) error
	PendingPUUIDs(ctx context.Context, region string, limit int) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type masteryRepository struct {
	db *sql.DB
}

// NewMasteryRepository creates a new mastery repository.
func NewMasteryRepository(db *sql.DB) MasteryRepository {
	return &masteryRepository{db: db}
}

// UpsertBatch stores mastery snapshots, replacing any stale ones.
func (r *masteryRepository) UpsertBatch(ctx context.Context, entries []*models.Mastery) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mastery (puuid, champion_id, mastery_points, mastery_level)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(puuid, champion_id) DO UPDATE SET
			mastery_points = excluded.mastery_points,
			mastery_level = excluded.mastery_level,
			collected_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range entries {
		if _, err := stmt.ExecContext(ctx,
			m.PUUID, m.ChampionID, m.MasteryPoints, m.MasteryLevel,
		); err != nil {
			return fmt.Errorf("upsert mastery %s/%d: %w", m.PUUID, m.ChampionID, err)
		}
	}

	return tx.Commit()
}

// PendingPUUIDs returns players that appear in match participants but have
// neither a mastery snapshot nor a collection_progress record. Without the
// progress exclusion a batch full of failed lookups would be returned
// forever and block every player sorting after it.
func (r *masteryRepository) PendingPUUIDs(ctx context.Context, region string, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT p.puuid
		FROM match_participants p
		LEFT JOIN mastery m ON m.puuid = p.puuid
		LEFT JOIN collection_progress cp
			ON cp.task_name = 'mastery' AND cp.region = p.region AND cp.key = p.puuid
		WHERE p.region = ? AND m.puuid IS NULL AND cp.key IS NULL
		ORDER BY p.puuid
	`
	args := []any{region}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending mastery: %w", err)
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

// Count returns the number of stored mastery rows.
func (r *masteryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mastery`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count mastery: %w", err)
	}
	return count, nil
}
