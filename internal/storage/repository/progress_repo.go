package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tbonville/mastery-lab/internal/storage/models"
)

// ProgressRepository tracks resumable collection task positions.
type ProgressRepository interface {
	Set(ctx context.Context, p *models.Progress) error
	Get(ctx context.Context, task, region, key string) (*models.Progress, error)
	ListByStatus(ctx context.Context, task, region, status string) ([]*models.Progress, error)
	DoneKeys(ctx context.Context, task, region string) (map[string]bool, error)
}

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *sql.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// Set records the state of one task position, overwriting any previous state.
func (r *progressRepository) Set(ctx context.Context, p *models.Progress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collection_progress (task_name, region, key, status, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(task_name, region, key) DO UPDATE SET
			status = excluded.status,
			detail = excluded.detail,
			updated_at = CURRENT_TIMESTAMP
	`, p.TaskName, p.Region, p.Key, p.Status, p.Detail)
	if err != nil {
		return fmt.Errorf("set progress %s/%s/%s: %w", p.TaskName, p.Region, p.Key, err)
	}
	return nil
}

// Get retrieves one task position, or nil when it has never been recorded.
func (r *progressRepository) Get(ctx context.Context, task, region, key string) (*models.Progress, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT task_name, region, key, status, COALESCE(detail, ''), updated_at
		FROM collection_progress
		WHERE task_name = ? AND region = ? AND key = ?
	`, task, region, key)

	var p models.Progress
	err := row.Scan(&p.TaskName, &p.Region, &p.Key, &p.Status, &p.Detail, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

// ListByStatus returns all positions of a task in the given status.
func (r *progressRepository) ListByStatus(ctx context.Context, task, region, status string) ([]*models.Progress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task_name, region, key, status, COALESCE(detail, ''), updated_at
		FROM collection_progress
		WHERE task_name = ? AND region = ? AND status = ?
		ORDER BY key
	`, task, region, status)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []*models.Progress
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.TaskName, &p.Region, &p.Key, &p.Status, &p.Detail, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// DoneKeys returns the set of keys a task has already completed, so a rerun
// can skip them.
func (r *progressRepository) DoneKeys(ctx context.Context, task, region string) (map[string]bool, error) {
	done, err := r.ListByStatus(ctx, task, region, models.ProgressDone)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(done))
	for _, p := range done {
		keys[p.Key] = true
	}
	return keys, nil
}
