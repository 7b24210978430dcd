package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tbonville/mastery-lab/internal/analysis"
)

// ObservationFilter selects which participant rows feed an analysis run.
// Tiers lists the rank tiers to include; Divisions, when set, restricts the
// lowest listed tier to those divisions (so a filter like "diamond II and up"
// keeps all of master+ but only D2/D1). Patches, when set, restricts to the
// listed game versions.
type ObservationFilter struct {
	Tiers     []string
	Divisions []string
	Patches   []string
}

// ObservationRepository assembles the analysis feed from stored rows.
type ObservationRepository interface {
	Feed(ctx context.Context, filter ObservationFilter) ([]analysis.Observation, error)
}

type observationRepository struct {
	db *sql.DB
}

// NewObservationRepository creates a new observation repository.
func NewObservationRepository(db *sql.DB) ObservationRepository {
	return &observationRepository{db: db}
}

// Feed joins participants against mastery snapshots and player ranks.
// Participants whose player has no mastery snapshot or falls outside the
// filter are dropped. Rows are ordered so a rerun yields the same slice.
func (r *observationRepository) Feed(ctx context.Context, filter ObservationFilter) ([]analysis.Observation, error) {
	if len(filter.Tiers) == 0 {
		return nil, fmt.Errorf("observation feed: no tiers selected")
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT p.match_id, p.puuid, p.champion_name, p.win, m.mastery_points,
		       COALESCE(p.lane, ''), p.region, p.patch
		FROM match_participants p
		JOIN mastery m ON m.puuid = p.puuid AND m.champion_id = p.champion_id
		JOIN players pl ON pl.puuid = p.puuid
		WHERE pl.tier IN (`)
	sb.WriteString(placeholders(len(filter.Tiers)))
	sb.WriteString(`)`)

	args := make([]any, 0, len(filter.Tiers)+len(filter.Divisions)+len(filter.Patches)+1)
	for _, t := range filter.Tiers {
		args = append(args, t)
	}

	if len(filter.Divisions) > 0 {
		// The division cut applies only to the lowest tier in the filter.
		sb.WriteString(` AND (pl.tier <> ? OR pl.division IN (`)
		sb.WriteString(placeholders(len(filter.Divisions)))
		sb.WriteString(`))`)
		args = append(args, filter.Tiers[0])
		for _, d := range filter.Divisions {
			args = append(args, d)
		}
	}

	if len(filter.Patches) > 0 {
		sb.WriteString(` AND p.patch IN (`)
		sb.WriteString(placeholders(len(filter.Patches)))
		sb.WriteString(`)`)
		for _, pa := range filter.Patches {
			args = append(args, pa)
		}
	}

	sb.WriteString(` ORDER BY p.match_id, p.puuid`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query observation feed: %w", err)
	}
	defer rows.Close()

	var out []analysis.Observation
	for rows.Next() {
		var (
			obs analysis.Observation
			win int
		)
		if err := rows.Scan(&obs.MatchID, &obs.PlayerID, &obs.ChampionName, &win,
			&obs.MasteryPoints, &obs.Lane, &obs.Region, &obs.Patch); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		obs.Win = win != 0
		out = append(out, obs)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
