// Package analysis implements the mastery-experience analysis engine.
// It turns a snapshot of per-participant match observations into bucketed
// win-rate statistics, composite scores, threshold-crossover estimates and
// learning-curve decompositions, as one deterministic batch transformation.
package analysis

import (
	"fmt"
)

// Observation is one participant-in-match record. Observations are supplied
// wholesale per analysis run and never mutated by the engine.
type Observation struct {
	MatchID       string
	PlayerID      string
	ChampionName  string
	Win           bool
	MasteryPoints int64
	Lane          string // empty when the snapshot predates lane tracking
	Region        string
	Patch         string
}

// FeedVersion identifies the shape of a raw observation feed. Older
// snapshots lack lane and patch columns; normalization fills them in once at
// ingestion so downstream components never null-check per field.
type FeedVersion int

const (
	// FeedV1 predates lane and patch tracking.
	FeedV1 FeedVersion = 1
	// FeedV2 is the current shape with lane and patch populated.
	FeedV2 FeedVersion = 2
)

// InputError reports a malformed or empty observation feed. It is fatal for
// the partition being analyzed but must not affect other partitions.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid observation feed: %s", e.Reason)
}

// NormalizeFeed validates a raw feed and returns run-ready observations.
// It is the single normalization point for versioned input: missing optional
// fields become explicit empty values here, and structurally invalid records
// abort the run with an InputError.
func NormalizeFeed(version FeedVersion, raw []Observation) ([]Observation, error) {
	if len(raw) == 0 {
		return nil, &InputError{Reason: "feed is empty"}
	}
	if version != FeedV1 && version != FeedV2 {
		return nil, &InputError{Reason: fmt.Sprintf("unknown feed version %d", version)}
	}

	out := make([]Observation, len(raw))
	for i, obs := range raw {
		if obs.ChampionName == "" {
			return nil, &InputError{Reason: fmt.Sprintf("record %d has no champion name", i)}
		}
		if obs.MasteryPoints < 0 {
			return nil, &InputError{Reason: fmt.Sprintf("record %d has negative mastery points", i)}
		}
		if version == FeedV1 {
			// V1 snapshots carry no lane or patch: normalize to explicit
			// empties rather than letting consumers guess.
			obs.Lane = ""
			obs.Patch = ""
		}
		out[i] = obs
	}
	return out, nil
}
