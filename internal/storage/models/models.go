// Package models defines the database row types for the mastery snapshot.
package models

import "time"

// Player is one ranked player discovered during collection.
type Player struct {
	PUUID        string
	SummonerID   string
	Region       string
	Tier         string
	Division     string
	LeaguePoints int
	CollectedAt  time.Time
}

// MatchID records a match discovered from a player's history, before its
// detail has been fetched.
type MatchID struct {
	MatchID            string
	Region             string
	CollectedFromPUUID string
	CollectedAt        time.Time
}

// MatchParticipant is one flattened participant row: ten per match.
type MatchParticipant struct {
	MatchID      string
	PUUID        string
	ChampionID   int
	ChampionName string
	Win          bool
	Lane         string
	Region       string
	Patch        string
	GameDuration int
}

// Mastery is a (player, champion) mastery snapshot.
type Mastery struct {
	PUUID         string
	ChampionID    int
	MasteryPoints int64
	MasteryLevel  int
	CollectedAt   time.Time
}

// Progress tracks a resumable collection task position.
type Progress struct {
	TaskName  string
	Region    string
	Key       string
	Status    string
	Detail    string
	UpdatedAt time.Time
}

// Progress status values.
const (
	ProgressPending   = "pending"
	ProgressDone      = "done"
	ProgressFailed    = "failed"
	ProgressExhausted = "exhausted"
)
