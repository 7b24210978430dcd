package riot

// LeagueEntry is one row from the league entries endpoint.
type LeagueEntry struct {
	PUUID        string `json:"puuid"`
	SummonerID   string `json:"summonerId"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// LeagueList is an apex league (challenger, grandmaster, master) roster.
// Its entries omit the tier field, which is carried at the list level.
type LeagueList struct {
	Tier    string       `json:"tier"`
	Entries []LeagueItem `json:"entries"`
}

// LeagueItem is one member of an apex league roster.
type LeagueItem struct {
	PUUID        string `json:"puuid"`
	SummonerID   string `json:"summonerId"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
}

// Match is the match detail payload, trimmed to the fields the collector uses.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata carries the match id and participant PUUIDs.
type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

// MatchInfo carries per-game fields and the ten participant rows.
type MatchInfo struct {
	GameDuration int64              `json:"gameDuration"`
	GameVersion  string             `json:"gameVersion"`
	QueueID      int                `json:"queueId"`
	Participants []MatchParticipant `json:"participants"`
}

// MatchParticipant is one player's line in a match detail.
type MatchParticipant struct {
	PUUID        string `json:"puuid"`
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
	Win          bool   `json:"win"`
	TeamPosition string `json:"teamPosition"`
}

// ChampionMastery is one (player, champion) mastery record.
type ChampionMastery struct {
	PUUID          string `json:"puuid"`
	ChampionID     int    `json:"championId"`
	ChampionLevel  int    `json:"championLevel"`
	ChampionPoints int64  `json:"championPoints"`
}
