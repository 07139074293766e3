package models

// RawMatch is one ranked match record as produced by the upstream ingestion
// pipeline. Team rosters arrive as embedded JSON strings of TeamSlot arrays;
// the builder decodes them and counts records it cannot decode as malformed.
type RawMatch struct {
	MatchID  string `json:"match_id"`
	BlueTeam string `json:"blue_team"`
	RedTeam  string `json:"red_team"`
	Winner   string `json:"winner"` // "BLUE" or "RED"
}

// TeamSlot is one pick inside a team roster. The upstream format keeps the
// keys short: "c" for champion, "r" for role.
type TeamSlot struct {
	Champion string `json:"c"`
	Role     string `json:"r"`
}

// ParticipantRow is one champion's outcome in one match, the unit the
// statistics builder aggregates over.
type ParticipantRow struct {
	MatchID  string   `json:"match_id"`
	Champion string   `json:"champ"`
	Role     string   `json:"target_role"`
	Win      bool     `json:"win"`
	Allies   []string `json:"allies"`
	Enemies  []string `json:"enemies"`
}
