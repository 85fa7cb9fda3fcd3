package domain

// RankCounts tallies a user's unlocked achievements per rank.
type RankCounts struct {
	Bronze  int `json:"bronze"`
	Silver  int `json:"silver"`
	Gold    int `json:"gold"`
	Diamond int `json:"diamond"`
}

// LeaderboardEntry is one user's derived standing. Entries are recomputed
// from activity records on every query and never persisted.
type LeaderboardEntry struct {
	UserID       string     `json:"user_id"`
	Username     string     `json:"username"`
	TotalScore   float64    `json:"total_score"`
	BikeDistance float64    `json:"bike_dst"`
	RunDistance  float64    `json:"run_dst"`
	WalkDistance float64    `json:"walk_dst"`
	SkiDistance  float64    `json:"ski_dst"`
	Achievements RankCounts `json:"achievements"`
}

// LeaderboardInfo is the full board returned to the caller.
type LeaderboardInfo struct {
	TotalEntries int                `json:"total_entries"`
	StartOfRange int                `json:"start_of_range"`
	Details      []LeaderboardEntry `json:"details"`
}
