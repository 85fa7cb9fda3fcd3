package domain

// AchievementRank orders achievements by prestige.
type AchievementRank string

const (
	RankBronze  AchievementRank = "BRONZE"
	RankSilver  AchievementRank = "SILVER"
	RankGold    AchievementRank = "GOLD"
	RankDiamond AchievementRank = "DIAMOND"
)

// RuleKind discriminates the closed set of unlock rules.
type RuleKind int

const (
	RuleDistinctActivityTypes RuleKind = iota
	RuleStreak
	RuleCumulativeDistance
	RuleActivityCount
	RuleAtDate
	RuleFullCalendar
)

// UnlockRule is a tagged union over the rule kinds. Which fields are
// meaningful depends on Kind:
//
//	DistinctActivityTypes: Count
//	Streak:                Count, Activity
//	CumulativeDistance:    Distance, Activity
//	ActivityCount:         Count, Activity
//	AtDate:                Day
//	FullCalendar:          (none)
type UnlockRule struct {
	Kind     RuleKind
	Count    int
	Distance float64
	Activity Activity
	Day      int
}

// AchievementDefinition is one entry of the static achievement catalog.
type AchievementDefinition struct {
	Title       string
	Description string
	Rank        AchievementRank
	Rule        UnlockRule
}

// AchievementStatus is a catalog entry plus its unlocked state for one user.
type AchievementStatus struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Rank        AchievementRank `json:"rank"`
	Unlocked    bool            `json:"unlocked"`
}

// AchievementSummary is the result of evaluating the full catalog for a
// user. Achievements preserves catalog declaration order.
type AchievementSummary struct {
	Total        int                 `json:"total"`
	Unlocked     int                 `json:"unlocked"`
	Achievements []AchievementStatus `json:"achievements"`
}
