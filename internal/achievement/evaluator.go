package achievement

import (
	"sort"

	"github.com/challenge-tracker/internal/domain"
)

// Stats captures everything the unlock rules are judged against.
type Stats struct {
	Counts        map[domain.Activity]int
	Streaks       map[domain.Activity]int
	Distances     map[domain.Activity]float64
	DaysLogged    map[int]bool
	DistinctTypes int
}

// CollectStats computes per-activity counts and longest consecutive-day
// streaks in a single forward pass over the user's records. A streak breaks
// whenever the activity differs from the previous day's activity or the day
// gap is not exactly one. Distance totals are taken from the caller (the
// leaderboard aggregator already has them) instead of being recomputed.
func CollectStats(records []domain.ActivityRecord, distances map[domain.Activity]float64) Stats {
	stats := Stats{
		Counts:     make(map[domain.Activity]int),
		Streaks:    make(map[domain.Activity]int),
		Distances:  distances,
		DaysLogged: make(map[int]bool, len(records)),
	}
	if stats.Distances == nil {
		stats.Distances = make(map[domain.Activity]float64)
	}

	sorted := make([]domain.ActivityRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })

	prevDay := -2 // never adjacent to day 0
	prevActivity := domain.Activity("")
	run := 0

	for _, record := range sorted {
		stats.Counts[record.Activity]++
		stats.DaysLogged[record.Day] = true

		if record.Activity == prevActivity && record.Day == prevDay+1 {
			run++
		} else {
			run = 1
		}
		if run > stats.Streaks[record.Activity] {
			stats.Streaks[record.Activity] = run
		}

		prevDay = record.Day
		prevActivity = record.Activity
	}

	stats.DistinctTypes = len(stats.Counts)
	return stats
}

// Evaluate checks the full catalog against a user's records and distance
// totals. The result preserves catalog order and is a pure function of its
// inputs.
func Evaluate(records []domain.ActivityRecord, distances map[domain.Activity]float64, lastDay int) domain.AchievementSummary {
	stats := CollectStats(records, distances)
	defs := Catalog()

	summary := domain.AchievementSummary{
		Total:        len(defs),
		Achievements: make([]domain.AchievementStatus, 0, len(defs)),
	}

	for _, def := range defs {
		unlocked := unlockedBy(def.Rule, stats, lastDay)
		if unlocked {
			summary.Unlocked++
		}
		summary.Achievements = append(summary.Achievements, domain.AchievementStatus{
			Title:       def.Title,
			Description: def.Description,
			Rank:        def.Rank,
			Unlocked:    unlocked,
		})
	}

	return summary
}

func unlockedBy(rule domain.UnlockRule, stats Stats, lastDay int) bool {
	switch rule.Kind {
	case domain.RuleDistinctActivityTypes:
		return stats.DistinctTypes >= rule.Count
	case domain.RuleStreak:
		return stats.Streaks[rule.Activity] >= rule.Count
	case domain.RuleCumulativeDistance:
		return stats.Distances[rule.Activity] >= rule.Distance
	case domain.RuleActivityCount:
		return stats.Counts[rule.Activity] >= rule.Count
	case domain.RuleAtDate:
		return stats.DaysLogged[rule.Day]
	case domain.RuleFullCalendar:
		for day := 0; day <= lastDay; day++ {
			if !stats.DaysLogged[day] {
				return false
			}
		}
		return true
	}
	return false
}
