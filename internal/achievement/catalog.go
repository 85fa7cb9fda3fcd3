// Package achievement holds the static achievement catalog and the
// evaluator that checks a user's history against every unlock rule.
package achievement

import "github.com/challenge-tracker/internal/domain"

func distinctTypes(n int) domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleDistinctActivityTypes, Count: n}
}

func streak(n int, activity domain.Activity) domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleStreak, Count: n, Activity: activity}
}

func cumulativeDistance(d float64, activity domain.Activity) domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleCumulativeDistance, Distance: d, Activity: activity}
}

func activityCount(n int, activity domain.Activity) domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleActivityCount, Count: n, Activity: activity}
}

func atDate(day int) domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleAtDate, Day: day}
}

func fullCalendar() domain.UnlockRule {
	return domain.UnlockRule{Kind: domain.RuleFullCalendar}
}

// catalog is the process-wide achievement list. Declaration order is the
// display order, so entries must only ever be appended.
var catalog = []domain.AchievementDefinition{
	{Title: "Game on", Description: "Register one activity", Rank: domain.RankBronze, Rule: distinctTypes(1)},
	{Title: "Alternative training", Description: "Register two different activity types", Rank: domain.RankSilver, Rule: distinctTypes(2)},
	{Title: "Multisport master", Description: "Register all different activity types", Rank: domain.RankGold, Rule: distinctTypes(4)},

	{Title: "Walk of life", Description: "Register one walk activity", Rank: domain.RankBronze, Rule: activityCount(1, domain.ActivityWalk)},
	{Title: "Keep on walking", Description: "Register three walk activities", Rank: domain.RankSilver, Rule: activityCount(3, domain.ActivityWalk)},
	{Title: "Walk this way", Description: "Register six walk activities", Rank: domain.RankGold, Rule: activityCount(6, domain.ActivityWalk)},
	{Title: "Moon walker", Description: "Register ten walk activities", Rank: domain.RankDiamond, Rule: activityCount(10, domain.ActivityWalk)},

	{Title: "Run forrest run", Description: "Register one run activity", Rank: domain.RankBronze, Rule: activityCount(1, domain.ActivityRun)},
	{Title: "Keep on running", Description: "Register three run activities", Rank: domain.RankSilver, Rule: activityCount(3, domain.ActivityRun)},
	{Title: "Run to the hills", Description: "Register six run activities", Rank: domain.RankGold, Rule: activityCount(6, domain.ActivityRun)},
	{Title: "No one can stop you", Description: "Register ten run activities", Rank: domain.RankDiamond, Rule: activityCount(10, domain.ActivityRun)},

	{Title: "I want to ride my bicycle", Description: "Register one bike activity", Rank: domain.RankBronze, Rule: activityCount(1, domain.ActivityBike)},
	{Title: "Saddle sore", Description: "Register three bike activities", Rank: domain.RankSilver, Rule: activityCount(3, domain.ActivityBike)},
	{Title: "It's leg day", Description: "Register six bike activities", Rank: domain.RankGold, Rule: activityCount(6, domain.ActivityBike)},
	{Title: "The pain cave is my home", Description: "Register ten bike activities", Rank: domain.RankDiamond, Rule: activityCount(10, domain.ActivityBike)},

	{Title: "Let it snow", Description: "Register one ski activity", Rank: domain.RankBronze, Rule: activityCount(1, domain.ActivitySki)},
	{Title: "Double pole is the shit", Description: "Register three ski activities", Rank: domain.RankSilver, Rule: activityCount(3, domain.ActivitySki)},
	{Title: "Need more wax", Description: "Register six ski activities", Rank: domain.RankGold, Rule: activityCount(6, domain.ActivitySki)},
	{Title: "Swix blue extra for breakfast", Description: "Register ten ski activities", Rank: domain.RankDiamond, Rule: activityCount(10, domain.ActivitySki)},

	{Title: "Half marathon", Description: "Register 21k running", Rank: domain.RankSilver, Rule: cumulativeDistance(21, domain.ActivityRun)},
	{Title: "Marathon", Description: "Register 42k running", Rank: domain.RankGold, Rule: cumulativeDistance(42, domain.ActivityRun)},
	{Title: "Century ride", Description: "Register 100k cycle", Rank: domain.RankSilver, Rule: cumulativeDistance(100, domain.ActivityBike)},
	{Title: "VR315", Description: "Register 315k cycle", Rank: domain.RankDiamond, Rule: cumulativeDistance(315, domain.ActivityBike)},
	{Title: "Vasaloppet", Description: "Register 90k skiing", Rank: domain.RankDiamond, Rule: cumulativeDistance(90, domain.ActivitySki)},

	{Title: "Run x3", Description: "Three running days in a row", Rank: domain.RankSilver, Rule: streak(3, domain.ActivityRun)},
	{Title: "Run x5", Description: "Five running days in a row", Rank: domain.RankGold, Rule: streak(5, domain.ActivityRun)},
	{Title: "Run x7", Description: "Seven running days in a row", Rank: domain.RankDiamond, Rule: streak(7, domain.ActivityRun)},
	{Title: "Bike x3", Description: "Three biking days in a row", Rank: domain.RankSilver, Rule: streak(3, domain.ActivityBike)},
	{Title: "Bike x5", Description: "Five biking days in a row", Rank: domain.RankGold, Rule: streak(5, domain.ActivityBike)},
	{Title: "Bike x7", Description: "Seven biking days in a row", Rank: domain.RankDiamond, Rule: streak(7, domain.ActivityBike)},
	{Title: "Walk x3", Description: "Three walking days in a row", Rank: domain.RankSilver, Rule: streak(3, domain.ActivityWalk)},
	{Title: "Walk x5", Description: "Five walking days in a row", Rank: domain.RankGold, Rule: streak(5, domain.ActivityWalk)},
	{Title: "Walk x7", Description: "Seven walking days in a row", Rank: domain.RankDiamond, Rule: streak(7, domain.ActivityWalk)},
	{Title: "Ski x3", Description: "Three skiing days in a row", Rank: domain.RankSilver, Rule: streak(3, domain.ActivitySki)},
	{Title: "Ski x5", Description: "Five skiing days in a row", Rank: domain.RankGold, Rule: streak(5, domain.ActivitySki)},
	{Title: "Ski x7", Description: "Seven skiing days in a row", Rank: domain.RankDiamond, Rule: streak(7, domain.ActivitySki)},

	{Title: "Active every day", Description: "Register an activity every day", Rank: domain.RankDiamond, Rule: fullCalendar()},
	{Title: "Ho Ho Ho", Description: "Register an activity on Christmas eve", Rank: domain.RankDiamond, Rule: atDate(23)},
}

// Catalog returns the full achievement catalog in declaration order.
func Catalog() []domain.AchievementDefinition {
	return catalog
}
