// Package scoring computes the 0-10 score for a single logged activity
// against the day's target distance.
package scoring

import "github.com/challenge-tracker/internal/domain"

// MaxScore is the cap applied to every computed score.
const MaxScore = 10.0

// multipliers reflect the relative effort-to-distance ratio per activity:
// a kilometre on a bike is cheaper than a kilometre on foot.
var multipliers = map[domain.Activity]float64{
	domain.ActivityBike: 3,
	domain.ActivitySki:  2,
	domain.ActivityRun:  1,
	domain.ActivityWalk: 1,
}

// Multiplier returns the effort multiplier for an activity type.
func Multiplier(activity domain.Activity) float64 {
	if m, ok := multipliers[activity]; ok {
		return m
	}
	return 1
}

// Score computes the score for a distance logged against a day's base
// target. Negative distances count as zero and the result never exceeds
// MaxScore, no matter how implausible the distance.
func Score(activity domain.Activity, distance float64, targetDistance int) float64 {
	if distance < 0 {
		distance = 0
	}
	score := MaxScore * (distance / Multiplier(activity)) / float64(targetDistance)
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Backfill halves a score for an entry logged after its day has passed,
// so same-day logging always beats catching up later.
func Backfill(score float64) float64 {
	return score / 2
}
