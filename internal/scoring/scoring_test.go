package scoring

import (
	"testing"

	"github.com/challenge-tracker/internal/domain"
)

func TestScoreStaysInRange(t *testing.T) {
	distances := []float64{-5, 0, 0.1, 1, 3, 7, 21, 1000, 1e9}
	targets := []int{1, 3, 5, 7, 21}

	for _, activity := range domain.Activities {
		for _, target := range targets {
			for _, distance := range distances {
				score := Score(activity, distance, target)
				if score < 0 || score > MaxScore {
					t.Errorf("Score(%s, %v, %d) = %v, want within [0, %v]",
						activity, distance, target, score, MaxScore)
				}
			}
		}
	}
}

func TestScoreMonotonicInDistance(t *testing.T) {
	prev := -1.0
	for distance := 0.0; distance <= 30; distance += 0.5 {
		score := Score(domain.ActivityRun, distance, 7)
		if score < prev {
			t.Fatalf("score decreased: Score(RUN, %v, 7) = %v, previous %v", distance, score, prev)
		}
		prev = score
	}
	if prev != MaxScore {
		t.Errorf("score never reached the cap, got %v", prev)
	}
}

func TestScoreHitsCapExactly(t *testing.T) {
	// Target 21, RUN multiplier 1: running 21 km is exactly a full score.
	if got := Score(domain.ActivityRun, 21, 21); got != MaxScore {
		t.Errorf("Score(RUN, 21, 21) = %v, want %v", got, MaxScore)
	}
	// Anything beyond the full distance is still capped.
	if got := Score(domain.ActivityRun, 42, 21); got != MaxScore {
		t.Errorf("Score(RUN, 42, 21) = %v, want %v", got, MaxScore)
	}
}

func TestScoreAppliesMultiplier(t *testing.T) {
	// Biking has a 3x multiplier, so 15 km on a bike scores like 5 km on foot.
	bike := Score(domain.ActivityBike, 15, 5)
	run := Score(domain.ActivityRun, 5, 5)
	if bike != run {
		t.Errorf("Score(BIKE, 15, 5) = %v, want %v (same as Score(RUN, 5, 5))", bike, run)
	}

	ski := Score(domain.ActivitySki, 10, 5)
	if ski != run {
		t.Errorf("Score(SKI, 10, 5) = %v, want %v", ski, run)
	}

	walk := Score(domain.ActivityWalk, 5, 5)
	if walk != run {
		t.Errorf("Score(WALK, 5, 5) = %v, want %v", walk, run)
	}
}

func TestScoreClampsNegativeDistance(t *testing.T) {
	if got := Score(domain.ActivityWalk, -10, 5); got != 0 {
		t.Errorf("Score(WALK, -10, 5) = %v, want 0", got)
	}
}

func TestBackfillHalvesScore(t *testing.T) {
	if got := Backfill(10); got != 5 {
		t.Errorf("Backfill(10) = %v, want 5", got)
	}
	if got := Backfill(0); got != 0 {
		t.Errorf("Backfill(0) = %v, want 0", got)
	}
}
