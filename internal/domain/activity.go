package domain

// Activity is one of the fixed activity types a participant can log.
type Activity string

const (
	ActivityBike Activity = "BIKE"
	ActivityRun  Activity = "RUN"
	ActivityWalk Activity = "WALK"
	ActivitySki  Activity = "SKI"
)

// Activities lists every activity type in display order.
var Activities = []Activity{ActivityBike, ActivityRun, ActivityWalk, ActivitySki}

// Valid reports whether a is one of the known activity types.
func (a Activity) Valid() bool {
	switch a {
	case ActivityBike, ActivityRun, ActivityWalk, ActivitySki:
		return true
	}
	return false
}

// Event is a single challenge day with its base target distance.
// Events are generated once at calendar initialization and never change,
// so they are a stable scoring denominator.
type Event struct {
	Day            int `json:"day"`
	TargetDistance int `json:"target_distance"`
}

// ActivityRecord is one logged activity. At most one record exists per
// (user, day) pair; records are insert-only.
type ActivityRecord struct {
	UserID   string   `json:"user_id"`
	Day      int      `json:"day"`
	Activity Activity `json:"activity"`
	Distance float64  `json:"distance"`
	Score    float64  `json:"score"`
}

// ActivityTarget is the per-activity scaled target for a single day:
// the day's base target multiplied by the activity's effort multiplier.
type ActivityTarget struct {
	Activity Activity `json:"activity"`
	Value    float64  `json:"value"`
}

// ActivitySubmission is an activity logging request as it arrives from
// the HTTP layer or the Kafka ingestion topic.
type ActivitySubmission struct {
	UserID   string   `json:"user_id"`
	Day      int      `json:"day"`
	Activity Activity `json:"activity"`
	Distance float64  `json:"distance"`
}
