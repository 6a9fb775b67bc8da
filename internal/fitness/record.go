package fitness

import (
	"time"

	"github.com/2beens/fitnesstracker/internal/tracker"
)

var ErrInvalidActivityType = tracker.ErrInvalidActivityType

// Record is one persisted flush of a tracking session. A user has many of them per day.
type Record struct {
	ID           int       `json:"id"`
	UserID       string    `json:"userId"`
	Steps        int       `json:"steps"`
	Distance     float64   `json:"distance"`
	Calories     float64   `json:"calories"`
	ActivityType string    `json:"activityType"`
	Timestamp    time.Time `json:"timestamp"`
}

// TrackRequest is the body of the track endpoint. The user is never taken from it.
type TrackRequest struct {
	Steps        int       `json:"steps"`
	Distance     float64   `json:"distance"`
	Calories     float64   `json:"calories"`
	ActivityType string    `json:"activityType"`
	Timestamp    time.Time `json:"timestamp"`
}
