package fitness

import (
	"context"

	"github.com/2beens/fitnesstracker/internal/tracker"
)

type trackRecorder interface {
	Track(ctx context.Context, userID string, req TrackRequest) (*Record, error)
}

// RecordFlusher persists tracker flushes directly, for trackers running in the server.
type RecordFlusher struct {
	recorder trackRecorder
}

func NewRecordFlusher(recorder trackRecorder) *RecordFlusher {
	return &RecordFlusher{
		recorder: recorder,
	}
}

func (f *RecordFlusher) Flush(ctx context.Context, payload tracker.FlushPayload) error {
	_, err := f.recorder.Track(ctx, payload.UserID, TrackRequest{
		Steps:        payload.Session.Steps,
		Distance:     payload.Session.DistanceMeters,
		Calories:     payload.Session.Calories,
		ActivityType: payload.Session.ActivityType.String(),
		Timestamp:    payload.Timestamp,
	})
	return err
}
