package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	ErrSensorPermissionDenied = errors.New("motion sensor permission denied")
	ErrSensorUnavailable      = errors.New("motion sensor not available")
)

// FlushObserver is notified after every flush attempt, from the flush goroutine.
type FlushObserver func(payload FlushPayload, err error)

type Option func(t *Tracker)

func WithFlushInterval(interval time.Duration) Option {
	return func(t *Tracker) {
		t.policy = NewFlushPolicy(interval)
	}
}

func WithStepThreshold(threshold float64) Option {
	return func(t *Tracker) {
		t.detector = NewDetector(threshold)
	}
}

func WithFlushObserver(observer FlushObserver) Option {
	return func(t *Tracker) {
		t.observer = observer
	}
}

// WithContext sets the context flushes are derived from. Its values (trace, logger
// fields) are kept, its cancellation is not.
func WithContext(ctx context.Context) Option {
	return func(t *Tracker) {
		t.baseCtx = ctx
	}
}

// Tracker turns a stream of motion samples into a tracking session and
// periodically hands it to a Flusher. It is owned by a single goroutine:
// Start, HandleSample and Stop must not be called concurrently.
type Tracker struct {
	userID   string
	flusher  Flusher
	observer FlushObserver
	baseCtx  context.Context

	detector *Detector
	policy   *FlushPolicy

	tracking bool
	session  Session

	inFlight sync.WaitGroup
}

func NewTracker(userID string, flusher Flusher, opts ...Option) *Tracker {
	t := &Tracker{
		userID:   userID,
		flusher:  flusher,
		baseCtx:  context.Background(),
		detector: NewDetector(StepThreshold),
		policy:   NewFlushPolicy(DefaultFlushInterval),
		session:  NewSession(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) IsTracking() bool {
	return t.tracking
}

func (t *Tracker) Session() Session {
	return t.session
}

// Start begins a new tracking run with a zeroed session. Starting an already
// running tracker does nothing.
func (t *Tracker) Start(now time.Time) {
	if t.tracking {
		log.Debugf("tracker [%s]: already tracking", t.userID)
		return
	}
	t.session = NewSession()
	t.detector.Reset()
	t.policy.Reset(now)
	t.tracking = true
	log.Debugf("tracker [%s]: tracking started", t.userID)
}

// StartWithPermission starts tracking only if access to the motion sensor was granted.
func (t *Tracker) StartWithPermission(now time.Time, granted bool) error {
	if !granted {
		t.tracking = false
		log.Errorf("tracker [%s]: cannot start: %s", t.userID, ErrSensorPermissionDenied)
		return ErrSensorPermissionDenied
	}
	t.Start(now)
	return nil
}

// HandleSample feeds one sample through the detector and the accumulator, and
// dispatches a flush when the policy says so. Samples are ignored when not tracking.
func (t *Tracker) HandleSample(sample Sample, now time.Time) (Session, bool) {
	if !t.tracking {
		return t.session, false
	}

	magnitude, isStep := t.detector.Detect(sample)
	if isStep {
		t.session = Accumulate(t.session, magnitude)
	}

	// quiet samples still flush steps counted since the last flush
	if t.policy.ShouldFlush(t.session, now) {
		t.dispatch(FlushPeriodic, now)
	}

	return t.session, isStep
}

// Stop ends the tracking run. If any steps were counted, exactly one final
// flush is dispatched. The session as it was before the reset is returned.
func (t *Tracker) Stop(now time.Time) Session {
	if !t.tracking {
		return t.session
	}

	final := t.session
	if t.policy.ShouldFinalFlush(final) {
		t.dispatch(FlushFinal, now)
	}

	t.tracking = false
	t.session = NewSession()
	t.detector.Reset()
	log.Debugf("tracker [%s]: tracking stopped, steps: %d", t.userID, final.Steps)

	return final
}

// Wait blocks until all dispatched flushes have returned.
func (t *Tracker) Wait() {
	t.inFlight.Wait()
}

func (t *Tracker) dispatch(kind FlushKind, now time.Time) {
	payload := FlushPayload{
		UserID:    t.userID,
		Session:   t.session,
		Timestamp: now,
		Kind:      kind,
	}
	generation := t.policy.MarkDispatched(now)
	ctx := context.WithoutCancel(t.baseCtx)

	t.inFlight.Add(1)
	go func() {
		defer t.inFlight.Done()

		err := t.flusher.Flush(ctx, payload)
		if err != nil {
			log.Errorf("tracker [%s]: %s flush of %d steps failed: %s", payload.UserID, kind, payload.Session.Steps, err)
		} else {
			t.policy.MarkFlushed(generation, payload.Session.Steps)
		}

		if t.observer != nil {
			t.observer(payload, err)
		}
	}()
}
