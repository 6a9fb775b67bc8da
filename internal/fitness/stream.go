package fitness

import (
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/tracker"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	streamReadLimit   = 4096
	streamIdleTimeout = 2 * time.Minute

	msgTypeStart  = "start"
	msgTypeStop   = "stop"
	msgTypeSample = "sample"
	msgTypeState  = "state"
	msgTypeError  = "error"

	permissionDenied   = "denied"
	sensorNotAvailable = "unavailable"
)

type streamMessageIn struct {
	Type string   `json:"type"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Z    *float64 `json:"z"`
	// sensor access reported by the device on start: granted, denied or unavailable
	Permission string `json:"permission"`
}

type streamMessageOut struct {
	Type     string           `json:"type"`
	Tracking bool             `json:"tracking"`
	Session  *tracker.Session `json:"session,omitempty"`
	Step     bool             `json:"step"`
	Error    string           `json:"error,omitempty"`
}

// StreamHandler runs a tracker per websocket connection, fed by the samples
// the device streams. Disconnecting stops the tracking.
type StreamHandler struct {
	upgrader       websocket.Upgrader
	flusher        tracker.Flusher
	flushInterval  time.Duration
	metricsManager *metrics.Manager
}

func NewStreamHandler(flusher tracker.Flusher, flushInterval time.Duration, metricsManager *metrics.Manager) *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are checked by the cors middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		flusher:        flusher,
		flushInterval:  flushInterval,
		metricsManager: metricsManager,
	}
}

func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitness.stream")
	defer span.End()

	session := auth.SessionFromContext(ctx)
	if !session.IsUserAuthenticated {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	userID := session.UserID()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied
		log.Errorf("stream upgrade for user %s: %s", userID, err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("stream.id", connID),
	)
	logger := log.WithFields(log.Fields{"user": userID, "stream": connID})
	logger.Debug("stream connected")

	h.metricsManager.GaugeActiveTrackers.Inc()
	defer h.metricsManager.GaugeActiveTrackers.Dec()

	tr := tracker.NewTracker(userID, h.flusher,
		tracker.WithFlushInterval(h.flushInterval),
		tracker.WithContext(ctx),
		tracker.WithFlushObserver(h.observeFlush),
	)
	defer func() {
		final := tr.Stop(time.Now())
		tr.Wait()
		logger.Debugf("stream closed, final steps: %d", final.Steps)
	}()

	conn.SetReadLimit(streamReadLimit)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamIdleTimeout))

		var msg streamMessageIn
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warnf("stream read: %s", err)
			}
			return
		}

		out := h.handleMessage(tr, msg, time.Now())
		if out == nil {
			continue
		}
		if err := conn.WriteJSON(out); err != nil {
			logger.Errorf("stream write: %s", err)
			return
		}
	}
}

// handleMessage applies one device message to the tracker and returns the reply, if any.
func (h *StreamHandler) handleMessage(tr *tracker.Tracker, msg streamMessageIn, now time.Time) *streamMessageOut {
	switch msg.Type {
	case msgTypeStart:
		if msg.Permission == sensorNotAvailable {
			return errorMessage(tr, tracker.ErrSensorUnavailable)
		}
		if err := tr.StartWithPermission(now, msg.Permission != permissionDenied); err != nil {
			return errorMessage(tr, err)
		}
		return stateMessage(tr, tr.Session(), false)
	case msgTypeStop:
		final := tr.Stop(now)
		return stateMessage(tr, final, false)
	case msgTypeSample:
		// presence is the only check samples get
		if msg.X == nil || msg.Y == nil || msg.Z == nil {
			return nil
		}
		if !tr.IsTracking() {
			return errorMessage(tr, errNotTracking)
		}
		session, isStep := tr.HandleSample(tracker.Sample{X: *msg.X, Y: *msg.Y, Z: *msg.Z}, now)
		if isStep {
			h.metricsManager.CounterStepsDetected.Inc()
		}
		return stateMessage(tr, session, isStep)
	default:
		return errorMessage(tr, errUnknownMessage)
	}
}

func (h *StreamHandler) observeFlush(payload tracker.FlushPayload, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.metricsManager.CounterFlushes.WithLabelValues(string(payload.Kind), result).Inc()
}

var (
	errNotTracking    = errors.New("not tracking")
	errUnknownMessage = errors.New("unknown message type")
)

func stateMessage(tr *tracker.Tracker, session tracker.Session, isStep bool) *streamMessageOut {
	return &streamMessageOut{
		Type:     msgTypeState,
		Tracking: tr.IsTracking(),
		Session:  &session,
		Step:     isStep,
	}
}

func errorMessage(tr *tracker.Tracker, err error) *streamMessageOut {
	return &streamMessageOut{
		Type:     msgTypeError,
		Tracking: tr.IsTracking(),
		Error:    err.Error(),
	}
}
