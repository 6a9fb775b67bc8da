package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=fitness_test

type service interface {
	Track(ctx context.Context, userID string, req TrackRequest) (*Record, error)
	DailyAggregate(ctx context.Context, userID string, date time.Time) (DailyAggregate, error)
	RangeAggregate(ctx context.Context, userID string, tf Timeframe, date time.Time) (*RangeSummary, error)
	Location() *time.Location
	Today() time.Time
}

type Handler struct {
	service service
	// nil disables the sample stream endpoint
	stream *StreamHandler
}

func NewHandler(service service, stream *StreamHandler) *Handler {
	return &Handler{
		service: service,
		stream:  stream,
	}
}

// SetupRoutes expects the /api/fitness subrouter.
func (h *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	trackLimitPerMin int,
	metricsManager *metrics.Manager,
) {
	var trackHandler http.Handler = http.HandlerFunc(h.HandleTrack)
	if rateLimiter != nil {
		trackHandler = middleware.RateLimit(rateLimiter, "fitness-track", trackLimitPerMin, metricsManager)(trackHandler)
	}

	router.Handle("/track", trackHandler).Methods("POST").Name("fitness-track-create")
	router.HandleFunc("/track", h.HandleGetDaily).Methods("GET").Name("fitness-track-daily")
	router.HandleFunc("/progress", h.HandleGetProgress).Methods("GET").Name("fitness-progress")
	if h.stream != nil {
		router.HandleFunc("/stream", h.stream.HandleStream).Methods("GET").Name("fitness-stream")
	}
}

func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitness.track")
	defer span.End()

	session := auth.SessionFromContext(ctx)
	if !session.IsUserAuthenticated {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var trackReq TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&trackReq); err != nil {
		log.Errorf("track, unmarshal json params: %s", err)
		http.Error(w, "track failed", http.StatusBadRequest)
		return
	}

	record, err := h.service.Track(ctx, session.UserID(), trackReq)
	if err != nil {
		if errors.Is(err, ErrInvalidActivityType) {
			http.Error(w, "invalid activity type", http.StatusBadRequest)
			return
		}
		log.Errorf("track for user %s: %s", session.UserID(), err)
		span.RecordError(err)
		http.Error(w, "track failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, record, http.StatusCreated)
}

func (h *Handler) HandleGetDaily(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitness.daily")
	defer span.End()

	session := auth.SessionFromContext(ctx)
	if !session.IsUserAuthenticated {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	date, err := h.dateParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	agg, err := h.service.DailyAggregate(ctx, session.UserID(), date)
	if err != nil {
		log.Errorf("daily aggregate for user %s: %s", session.UserID(), err)
		span.RecordError(err)
		http.Error(w, "get daily aggregate failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, agg, http.StatusOK)
}

func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.fitness.progress")
	defer span.End()

	session := auth.SessionFromContext(ctx)
	if !session.IsUserAuthenticated {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	tf, err := ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		http.Error(w, "invalid timeframe", http.StatusBadRequest)
		return
	}

	date, err := h.dateParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	summary, err := h.service.RangeAggregate(ctx, session.UserID(), tf, date)
	if err != nil {
		log.Errorf("progress for user %s: %s", session.UserID(), err)
		span.RecordError(err)
		http.Error(w, "get progress failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

// dateParam reads the optional date query param, today by default.
func (h *Handler) dateParam(r *http.Request) (time.Time, error) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		return h.service.Today(), nil
	}
	return ParseDate(dateParam, h.service.Location())
}
