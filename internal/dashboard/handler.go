package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/fitness"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=dashboard_test

type summaryService interface {
	DailyAggregate(ctx context.Context, userID string, date time.Time) (fitness.DailyAggregate, error)
	RangeAggregate(ctx context.Context, userID string, tf fitness.Timeframe, date time.Time) (*fitness.RangeSummary, error)
	Today() time.Time
}

// Summary is everything the dashboard page renders for the logged in user.
type Summary struct {
	User     *auth.User             `json:"user"`
	Today    fitness.DailyAggregate `json:"today"`
	Progress *fitness.RangeSummary  `json:"progress"`
}

type Handler struct {
	service summaryService
}

func NewHandler(service summaryService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes expects the /dashboard subrouter.
func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/summary", h.HandleSummary).Methods("GET").Name("dashboard-summary")
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.summary")
	defer span.End()

	session := auth.SessionFromContext(ctx)
	if !session.IsUserAuthenticated {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	tf, err := fitness.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		http.Error(w, "invalid timeframe", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("timeframe", string(tf)))

	userID := session.UserID()
	today := h.service.Today()

	todayAgg, err := h.service.DailyAggregate(ctx, userID, today)
	if err != nil {
		log.Errorf("dashboard, today aggregate for user %s: %s", userID, err)
		span.RecordError(err)
		http.Error(w, "get summary failed", http.StatusInternalServerError)
		return
	}

	progress, err := h.service.RangeAggregate(ctx, userID, tf, today)
	if err != nil {
		log.Errorf("dashboard, %s progress for user %s: %s", tf, userID, err)
		span.RecordError(err)
		http.Error(w, "get summary failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Summary{
		User:     session.User,
		Today:    todayAgg,
		Progress: progress,
	}, http.StatusOK)
}
