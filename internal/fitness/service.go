package fitness

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/internal/tracker"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=fitness_test

type recordsRepo interface {
	Add(ctx context.Context, record Record) (*Record, error)
	ListForRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
}

// RangeSummary is the aggregate of a timeframe with the progress towards the goals.
type RangeSummary struct {
	Timeframe Timeframe      `json:"timeframe"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	Aggregate DailyAggregate `json:"aggregate"`
	Progress  []GoalProgress `json:"progress"`
}

type Service struct {
	repo           recordsRepo
	loc            *time.Location
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(repo recordsRepo, loc *time.Location, metricsManager *metrics.Manager) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:           repo,
		loc:            loc,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Track stores a new record for the user. A missing timestamp means now.
func (s *Service) Track(ctx context.Context, userID string, req TrackRequest) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitness.track")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	activity, err := tracker.ParseActivityType(req.ActivityType)
	if err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}
	span.SetAttributes(
		attribute.Int("steps", req.Steps),
		attribute.String("activity.type", activity.String()),
	)

	record, err := s.repo.Add(ctx, Record{
		UserID:       userID,
		Steps:        req.Steps,
		Distance:     req.Distance,
		Calories:     req.Calories,
		ActivityType: activity.String(),
		Timestamp:    timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("add fitness record: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterRecordsCreated.WithLabelValues(record.ActivityType).Inc()
	}

	return record, nil
}

func (s *Service) DailyAggregate(ctx context.Context, userID string, date time.Time) (_ DailyAggregate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitness.dailyaggregate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from, to := DayWindow(date, s.loc)
	records, err := s.repo.ListForRange(ctx, userID, from, to)
	if err != nil {
		return DailyAggregate{}, fmt.Errorf("list fitness records: %w", err)
	}

	return Aggregate(records), nil
}

func (s *Service) RangeAggregate(ctx context.Context, userID string, tf Timeframe, date time.Time) (_ *RangeSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.fitness.rangeaggregate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("timeframe", string(tf)))

	from, to := RangeWindow(tf, date, s.loc)
	records, err := s.repo.ListForRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list fitness records: %w", err)
	}

	agg := Aggregate(records)
	return &RangeSummary{
		Timeframe: tf,
		From:      from,
		To:        to,
		Aggregate: agg,
		Progress:  Progress(agg, tf),
	}, nil
}
