package fitness

import (
	"context"
	"time"

	"github.com/2beens/fitnesstracker/internal/db"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Repo stores records in postgres.
type Repo struct {
	db db.Querier
}

func NewRepo(querier db.Querier) *Repo {
	return &Repo{
		db: querier,
	}
}

func (r *Repo) Add(ctx context.Context, record Record) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitness.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", record.UserID))

	err = r.db.QueryRow(ctx, `
		INSERT INTO fitness_record (user_id, steps, distance, calories, activity_type, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		record.UserID,
		record.Steps,
		record.Distance,
		record.Calories,
		record.ActivityType,
		record.Timestamp,
	).Scan(&record.ID)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListForRange returns the user's records with from <= timestamp <= to, oldest first.
func (r *Repo) ListForRange(ctx context.Context, userID string, from, to time.Time) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitness.listforrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, steps, distance, calories, activity_type, timestamp
		FROM fitness_record
		WHERE user_id = $1
		  AND timestamp >= $2
		  AND timestamp <= $3
		ORDER BY timestamp ASC, id ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Steps,
			&record.Distance,
			&record.Calories,
			&record.ActivityType,
			&record.Timestamp,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
