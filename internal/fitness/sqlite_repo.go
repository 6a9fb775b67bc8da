package fitness

import (
	"context"
	"database/sql"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// SqliteRepo stores records in a local sqlite file, timestamps as unix millis.
type SqliteRepo struct {
	db *sql.DB
}

func NewSqliteRepo(sqlDB *sql.DB) *SqliteRepo {
	return &SqliteRepo{
		db: sqlDB,
	}
}

func (r *SqliteRepo) Add(ctx context.Context, record Record) (_ *Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitness.sqlite.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", record.UserID))

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO fitness_record (user_id, steps, distance, calories, activity_type, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.UserID,
		record.Steps,
		record.Distance,
		record.Calories,
		record.ActivityType,
		record.Timestamp.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	record.ID = int(id)

	return &record, nil
}

func (r *SqliteRepo) ListForRange(ctx context.Context, userID string, from, to time.Time) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.fitness.sqlite.listforrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, steps, distance, calories, activity_type, timestamp
		FROM fitness_record
		WHERE user_id = ?
		  AND timestamp >= ?
		  AND timestamp <= ?
		ORDER BY timestamp ASC, id ASC
	`, userID, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		var timestampMillis int64
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Steps,
			&record.Distance,
			&record.Calories,
			&record.ActivityType,
			&timestampMillis,
		); err != nil {
			return nil, err
		}
		record.Timestamp = time.UnixMilli(timestampMillis).UTC()
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
