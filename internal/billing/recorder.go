package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"photorestore/internal/domain"
	"photorestore/internal/infra"
	"photorestore/internal/sqlinline"
)

// Recorder persists verified billing events.
type Recorder interface {
	Record(ctx context.Context, evt domain.BillingEvent) error
}

// PostgresRecorder writes events to the billing_events table.
type PostgresRecorder struct {
	db infra.SQLExecutor
}

func NewPostgresRecorder(db infra.SQLExecutor) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// Record inserts evt. Redeliveries of the same svix id are no-ops.
func (r *PostgresRecorder) Record(ctx context.Context, evt domain.BillingEvent) error {
	data := []byte(evt.Data)
	if len(data) == 0 {
		data = nil
	}
	if _, err := r.db.Exec(ctx, sqlinline.QInsertBillingEvent, evt.MessageID, string(evt.Type), data, evt.ReceivedAt); err != nil {
		return fmt.Errorf("insert billing event: %w", err)
	}
	return nil
}

// TypeCount is one row of CountByType.
type TypeCount struct {
	Type  domain.BillingEventType
	Count int64
}

// CountByType summarizes events received since the given time.
func (r *PostgresRecorder) CountByType(ctx context.Context, since time.Time) ([]TypeCount, error) {
	rows, err := r.db.Query(ctx, sqlinline.QCountBillingEventsByType, since)
	if err != nil {
		return nil, fmt.Errorf("count billing events: %w", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		var typ string
		if err := rows.Scan(&typ, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan billing count: %w", err)
		}
		tc.Type = domain.BillingEventType(typ)
		out = append(out, tc)
	}
	return out, rows.Err()
}

// LogRecorder only logs. It is used when no database is configured.
type LogRecorder struct {
	logger zerolog.Logger
}

func NewLogRecorder(logger zerolog.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) Record(_ context.Context, evt domain.BillingEvent) error {
	r.logger.Info().
		Str("svix_id", evt.MessageID).
		Str("event_type", string(evt.Type)).
		Int("payload_bytes", len(evt.Data)).
		Msg("billing event not persisted: no database configured")
	return nil
}
