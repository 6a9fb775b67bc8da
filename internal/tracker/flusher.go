package tracker

import (
	"context"
	"time"
)

type FlushKind string

const (
	FlushPeriodic FlushKind = "periodic"
	FlushFinal    FlushKind = "final"
)

// FlushPayload is a snapshot of the session taken at dispatch time.
type FlushPayload struct {
	UserID    string
	Session   Session
	Timestamp time.Time
	Kind      FlushKind
}

// Flusher persists a flushed session. Implementations are called from their
// own goroutine and must not assume anything about ordering between calls.
type Flusher interface {
	Flush(ctx context.Context, payload FlushPayload) error
}

type FlusherFunc func(ctx context.Context, payload FlushPayload) error

func (f FlusherFunc) Flush(ctx context.Context, payload FlushPayload) error {
	return f(ctx, payload)
}
