package tracker

import (
	"sync"
	"time"
)

const DefaultFlushInterval = 2 * time.Second

// FlushPolicy decides when the tracked session goes to the store.
// Dispatch bookkeeping is done by the tracker owner, while flush success is
// reported from the flush goroutine, hence the mutex.
type FlushPolicy struct {
	interval time.Duration

	mu               sync.Mutex
	generation       int
	lastFlushAt      time.Time
	lastFlushedSteps int
}

func NewFlushPolicy(interval time.Duration) *FlushPolicy {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &FlushPolicy{
		interval: interval,
	}
}

// Reset starts a new tracking run. Results of flushes dispatched before the
// reset are ignored.
func (p *FlushPolicy) Reset(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.lastFlushAt = now
	p.lastFlushedSteps = 0
}

// ShouldFlush reports whether the interval has passed since the last flush
// and the step count changed since the last successful one.
func (p *FlushPolicy) ShouldFlush(session Session, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return now.Sub(p.lastFlushAt) >= p.interval && session.Steps != p.lastFlushedSteps
}

func (p *FlushPolicy) ShouldFinalFlush(session Session) bool {
	return session.Steps > 0
}

// MarkDispatched records a flush dispatch and returns the run generation
// to be passed back to MarkFlushed.
func (p *FlushPolicy) MarkDispatched(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastFlushAt = now
	return p.generation
}

func (p *FlushPolicy) MarkFlushed(generation, steps int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if generation != p.generation {
		return
	}
	p.lastFlushedSteps = steps
}

func (p *FlushPolicy) LastFlushedSteps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastFlushedSteps
}
