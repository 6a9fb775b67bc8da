package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/2beens/fitnesstracker/internal/tracker"

	"github.com/brianvoe/gofakeit/v6"
	log "github.com/sirupsen/logrus"
)

const restZ = 9.8

type flushStats struct {
	ok     atomic.Int64
	failed atomic.Int64
}

func (s *flushStats) observe(payload tracker.FlushPayload, err error) {
	if err != nil {
		s.failed.Add(1)
		return
	}
	s.ok.Add(1)
	log.Debugf("%s flush ok, steps: %d", payload.Kind, payload.Session.Steps)
}

func (s *flushStats) err() error {
	if failed := s.failed.Load(); failed > 0 {
		return fmt.Errorf("%d of %d flushes failed", failed, failed+s.ok.Load())
	}
	return nil
}

// run tracks the samples as if recording started at start. Unless realtime is
// set, sample time is simulated and the samples are fed as fast as possible.
// Cancelling ctx stops the run early, the session recorded so far is still flushed.
func run(
	ctx context.Context,
	tr *tracker.Tracker,
	samples []tracker.TimedSample,
	start time.Time,
	realtime bool,
) tracker.Session {
	tr.Start(start)

	end := start
	var prevOffset time.Duration
loop:
	for _, s := range samples {
		if realtime {
			select {
			case <-ctx.Done():
				break loop
			case <-time.After(s.Offset - prevOffset):
			}
		} else if ctx.Err() != nil {
			break
		}
		prevOffset = s.Offset
		end = start.Add(s.Offset)

		if _, isStep := tr.HandleSample(s.Sample, end); isStep {
			log.Tracef("step at %s", s.Offset)
		}
	}

	final := tr.Stop(end)
	tr.Wait()
	return final
}

// simulateSamples generates alternating walking and running segments. Every
// stride is a single acceleration peak over the resting baseline.
func simulateSamples(seed int64, duration, sampleRate time.Duration) []tracker.TimedSample {
	faker := gofakeit.New(seed)

	var samples []tracker.TimedSample
	running := faker.Bool()
	segmentEnd := time.Duration(0)
	nextStride := time.Duration(0)

	for offset := time.Duration(0); offset < duration; offset += sampleRate {
		if offset >= segmentEnd {
			running = !running
			segmentEnd = offset + time.Duration(faker.IntRange(5, 15))*time.Second
		}

		sample := tracker.Sample{
			X: faker.Float64Range(-0.2, 0.2),
			Y: faker.Float64Range(-0.2, 0.2),
			Z: restZ + faker.Float64Range(-0.2, 0.2),
		}
		if offset >= nextStride {
			if running {
				sample.X = faker.Float64Range(17, 20)
				nextStride = offset + time.Duration(faker.IntRange(300, 400))*time.Millisecond
			} else {
				sample.X = faker.Float64Range(11.5, 13.5)
				nextStride = offset + time.Duration(faker.IntRange(500, 700))*time.Millisecond
			}
		}

		samples = append(samples, tracker.TimedSample{Sample: sample, Offset: offset})
	}

	return samples
}
