package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/metrics"
)

const channelBuffer = 64

var ErrStopped = errors.New("action queue stopped")

type job struct {
	ctx  context.Context
	name string
	fn   func(context.Context)
	done chan error
}

// Serializer runs session-mutating actions one at a time on a single
// worker, so a refresh can never interleave with a login or logout on
// the same store.
type Serializer struct {
	jobs    chan job
	stopped chan struct{}
	log     zerolog.Logger
}

func NewSerializer(log zerolog.Logger) *Serializer {
	return &Serializer{
		jobs:    make(chan job, channelBuffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker. It stops when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	go s.run(ctx)
}

// Do queues fn and waits for it to finish. It returns ctx's error when
// ctx ends before fn starts; once started, fn runs to completion. A
// panic in fn is recovered and returned as an error.
func (s *Serializer) Do(ctx context.Context, name string, fn func(context.Context)) error {
	j := job{ctx: ctx, name: name, fn: fn, done: make(chan error, 1)}

	metrics.ActionQueueDepth.Inc()
	select {
	case s.jobs <- j:
	case <-ctx.Done():
		metrics.ActionQueueDepth.Dec()
		return ctx.Err()
	case <-s.stopped:
		metrics.ActionQueueDepth.Dec()
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-s.stopped:
		// The worker may have finished this job on its way out.
		select {
		case err := <-j.done:
			return err
		default:
			return ErrStopped
		}
	}
}

func (s *Serializer) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			metrics.ActionQueueDepth.Dec()
			s.exec(j)
		}
	}
}

func (s *Serializer) exec(j job) {
	if err := j.ctx.Err(); err != nil {
		s.log.Debug().Str("action", j.name).Err(err).Msg("action dropped, caller gone")
		j.done <- err
		return
	}
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("action", j.name).Str("panic", fmt.Sprint(r)).Msg("action panicked")
			j.done <- fmt.Errorf("action %s panicked: %v", j.name, r)
			return
		}
		s.log.Debug().Str("action", j.name).Dur("latency", time.Since(started)).Msg("action finished")
		j.done <- nil
	}()
	j.fn(j.ctx)
}
