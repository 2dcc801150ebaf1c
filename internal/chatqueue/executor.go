package chatqueue

import (
	"context"
	"sync"
	"time"

	"github.com/billie-coop/genomechat/internal/chat"
)

// Backend is the chat endpoint consumed by the queue. Chat receives the
// history as of the originating message and returns one reply.
type Backend interface {
	Chat(ctx context.Context, turns []chat.Turn) (string, error)
}

// Stats summarises completed backend calls.
type Stats struct {
	Completed       int
	Failed          int
	AvgResponseTime time.Duration
	LastResponse    time.Duration
}

// ErrorRate is the fraction of completed calls that failed.
func (s Stats) ErrorRate() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Completed)
}

// executor runs a single backend call with an optional timeout and records
// timing. It does no scheduling of its own: ChatQueue decides when to call it.
type executor struct {
	backend Backend
	timeout time.Duration

	metrics struct {
		sync.Mutex
		stats Stats
	}
}

func newExecutor(backend Backend, timeout time.Duration) *executor {
	return &executor{
		backend: backend,
		timeout: timeout,
	}
}

// execute issues the call. A zero timeout means the call is bounded only by ctx.
func (e *executor) execute(ctx context.Context, turns []chat.Turn) (string, time.Duration, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := e.backend.Chat(ctx, turns)
	duration := time.Since(start)

	e.updateMetrics(err, duration)
	return reply, duration, err
}

func (e *executor) updateMetrics(err error, duration time.Duration) {
	e.metrics.Lock()
	defer e.metrics.Unlock()

	s := &e.metrics.stats
	s.Completed++
	if err != nil {
		s.Failed++
	}
	s.LastResponse = duration

	// Weight recent measurements more
	if s.AvgResponseTime == 0 {
		s.AvgResponseTime = duration
	} else {
		s.AvgResponseTime = (s.AvgResponseTime*4 + duration) / 5
	}
}

func (e *executor) stats() Stats {
	e.metrics.Lock()
	defer e.metrics.Unlock()
	return e.metrics.stats
}
