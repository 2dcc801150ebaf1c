package chatqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/billie-coop/genomechat/internal/chat"
	"github.com/billie-coop/genomechat/internal/events"
	"github.com/billie-coop/genomechat/internal/logger"
)

var (
	// ErrEmptyMessage is returned for blank submissions. Nothing is recorded.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrClosed is returned for submissions after Close.
	ErrClosed = errors.New("chat queue is closed")
)

// ChatQueue owns the transcript, the pending queue and the single active
// request.
//
// Every handler (Submit, completeActive, DismissError) runs under one mutex,
// so the transcript and the queue only ever see one writer at a time. The
// backend call itself runs outside the lock in its own goroutine.
type ChatQueue struct {
	exec   *executor
	broker *events.Broker
	log    *logger.Logger
	ids    *chat.IDSource
	now    func() time.Time

	// Lifecycle of in-flight calls
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	transcript *chat.Transcript
	pending    *Queue
	active     *Request
	lastError  string
	closed     bool

	// idle is closed whenever the queue is Idle and replaced on the next
	// submission, so Drain can wait on it.
	idle chan struct{}
}

type options struct {
	history []chat.Message
	timeout time.Duration
	broker  *events.Broker
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a ChatQueue.
type Option func(*options)

// WithHistory seeds the transcript, e.g. with a greeting or a restored
// session. Seeded messages are part of later history payloads.
func WithHistory(msgs ...chat.Message) Option {
	return func(o *options) {
		o.history = append(o.history, msgs...)
	}
}

// WithTimeout bounds each backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithBroker publishes state changes to b.
func WithBroker(b *events.Broker) Option {
	return func(o *options) {
		o.broker = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a ChatQueue sending requests to backend.
func New(backend Backend, opts ...Option) *ChatQueue {
	o := options{
		log: logger.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	transcript := chat.NewTranscript(o.history...)
	ctx, cancel := context.WithCancel(context.Background())

	idle := make(chan struct{})
	close(idle)

	return &ChatQueue{
		exec:       newExecutor(backend, o.timeout),
		broker:     o.broker,
		log:        o.log,
		ids:        chat.NewIDSource(transcript.LastID()),
		now:        o.now,
		ctx:        ctx,
		cancel:     cancel,
		transcript: transcript,
		pending:    NewQueue(),
		idle:       idle,
	}
}

// Submit appends a user message and queues a request for it. Blank text is
// a no-op reported as ErrEmptyMessage. Submit never waits for the backend.
func (q *ChatQueue) Submit(text string) (chat.ID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyMessage
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, ErrClosed
	}

	wasIdle := q.isIdleLocked()

	now := q.now()
	msg := chat.Message{
		ID:        q.ids.Next(),
		Role:      chat.RoleUser,
		Content:   text,
		Timestamp: now,
	}
	q.transcript.Append(msg)
	q.pending.Push(&Request{
		UserMessageID: msg.ID,
		Content:       text,
		Created:       now,
	})

	if wasIdle {
		q.idle = make(chan struct{})
	}

	started := q.activateNextLocked()

	// Publish after activation so no observer sees the transient Queued state.
	q.publishLocked(events.UserMessage)
	if started {
		q.publishLocked(events.RequestStarted)
	}
	q.publishLocked(events.QueueChanged)
	return msg.ID, nil
}

// DequeueSuggestion submits one of the suggested prompts. It behaves exactly
// like Submit.
func (q *ChatQueue) DequeueSuggestion(text string) (chat.ID, error) {
	return q.Submit(text)
}

// DismissError clears the error banner.
func (q *ChatQueue) DismissError() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lastError == "" {
		return
	}
	q.lastError = ""
	q.publishLocked(events.ErrorDismissed)
}

// Snapshot returns a copy of the current state.
func (q *ChatQueue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Drain blocks until the queue is idle or ctx is done.
func (q *ChatQueue) Drain(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting submissions, waits for everything already submitted
// to complete and releases resources.
func (q *ChatQueue) Close() error {
	return q.Shutdown(context.Background())
}

// Shutdown is Close bounded by ctx. If ctx ends before the queue drains, the
// in-flight call is cancelled and every request still queued is completed
// with an error report without reaching the backend, so each submission
// still gets exactly one reply.
func (q *ChatQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	err := q.Drain(ctx)
	if err != nil {
		q.mu.Lock()
		abandoned := q.pending.Len()
		if q.active != nil {
			abandoned++
		}
		q.mu.Unlock()

		q.log.Warn("abandoning unfinished chat requests", "count", abandoned, "error", err)
		err = fmt.Errorf("%d unfinished request(s) abandoned: %w", abandoned, err)
	}

	q.cancel()
	q.wg.Wait()
	return err
}

// activateNextLocked starts the head of the queue when the active slot is
// free. It is called after every change to the queue or the slot and reports
// whether a request was started.
func (q *ChatQueue) activateNextLocked() bool {
	if q.active != nil {
		return false
	}
	req := q.pending.Pop()
	if req == nil {
		return false
	}

	req.Started = q.now()
	q.active = req

	// History as of the originating message: later submissions are excluded.
	turns := q.transcript.HistoryThrough(req.UserMessageID)

	q.log.Debug("chat request started",
		"message_id", req.UserMessageID.String(),
		"turns", len(turns),
		"queued", q.pending.Len(),
		"waited", req.Started.Sub(req.Created).String(),
	)

	q.wg.Add(1)
	go q.run(req, turns)
	return true
}

// run performs the backend call for the active request.
func (q *ChatQueue) run(req *Request, turns []chat.Turn) {
	defer q.wg.Done()

	if err := q.ctx.Err(); err != nil {
		q.completeActive(req, "", 0, err)
		return
	}

	reply, duration, err := q.exec.execute(q.ctx, turns)
	q.completeActive(req, reply, duration, err)
}

// completeActive splices the outcome behind the originating message, frees
// the slot and activates the next request.
func (q *ChatQueue) completeActive(req *Request, reply string, duration time.Duration, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	content := reply
	outcome := events.RequestCompleted
	if err != nil {
		description := q.describe(err)
		content = chat.ErrorContent(description)
		outcome = events.RequestFailed
		q.lastError = description
		q.log.Warn("chat request failed",
			"message_id", req.UserMessageID.String(),
			"duration", duration.String(),
			"error", description,
		)
	} else {
		q.lastError = ""
		q.log.Info("chat request completed",
			"message_id", req.UserMessageID.String(),
			"duration", duration.String(),
			"reply_chars", len(reply),
		)
	}

	q.transcript.InsertAfter(req.UserMessageID, chat.Message{
		ID:        q.ids.Next(),
		Role:      chat.RoleAssistant,
		Content:   content,
		Timestamp: q.now(),
	})

	if q.active == req {
		q.active = nil
	}

	started := q.activateNextLocked()

	q.publishLocked(events.AssistantMessage)
	q.publishLocked(outcome)
	if started {
		q.publishLocked(events.RequestStarted)
	}
	q.publishLocked(events.QueueChanged)

	if q.isIdleLocked() {
		close(q.idle)
	}
}

// describe turns a backend failure into banner text.
func (q *ChatQueue) describe(err error) string {
	if errors.Is(err, context.Canceled) && q.ctx.Err() != nil {
		return "request abandoned at shutdown"
	}
	if errors.Is(err, context.DeadlineExceeded) && q.exec.timeout > 0 {
		return fmt.Sprintf("request timed out after %s", q.exec.timeout)
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "unknown error"
}

func (q *ChatQueue) isIdleLocked() bool {
	return q.active == nil && q.pending.Len() == 0
}

func (q *ChatQueue) snapshotLocked() Snapshot {
	snap := Snapshot{
		Messages:    q.transcript.Messages(),
		Pending:     q.pending.Items(),
		LastError:   q.lastError,
		Stats:       q.exec.stats(),
	}
	snap.QueueLength = len(snap.Pending)
	switch {
	case q.active != nil:
		snap.State = Active
		snap.ActiveMessageID = q.active.UserMessageID
	case snap.QueueLength > 0:
		snap.State = Queued
	default:
		snap.State = Idle
	}
	if len(snap.Pending) > 0 {
		snap.NextPending = snap.Pending[0].Content
	}
	return snap
}

func (q *ChatQueue) publishLocked(t events.Type) {
	if q.broker == nil {
		return
	}
	q.broker.Publish(events.Event{Type: t, Payload: q.snapshotLocked()})
}
