package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

// State is the lifecycle state of a Pipe.
type State int32

const (
	// StateIdle means Run has not been called yet.
	StateIdle State = iota
	// StateRunning means the transfer loop is active.
	StateRunning
	// StateCompleted means the source ended and every buffered chunk
	// reached the sink.
	StateCompleted
	// StateErrored means the pipe terminated on a failure or cancellation.
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Default watermark pair for the pipe buffer.
const (
	DefaultHighWatermark = 64 << 10
	DefaultLowWatermark  = 16 << 10
)

// retryInterval is the yield applied before re-offering a chunk to a
// backpressured sink that does not implement Notifier.
const retryInterval = time.Millisecond

// Observer receives progress and terminal notifications from a Pipe.
// Terminal fires exactly once per pipe.
type Observer interface {
	ChunkMoved(pipeID string, bytes int)
	Stalled(pipeID string)
	Resumed(pipeID string)
	Terminal(pipeID string, state State, err error)
}

// Option configures a Pipe.
type Option func(*Pipe)

// WithWatermarks sets the buffer watermark pair. The pipe stops polling its
// source once high buffered bytes accumulate and resumes polling once the
// buffer drains to low.
func WithWatermarks(high, low int) Option {
	return func(p *Pipe) {
		if high > 0 {
			p.high = high
		}
		if low >= 0 {
			p.low = low
		}
	}
}

// WithIdleTimeout makes the pipe fail with errors.KindTimeout when no chunk
// moves for d. Zero disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(p *Pipe) { p.idle = d }
}

// WithLogger sets the pipe logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipe) {
		if l != nil {
			p.log = l
		}
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(p *Pipe) { p.obs = o }
}

// Pipe drives chunks from one Source to one Sink, enforcing the watermark
// pair and propagating completion and errors. A pipe is single-use: one
// Run call moves it from idle to a terminal state.
type Pipe struct {
	id   string
	src  Source
	dst  Sink
	high int
	low  int
	idle time.Duration
	log  *logger.Logger
	obs  Observer

	mu       sync.Mutex
	state    State
	err      error
	buffered int
	pending  []Chunk

	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a pipe connecting src to dst.
func New(src Source, dst Sink, opts ...Option) *Pipe {
	p := &Pipe{
		id:     uuid.NewString(),
		src:    src,
		dst:    dst,
		high:   DefaultHighWatermark,
		low:    DefaultLowWatermark,
		log:    logger.Nop(),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.low >= p.high {
		p.low = p.high / 2
	}
	p.log = p.log.WithPipe(p.id)
	return p
}

// ID returns the pipe identity used in logs and metrics.
func (p *Pipe) ID() string { return p.id }

// State returns the current lifecycle state.
func (p *Pipe) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the terminal error, nil while running or completed.
func (p *Pipe) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Buffered returns the byte count currently held by the pipe.
func (p *Pipe) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffered
}

// Run drives the transfer to a terminal state and reports the outcome.
// The terminal error is reported once; Err repeats it read-only.
func (p *Pipe) Run(ctx context.Context) error {
	p.mu.Lock()
	switch p.state {
	case StateRunning:
		p.mu.Unlock()
		return errors.Validation("pipe is already running")
	case StateCompleted, StateErrored:
		err := p.err
		p.mu.Unlock()
		return err
	}
	p.state = StateRunning
	p.mu.Unlock()

	p.log.Debug("pipe started", logger.Fields(
		logger.FieldWatermark, p.high,
	))
	return p.loop(ctx)
}

// Close transitions the pipe to a terminal state from outside: it stops
// further source polls, best-effort closes the sink and releases buffered
// chunks. Safe to call from any state and any goroutine; a second close is
// a no-op.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.mu.Lock()
		idle := p.state == StateIdle
		p.mu.Unlock()
		if idle {
			_ = p.src.Close()
			_ = p.dst.Close()
			p.terminate(StateErrored, errors.Cancelled(p.id))
		}
	})
	return nil
}

func (p *Pipe) loop(ctx context.Context) error {
	var (
		srcDone   bool
		stalled   bool
		suspended bool
		progress  = time.Now()
	)

	for {
		if err := p.cancelled(ctx); err != nil {
			return p.abort(err)
		}

		// Deliver the buffered head unless waiting on a drain signal.
		if !stalled && len(p.pending) > 0 {
			head := p.pending[0]
			res, err := p.dst.Write(ctx, head)
			if err != nil {
				// Request upstream cancellation; no further writes.
				_ = p.src.Close()
				return p.fail(coerceIO("write", err))
			}
			if res == Accepted {
				p.consumeHead(&suspended)
				progress = time.Now()
				if p.obs != nil {
					p.obs.ChunkMoved(p.id, head.Len())
				}
				continue
			}
			stalled = true
			p.log.Debug("sink backpressured", logger.Fields(
				logger.FieldBuffered, p.Buffered(),
			))
			if p.obs != nil {
				p.obs.Stalled(p.id)
			}
			continue
		}

		// Absorb from the source while below the high watermark. This
		// keeps a fast source flowing during a sink stall, up to the
		// configured bound.
		if !srcDone && !suspended {
			c, ok, err := p.src.Poll(ctx)
			if err != nil {
				_ = p.dst.Close()
				return p.fail(coerceIO("read", err))
			}
			if !ok {
				srcDone = true
				continue
			}
			p.absorb(c, &suspended)
			progress = time.Now()
			continue
		}

		// End takes effect only once every buffered chunk has drained.
		if srcDone && len(p.pending) == 0 {
			if err := p.dst.Close(); err != nil {
				return p.fail(coerceIO("close", err))
			}
			p.terminate(StateCompleted, nil)
			p.log.Debug("pipe completed")
			return nil
		}

		// Stalled with a full buffer (or an ended source): wait for the
		// sink to drain, the idle timeout, or cancellation.
		if stalled {
			if err := p.waitReady(ctx, progress); err != nil {
				return err
			}
			stalled = false
			if p.obs != nil {
				p.obs.Resumed(p.id)
			}
			continue
		}

		// Not stalled, source exhausted for now: pending drains on the
		// next iteration.
	}
}

// absorb buffers a polled chunk and updates the watermark hysteresis.
func (p *Pipe) absorb(c Chunk, suspended *bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, c)
	p.buffered += c.Len()
	if p.buffered >= p.high {
		*suspended = true
	}
}

// consumeHead drops the delivered head chunk and updates the hysteresis.
func (p *Pipe) consumeHead(suspended *bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffered -= p.pending[0].Len()
	p.pending = p.pending[1:]
	if p.buffered <= p.low {
		*suspended = false
	}
}

// recheckInterval bounds how long a stalled pipe waits before re-offering
// its head chunk, covering a drain that raced the stall notification.
const recheckInterval = 50 * time.Millisecond

// waitReady blocks until the sink signals drain readiness. Returns the
// terminal error on timeout or cancellation.
func (p *Pipe) waitReady(ctx context.Context, progress time.Time) error {
	var ready <-chan struct{}
	retry := retryInterval
	if n, ok := p.dst.(Notifier); ok {
		ready = n.Ready()
		retry = recheckInterval
	}
	// Sinks without a drain signal get re-offered the chunk after a
	// scheduling yield; notifying sinks after the recheck bound.
	retryT := time.NewTimer(retry)
	defer retryT.Stop()

	var idleC <-chan time.Time
	if p.idle > 0 {
		remaining := p.idle - time.Since(progress)
		if remaining <= 0 {
			return p.abort(errors.Timeout(p.id))
		}
		t := time.NewTimer(remaining)
		defer t.Stop()
		idleC = t.C
	}

	select {
	case <-ready:
		return nil
	case <-retryT.C:
		return nil
	case <-idleC:
		return p.abort(errors.Timeout(p.id))
	case <-p.closed:
		return p.abort(errors.Cancelled(p.id))
	case <-ctx.Done():
		return p.abort(errors.Cancelled(p.id).WithCause(ctx.Err()))
	}
}

// cancelled reports a pending external close or context cancellation.
func (p *Pipe) cancelled(ctx context.Context) error {
	select {
	case <-p.closed:
		return errors.Cancelled(p.id)
	default:
	}
	if err := ctx.Err(); err != nil {
		return errors.Cancelled(p.id).WithCause(err)
	}
	return nil
}

// abort performs cancellation cleanup: stop the source, best-effort close
// the sink, release buffered chunks, then record the terminal error.
func (p *Pipe) abort(err error) error {
	_ = p.src.Close()
	_ = p.dst.Close()
	p.mu.Lock()
	p.pending = nil
	p.buffered = 0
	p.mu.Unlock()
	return p.fail(err)
}

// fail records the terminal error exactly once and returns it.
func (p *Pipe) fail(err error) error {
	p.terminate(StateErrored, err)
	p.log.WithError(err).Error("pipe errored", logger.Fields(
		logger.FieldState, StateErrored.String(),
	))
	return err
}

// terminate moves the pipe to a terminal state once; later calls are no-ops.
func (p *Pipe) terminate(state State, err error) {
	p.mu.Lock()
	if p.state == StateCompleted || p.state == StateErrored {
		p.mu.Unlock()
		return
	}
	p.state = state
	p.err = err
	p.mu.Unlock()
	if p.obs != nil {
		p.obs.Terminal(p.id, state, err)
	}
}

// coerceIO wraps foreign endpoint errors as I/O failures while leaving
// StreamErrors untouched.
func coerceIO(op string, err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.IO(op, err)
}
