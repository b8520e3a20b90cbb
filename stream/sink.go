package stream

import (
	"bytes"
	"context"
	"sync"

	"github.com/kbukum/streamkit/errors"
)

// WriteResult reports the outcome of a successful Sink.Write call.
type WriteResult int

const (
	// Accepted means the sink consumed the chunk.
	Accepted WriteResult = iota
	// Backpressured means the sink did not consume the chunk and the
	// caller must stop producing until a readiness notification fires,
	// then resubmit the chunk.
	Backpressured
)

// Sink consumes chunks.
type Sink interface {
	// Write offers a chunk to the sink. A chunk is consumed whole or not
	// at all. Write after Close fails with errors.KindClosed.
	Write(ctx context.Context, c Chunk) (WriteResult, error)
	// Close marks the sink finished. Idempotent.
	Close() error
}

// Notifier is implemented by sinks that backpressure. Ready returns an
// edge-triggered channel closed the next time the sink drains; callers
// obtain a fresh channel per stall.
type Notifier interface {
	Ready() <-chan struct{}
}

// BufferSink accumulates chunks in memory. With a capacity it backpressures
// once the buffered byte count reaches the capacity, until Drain releases
// space. Safe for concurrent use.
type BufferSink struct {
	mu       sync.Mutex
	capacity int
	chunks   []Chunk
	drained  []Chunk
	size     int
	closed   bool
	ready    chan struct{}
}

// NewBufferSink creates an unbounded buffer sink that always accepts.
func NewBufferSink() *BufferSink {
	return NewBoundedBufferSink(0)
}

// NewBoundedBufferSink creates a buffer sink that backpressures once it
// holds capacity bytes. capacity <= 0 means unbounded.
func NewBoundedBufferSink(capacity int) *BufferSink {
	return &BufferSink{
		capacity: capacity,
		ready:    make(chan struct{}),
	}
}

// Write implements Sink.
func (s *BufferSink) Write(ctx context.Context, c Chunk) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Cancelled("sink").WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.Closed("sink")
	}
	if s.capacity > 0 && s.size >= s.capacity {
		return Backpressured, nil
	}
	s.chunks = append(s.chunks, c)
	s.size += c.Len()
	return Accepted, nil
}

// Close implements Sink.
func (s *BufferSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ready implements Notifier.
func (s *BufferSink) Ready() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Drain simulates downstream consumption, releasing up to n buffered bytes
// from the front and notifying a stalled writer. Returns the bytes released.
func (s *BufferSink) Drain(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	released := 0
	for len(s.chunks) > 0 && released < n {
		released += s.chunks[0].Len()
		s.size -= s.chunks[0].Len()
		s.drained = append(s.drained, s.chunks[0])
		s.chunks = s.chunks[1:]
	}
	if released > 0 {
		close(s.ready)
		s.ready = make(chan struct{})
	}
	return released
}

// Closed reports whether Close has been called.
func (s *BufferSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the buffered byte count.
func (s *BufferSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Chunks returns all chunks ever accepted, drained ones included, in order.
func (s *BufferSink) Chunks() []Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Chunk, 0, len(s.drained)+len(s.chunks))
	out = append(out, s.drained...)
	out = append(out, s.chunks...)
	return out
}

// Bytes returns the concatenated payload of every accepted chunk, in order.
func (s *BufferSink) Bytes() []byte {
	var buf bytes.Buffer
	for _, c := range s.Chunks() {
		buf.Write(c.Bytes())
	}
	return buf.Bytes()
}
