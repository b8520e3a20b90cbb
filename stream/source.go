package stream

import (
	"context"
	"sync"

	"github.com/kbukum/streamkit/errors"
)

// Source produces a lazy, finite-or-infinite sequence of chunks.
type Source interface {
	// Poll returns the next chunk. (chunk, true, nil) carries data,
	// (_, false, nil) signals end-of-data and (_, false, err) a failure.
	// The tail is idempotent: after end or error, every subsequent call
	// returns the same terminal result.
	Poll(ctx context.Context) (Chunk, bool, error)
	// Close releases any resources held by the source. It is idempotent;
	// a pipe calls it when the downstream fails to request cancellation.
	Close() error
}

// ChunksSource yields a fixed sequence of chunks. Safe for concurrent use.
type ChunksSource struct {
	mu     sync.Mutex
	chunks []Chunk
	pos    int
	err    error
	closed bool
}

// NewChunksSource creates a source over the given chunks.
func NewChunksSource(chunks ...Chunk) *ChunksSource {
	return &ChunksSource{chunks: chunks}
}

// NewBytesSource creates a source that re-slices data into chunks of at
// most chunkSize bytes.
func NewBytesSource(data []byte, chunkSize int) *ChunksSource {
	if chunkSize <= 0 {
		chunkSize = 32 << 10
	}
	var chunks []Chunk
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, NewChunk(data[off:end]))
	}
	return NewChunksSource(chunks...)
}

// Poll implements Source.
func (s *ChunksSource) Poll(ctx context.Context) (Chunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return Chunk{}, false, errors.Cancelled("source").WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Chunk{}, false, s.err
	}
	if s.closed {
		s.err = errors.Closed("source")
		return Chunk{}, false, s.err
	}
	if s.pos >= len(s.chunks) {
		return Chunk{}, false, nil
	}
	c := s.chunks[s.pos]
	s.pos++
	return c, true, nil
}

// Close implements Source. Pending chunks are discarded.
func (s *ChunksSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Remaining returns the number of chunks not yet polled.
func (s *ChunksSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks) - s.pos
}

// FaultSource yields chunks from the wrapped source and then fails with
// the given error instead of ending. Used to exercise error propagation.
type FaultSource struct {
	mu       sync.Mutex
	chunks   []Chunk
	pos      int
	failWith error
}

// NewFaultSource creates a source that emits the chunks then errors.
func NewFaultSource(failWith error, chunks ...Chunk) *FaultSource {
	return &FaultSource{chunks: chunks, failWith: failWith}
}

// Poll implements Source.
func (s *FaultSource) Poll(ctx context.Context) (Chunk, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos < len(s.chunks) {
		c := s.chunks[s.pos]
		s.pos++
		return c, true, nil
	}
	return Chunk{}, false, s.failWith
}

// Close implements Source.
func (s *FaultSource) Close() error { return nil }
