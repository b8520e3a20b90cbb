package osio

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// ReaderSource adapts any io.Reader into a stream.Source.
type ReaderSource struct {
	mu   sync.Mutex
	r    io.Reader
	name string
	buf  []byte
	done bool
	err  error
}

// NewReaderSource wraps r. name is used in error details.
func NewReaderSource(r io.Reader, name string, chunkSize int) *ReaderSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderSource{r: r, name: name, buf: make([]byte, chunkSize)}
}

// Stdin returns a source reading the process standard input.
func Stdin(chunkSize int) *ReaderSource {
	return NewReaderSource(os.Stdin, "stdin", chunkSize)
}

// Poll implements stream.Source.
func (s *ReaderSource) Poll(ctx context.Context) (stream.Chunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return stream.Chunk{}, false, errors.Cancelled(s.name).WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return stream.Chunk{}, false, s.err
	}
	if s.done {
		return stream.Chunk{}, false, nil
	}
	for {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			return stream.NewChunk(s.buf[:n]), true, nil
		}
		if err == io.EOF {
			s.done = true
			return stream.Chunk{}, false, nil
		}
		if err != nil {
			s.err = errors.IO("read", err).WithDetail("source", s.name)
			return stream.Chunk{}, false, s.err
		}
		// (0, nil) does not indicate end of stream; retry.
		if err := ctx.Err(); err != nil {
			return stream.Chunk{}, false, errors.Cancelled(s.name).WithCause(err)
		}
	}
}

// Close implements stream.Source. The wrapped reader is closed only when it
// is a closer the source owns; standard input is left alone.
func (s *ReaderSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	return nil
}

// WriterSink adapts any io.Writer into a stream.Sink. Closing the sink does
// not close the wrapped writer, so process streams survive pipeline end.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	name   string
	closed bool
}

// NewWriterSink wraps w. name is used in error details.
func NewWriterSink(w io.Writer, name string) *WriterSink {
	return &WriterSink{w: w, name: name}
}

// Stdout returns a sink writing the process standard output.
func Stdout() *WriterSink {
	return NewWriterSink(os.Stdout, "stdout")
}

// Stderr returns a sink writing the process standard error.
func Stderr() *WriterSink {
	return NewWriterSink(os.Stderr, "stderr")
}

// Write implements stream.Sink.
func (s *WriterSink) Write(ctx context.Context, c stream.Chunk) (stream.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Cancelled(s.name).WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.Closed(s.name)
	}
	if _, err := s.w.Write(c.Bytes()); err != nil {
		return 0, errors.IO("write", err).WithDetail("sink", s.name)
	}
	return stream.Accepted, nil
}

// Close implements stream.Sink. Idempotent; the wrapped writer stays open.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
