package osio

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 32 << 10

// FileSource reads a file as a chunk stream.
type FileSource struct {
	mu     sync.Mutex
	f      *os.File
	buf    []byte
	done   bool
	err    error
	closed bool
}

// NewFileSource opens path for reading. chunkSize <= 0 uses the default.
func NewFileSource(path string, chunkSize int) (*FileSource, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO("open", err).WithDetail("path", path)
	}
	return &FileSource{f: f, buf: make([]byte, chunkSize)}, nil
}

// Poll implements stream.Source.
func (s *FileSource) Poll(ctx context.Context) (stream.Chunk, bool, error) {
	if err := ctx.Err(); err != nil {
		return stream.Chunk{}, false, errors.Cancelled("file source").WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return stream.Chunk{}, false, s.err
	}
	if s.done {
		return stream.Chunk{}, false, nil
	}
	if s.closed {
		s.err = errors.Closed("file source")
		return stream.Chunk{}, false, s.err
	}
	for {
		n, err := s.f.Read(s.buf)
		if n > 0 {
			return stream.NewChunk(s.buf[:n]), true, nil
		}
		if err == io.EOF {
			s.done = true
			return stream.Chunk{}, false, nil
		}
		if err != nil {
			s.err = errors.IO("read", err).WithDetail("path", s.f.Name())
			return stream.Chunk{}, false, s.err
		}
		// (0, nil) does not indicate end of file; retry.
		if err := ctx.Err(); err != nil {
			return stream.Chunk{}, false, errors.Cancelled("file source").WithCause(err)
		}
	}
}

// Close implements stream.Source.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

// FileSink writes a chunk stream to a file.
type FileSink struct {
	mu     sync.Mutex
	f      *os.File
	closed bool
}

// NewFileSink creates (or truncates) path for writing.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IO("create", err).WithDetail("path", path)
	}
	return &FileSink{f: f}, nil
}

// Write implements stream.Sink. File writes either take the whole chunk or
// fail; the sink never backpressures.
func (s *FileSink) Write(ctx context.Context, c stream.Chunk) (stream.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Cancelled("file sink").WithCause(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.Closed("file sink")
	}
	if _, err := s.f.Write(c.Bytes()); err != nil {
		return 0, errors.IO("write", err).WithDetail("path", s.f.Name())
	}
	return stream.Accepted, nil
}

// Close implements stream.Sink. Idempotent.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.f.Close(); err != nil {
		return errors.IO("close", err).WithDetail("path", s.f.Name())
	}
	return nil
}
