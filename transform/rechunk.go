package transform

import (
	"bytes"
	"context"

	"github.com/kbukum/streamkit/stream"
)

// Rechunk returns a stage that re-slices the byte stream into chunks of
// exactly size bytes, emitting the remainder on flush. Chunk boundaries of
// the input do not survive; the concatenated payload does.
func Rechunk(size int) stream.Stage {
	if size <= 0 {
		size = 1
	}
	return &rechunkStage{size: size}
}

type rechunkStage struct {
	size int
	buf  bytes.Buffer
}

func (r *rechunkStage) Apply(ctx context.Context, c stream.Chunk) ([]stream.Chunk, error) {
	r.buf.Write(c.Bytes())
	var out []stream.Chunk
	for r.buf.Len() >= r.size {
		out = append(out, stream.NewChunk(r.buf.Next(r.size)))
	}
	return out, nil
}

func (r *rechunkStage) Flush(ctx context.Context) ([]stream.Chunk, error) {
	if r.buf.Len() == 0 {
		return nil, nil
	}
	return []stream.Chunk{stream.NewChunk(r.buf.Next(r.buf.Len()))}, nil
}
