package codec

import (
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// EncodingGzip tags chunks carrying gzip-compressed payload.
const EncodingGzip = "gzip"

// Gzip returns a stage compressing the byte stream. Each input chunk is
// sync-flushed so compressed output streams out as data arrives; the gzip
// trailer is emitted on flush. Invalid levels fall back to the default.
func Gzip(level int) stream.Stage {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &gzipStage{level: level}
}

type gzipStage struct {
	level int
	buf   bytes.Buffer
	zw    *gzip.Writer
}

func (g *gzipStage) Apply(ctx context.Context, c stream.Chunk) ([]stream.Chunk, error) {
	if g.zw == nil {
		zw, err := gzip.NewWriterLevel(&g.buf, g.level)
		if err != nil {
			return nil, errors.Transform("gzip", err)
		}
		g.zw = zw
	}
	if _, err := g.zw.Write(c.Bytes()); err != nil {
		return nil, errors.Transform("gzip", err)
	}
	if err := g.zw.Flush(); err != nil {
		return nil, errors.Transform("gzip", err)
	}
	return g.drain(), nil
}

func (g *gzipStage) Flush(ctx context.Context) ([]stream.Chunk, error) {
	if g.zw == nil {
		return nil, nil
	}
	if err := g.zw.Close(); err != nil {
		return nil, errors.Transform("gzip", err)
	}
	return g.drain(), nil
}

func (g *gzipStage) drain() []stream.Chunk {
	if g.buf.Len() == 0 {
		return nil
	}
	out := stream.NewChunk(g.buf.Bytes()).WithEncoding(EncodingGzip)
	g.buf.Reset()
	return []stream.Chunk{out}
}

// Gunzip returns a stage decompressing a gzip byte stream. The stage
// buffers compressed input and inflates when the upstream ends, so the
// whole member is validated including its trailer checksum.
func Gunzip() stream.Stage {
	return &gunzipStage{}
}

type gunzipStage struct {
	buf bytes.Buffer
}

func (g *gunzipStage) Apply(ctx context.Context, c stream.Chunk) ([]stream.Chunk, error) {
	g.buf.Write(c.Bytes())
	return nil, nil
}

func (g *gunzipStage) Flush(ctx context.Context) ([]stream.Chunk, error) {
	if g.buf.Len() == 0 {
		return nil, nil
	}
	zr, err := gzip.NewReader(&g.buf)
	if err != nil {
		return nil, errors.Transform("gunzip", err)
	}
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Transform("gunzip", err)
	}
	return []stream.Chunk{stream.NewChunk(plain)}, nil
}
