package osio

import (
	"context"

	"github.com/kbukum/streamkit/stream"
)

// Copy pipes src through the stage chain into dst and runs the transfer to
// completion, closing dst on success and best-effort on failure.
func Copy(ctx context.Context, src stream.Source, dst stream.Sink, stages ...stream.Stage) error {
	p := stream.New(stream.Through(src, stages...), dst)
	return p.Run(ctx)
}

// CopyFile copies the file at from into to, applying the optional stage
// chain in between. A gzip stage turns this into file compression; a case
// stage into text transformation.
func CopyFile(ctx context.Context, from, to string, stages ...stream.Stage) error {
	src, err := NewFileSource(from, DefaultChunkSize)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := NewFileSink(to)
	if err != nil {
		return err
	}
	return Copy(ctx, src, dst, stages...)
}
