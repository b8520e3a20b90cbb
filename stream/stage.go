package stream

import (
	"context"

	"github.com/kbukum/streamkit/errors"
)

// Stage is a pluggable transformation inserted between a Source and a Sink.
// Output chunks for input chunk i are fully emitted, in order, before any
// output for chunk i+1.
type Stage interface {
	// Apply transforms one input chunk into zero or more output chunks.
	Apply(ctx context.Context, c Chunk) ([]Chunk, error)
	// Flush emits any internally buffered output. A pipe calls it when the
	// upstream ends, before propagating the end downstream.
	Flush(ctx context.Context) ([]Chunk, error)
}

// StageFunc adapts a stateless one-to-one transform into a Stage.
type StageFunc func(c Chunk) (Chunk, error)

// Apply implements Stage.
func (f StageFunc) Apply(ctx context.Context, c Chunk) ([]Chunk, error) {
	out, err := f(c)
	if err != nil {
		return nil, err
	}
	return []Chunk{out}, nil
}

// Flush implements Stage. Stateless stages hold nothing back.
func (f StageFunc) Flush(ctx context.Context) ([]Chunk, error) {
	return nil, nil
}

// Chain composes stages in order into a single Stage. An empty chain is the
// identity stage.
func Chain(stages ...Stage) Stage {
	return chainStage(stages)
}

type chainStage []Stage

func (cs chainStage) Apply(ctx context.Context, c Chunk) ([]Chunk, error) {
	outs := []Chunk{c}
	for _, st := range cs {
		var next []Chunk
		for _, o := range outs {
			produced, err := st.Apply(ctx, o)
			if err != nil {
				return nil, err
			}
			next = append(next, produced...)
		}
		outs = next
	}
	return outs, nil
}

func (cs chainStage) Flush(ctx context.Context) ([]Chunk, error) {
	var result []Chunk
	for i := range cs {
		outs, err := cs[i].Flush(ctx)
		if err != nil {
			return nil, err
		}
		// Flushed output still passes through the rest of the chain, so a
		// later buffering stage sees it before its own flush.
		for j := i + 1; j < len(cs); j++ {
			var next []Chunk
			for _, o := range outs {
				produced, err := cs[j].Apply(ctx, o)
				if err != nil {
					return nil, err
				}
				next = append(next, produced...)
			}
			outs = next
		}
		result = append(result, outs...)
	}
	return result, nil
}

// Through wraps a source with a stage chain, yielding a new Source. The
// staged source pulls from upstream on demand, applies the stages and
// flushes them when the upstream ends, before itself ending.
func Through(src Source, stages ...Stage) Source {
	return &stagedSource{src: src, stage: Chain(stages...)}
}

type stagedSource struct {
	src   Source
	stage Stage
	queue []Chunk
	done  bool
	err   error
}

// Poll implements Source.
func (s *stagedSource) Poll(ctx context.Context) (Chunk, bool, error) {
	if s.err != nil {
		return Chunk{}, false, s.err
	}
	for {
		if len(s.queue) > 0 {
			c := s.queue[0]
			s.queue = s.queue[1:]
			return c, true, nil
		}
		if s.done {
			return Chunk{}, false, nil
		}
		c, ok, err := s.src.Poll(ctx)
		if err != nil {
			s.err = err
			return Chunk{}, false, s.err
		}
		if !ok {
			flushed, err := s.stage.Flush(ctx)
			if err != nil {
				s.err = coerceTransform(err)
				return Chunk{}, false, s.err
			}
			s.queue = flushed
			s.done = true
			continue
		}
		outs, err := s.stage.Apply(ctx, c)
		if err != nil {
			s.err = coerceTransform(err)
			return Chunk{}, false, s.err
		}
		s.queue = outs
	}
}

// Close implements Source, closing the upstream.
func (s *stagedSource) Close() error {
	return s.src.Close()
}

// coerceTransform wraps foreign stage errors as transform failures while
// leaving StreamErrors untouched.
func coerceTransform(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.Transform("stage", err)
}
