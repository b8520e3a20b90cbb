package stream

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group runs several pipes together: the first terminal error cancels the
// shared context and Wait reports it.
type Group struct {
	g     *errgroup.Group
	ctx   context.Context
	pipes []*Pipe
}

// NewGroup creates a pipe group under the given context.
func NewGroup(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx}
}

// Go starts a pipe on its own goroutine.
func (gr *Group) Go(p *Pipe) {
	gr.pipes = append(gr.pipes, p)
	gr.g.Go(func() error {
		return p.Run(gr.ctx)
	})
}

// Wait blocks until every pipe reaches a terminal state and returns the
// first error, if any.
func (gr *Group) Wait() error {
	return gr.g.Wait()
}

// Close fans an external close out to every pipe.
func (gr *Group) Close() {
	for _, p := range gr.pipes {
		_ = p.Close()
	}
}
