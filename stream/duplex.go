package stream

import "context"

// Duplex pairs an independent inbound Sink and outbound Source. The halves
// share no buffer and need not be symmetric in content; by default they
// terminate independently. Linked opts into joint shutdown.
type Duplex struct {
	in     Sink
	out    Source
	linked bool
}

// DuplexOption configures a Duplex.
type DuplexOption func(*Duplex)

// Linked links the two halves: closing or failing one side closes the
// other. The default leaves shutdown to the caller composing the pipeline.
func Linked(v bool) DuplexOption {
	return func(d *Duplex) { d.linked = v }
}

// NewDuplex creates a duplex from its two halves.
func NewDuplex(in Sink, out Source, opts ...DuplexOption) *Duplex {
	d := &Duplex{in: in, out: out}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Inbound returns the sink half, wrapped for joint shutdown when linked.
func (d *Duplex) Inbound() Sink {
	if d.linked {
		return &linkedSink{sink: d.in, other: d.out}
	}
	return d.in
}

// Outbound returns the source half, wrapped for joint shutdown when linked.
func (d *Duplex) Outbound() Source {
	if d.linked {
		return &linkedSource{src: d.out, other: d.in}
	}
	return d.out
}

// Close closes both halves regardless of linkage.
func (d *Duplex) Close() error {
	inErr := d.in.Close()
	outErr := d.out.Close()
	if inErr != nil {
		return inErr
	}
	return outErr
}

type linkedSink struct {
	sink  Sink
	other Source
}

func (l *linkedSink) Write(ctx context.Context, c Chunk) (WriteResult, error) {
	res, err := l.sink.Write(ctx, c)
	if err != nil {
		_ = l.other.Close()
	}
	return res, err
}

func (l *linkedSink) Close() error {
	_ = l.other.Close()
	return l.sink.Close()
}

type linkedSource struct {
	src   Source
	other Sink
}

func (l *linkedSource) Poll(ctx context.Context) (Chunk, bool, error) {
	c, ok, err := l.src.Poll(ctx)
	if err != nil {
		_ = l.other.Close()
	}
	return c, ok, err
}

func (l *linkedSource) Close() error {
	_ = l.other.Close()
	return l.src.Close()
}
