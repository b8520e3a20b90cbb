// Package stream provides composable, backpressure-aware chunked data
// pipelines.
//
// Data flows from a Source through zero or more Stages into a Sink,
// driven by a Pipe. Sources are pull-based, so no work happens until the
// Pipe polls, and every contract takes a context for cancellation. The
// Pipe enforces a high/low watermark
// pair on its internal buffer: it keeps polling a fast Source while the
// Sink is stalled until the high watermark is reached, then suspends until
// the Sink signals it has drained.
//
// # Usage
//
//	src := stream.NewBytesSource(data, 32<<10)
//	dst := stream.NewBufferSink()
//	p := stream.New(stream.Through(src, transform.Upper()), dst)
//	if err := p.Run(ctx); err != nil {
//	    // terminal outcome is reported exactly once
//	}
//
// A Duplex pairs an independent inbound Sink and outbound Source; the two
// halves share no buffer and, unless explicitly linked, terminate
// independently.
package stream
