// Package codec provides compression stages for streamkit pipelines.
// Codecs are opaque to the pipe: they satisfy the stream.Stage contract
// and may buffer internally, flushing everything when the upstream ends.
package codec
