// Package osio provides file and standard-stream endpoints for streamkit
// pipelines, plus the Copy convenience that wires a source, a stage chain
// and a sink into a pipe and runs it.
package osio
