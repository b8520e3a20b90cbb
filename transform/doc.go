// Package transform provides byte-stream transformation stages for
// streamkit pipelines: case mapping and re-chunking.
package transform
