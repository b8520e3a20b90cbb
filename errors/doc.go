// Package errors provides unified error handling for streamkit.
// It implements a structured error type tagged with a stream error kind,
// retryable detection, and interop with the standard errors package.
package errors
