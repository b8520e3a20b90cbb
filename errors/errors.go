package errors

import (
	stderrors "errors"
	"fmt"
)

// StreamError is the unified error type for pipeline failures.
type StreamError struct {
	// Kind is the machine-readable error classification.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried by the owner.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *StreamError) Unwrap() error { return e.Cause }

// Is matches any StreamError with the same Kind, so callers can use
// errors.Is(err, &StreamError{Kind: KindClosed}) style sentinels.
func (e *StreamError) Is(target error) bool {
	var se *StreamError
	if !stderrors.As(target, &se) {
		return false
	}
	return e.Kind == se.Kind
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *StreamError) WithCause(cause error) *StreamError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *StreamError) WithDetail(key string, value any) *StreamError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new StreamError with automatic retryable detection.
func New(kind Kind, message string) *StreamError {
	return &StreamError{
		Kind:      kind,
		Message:   message,
		Retryable: IsRetryableKind(kind),
	}
}

// --- Common Error Constructors ---

// IO creates a new StreamError for a failed endpoint read or write.
func IO(op string, cause error) *StreamError {
	return &StreamError{
		Kind: KindIO, Message: fmt.Sprintf("%s failed", op),
		Retryable: true, Cause: cause,
		Details: map[string]any{"op": op},
	}
}

// Closed creates a new StreamError for an operation on a closed endpoint.
func Closed(what string) *StreamError {
	return &StreamError{
		Kind: KindClosed, Message: fmt.Sprintf("%s is closed", what),
		Details: map[string]any{"target": what},
	}
}

// Timeout creates a new StreamError for a pipe that stopped making progress.
func Timeout(pipe string) *StreamError {
	return &StreamError{
		Kind: KindTimeout, Message: "no progress within the configured idle timeout",
		Retryable: true,
		Details:   map[string]any{"pipe": pipe},
	}
}

// Transform creates a new StreamError for a stage failure.
func Transform(stage string, cause error) *StreamError {
	return &StreamError{
		Kind: KindTransform, Message: fmt.Sprintf("stage %s failed", stage),
		Cause:   cause,
		Details: map[string]any{"stage": stage},
	}
}

// Cancelled creates a new StreamError for an owner-initiated cancellation.
func Cancelled(pipe string) *StreamError {
	return &StreamError{
		Kind: KindCancelled, Message: "transfer cancelled",
		Details: map[string]any{"pipe": pipe},
	}
}

// Validation creates a new StreamError for invalid configuration or input.
func Validation(message string) *StreamError {
	return &StreamError{
		Kind: KindTransform, Message: message,
		Details: map[string]any{"validation": true},
	}
}

// --- Inspection helpers ---

// KindOf extracts the Kind from any error, unwrapping as needed.
// Returns an empty Kind for nil or foreign errors.
func KindOf(err error) Kind {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsRetryable reports whether an error is safe to retry.
// Foreign errors are not retryable.
func IsRetryable(err error) bool {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// As is a convenience wrapper extracting a *StreamError from an error chain.
func As(err error) (*StreamError, bool) {
	var se *StreamError
	ok := stderrors.As(err, &se)
	return se, ok
}
