package errors

// Kind classifies a stream error.
type Kind string

const (
	// KindIO indicates a read or write failure on an endpoint.
	KindIO Kind = "IO_FAILURE"
	// KindClosed indicates an operation on a closed endpoint or pipe.
	KindClosed Kind = "CLOSED"
	// KindTimeout indicates a pipe made no progress within its idle timeout.
	KindTimeout Kind = "TIMEOUT"
	// KindTransform indicates a stage failed to transform a chunk.
	KindTransform Kind = "TRANSFORM_FAILURE"
	// KindCancelled indicates the pipeline owner cancelled the transfer.
	KindCancelled Kind = "CANCELLED"
)

var retryableKinds = map[Kind]bool{
	KindIO:      true,
	KindTimeout: true,
}

// IsRetryableKind reports whether errors of the given kind are
// worth retrying by an external owner. The pipe itself never retries.
func IsRetryableKind(k Kind) bool {
	return retryableKinds[k]
}
