package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestStreamError_New_Success(t *testing.T) {
	err := New(KindClosed, "sink is closed")
	if err.Kind != KindClosed {
		t.Errorf("expected kind %s, got %s", KindClosed, err.Kind)
	}
	if err.Message != "sink is closed" {
		t.Errorf("expected message 'sink is closed', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("CLOSED should not be retryable")
	}
}

func TestStreamError_New_Retryable(t *testing.T) {
	err := New(KindTimeout, "stalled")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if !New(KindIO, "read failed").Retryable {
		t.Error("IO_FAILURE should be retryable")
	}
}

func TestStreamError_IO_Success(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := IO("read", cause)
	if err.Kind != KindIO {
		t.Errorf("expected IO_FAILURE, got %s", err.Kind)
	}
	if err.Details["op"] != "read" {
		t.Errorf("expected op=read, got %v", err.Details["op"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be in the chain")
	}
	if !err.Retryable {
		t.Error("IO should be retryable")
	}
}

func TestStreamError_Closed_WriteAfterClose(t *testing.T) {
	err := Closed("sink")
	if err.Kind != KindClosed {
		t.Errorf("expected CLOSED, got %s", err.Kind)
	}
	if err.Details["target"] != "sink" {
		t.Errorf("expected target=sink, got %v", err.Details["target"])
	}
}

func TestStreamError_Error_WithCause(t *testing.T) {
	err := Transform("gzip", stderrors.New("bad header"))
	msg := err.Error()
	if !strings.Contains(msg, "TRANSFORM_FAILURE") {
		t.Errorf("expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "bad header") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestStreamError_Error_NoCause(t *testing.T) {
	err := Cancelled("pipe-1")
	if strings.Contains(err.Error(), "cause") {
		t.Errorf("did not expect cause segment, got %q", err.Error())
	}
}

func TestStreamError_WithDetail(t *testing.T) {
	err := New(KindTimeout, "stalled").WithDetail("pipe", "p1").WithDetail("bytes", 42)
	if err.Details["pipe"] != "p1" {
		t.Errorf("expected pipe=p1, got %v", err.Details["pipe"])
	}
	if err.Details["bytes"] != 42 {
		t.Errorf("expected bytes=42, got %v", err.Details["bytes"])
	}
}

func TestStreamError_WithCause_Unwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := New(KindIO, "outer").WithCause(inner)
	if stderrors.Unwrap(err) != inner {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(Timeout("p")); got != KindTimeout {
		t.Errorf("expected TIMEOUT, got %s", got)
	}
	wrapped := fmt.Errorf("run: %w", Closed("source"))
	if got := KindOf(wrapped); got != KindClosed {
		t.Errorf("expected CLOSED through wrapping, got %s", got)
	}
	if got := KindOf(stderrors.New("plain")); got != "" {
		t.Errorf("expected empty kind for foreign error, got %s", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("expected empty kind for nil, got %s", got)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", IO("write", nil))
	if !IsKind(err, KindIO) {
		t.Error("expected IsKind to match through wrapping")
	}
	if IsKind(err, KindClosed) {
		t.Error("did not expect CLOSED match")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(IO("read", nil)) {
		t.Error("IO should be retryable")
	}
	if IsRetryable(Closed("sink")) {
		t.Error("CLOSED should not be retryable")
	}
	if IsRetryable(stderrors.New("plain")) {
		t.Error("foreign errors should not be retryable")
	}
}

func TestStreamError_Is_KindSentinel(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Closed("sink"))
	if !stderrors.Is(err, &StreamError{Kind: KindClosed}) {
		t.Error("expected kind sentinel match")
	}
	if stderrors.Is(err, &StreamError{Kind: KindTimeout}) {
		t.Error("did not expect TIMEOUT sentinel match")
	}
}

func TestValidation(t *testing.T) {
	err := Validation("high_watermark: must be greater than low_watermark")
	if err.Kind != KindTransform {
		t.Errorf("expected TRANSFORM_FAILURE, got %s", err.Kind)
	}
	if err.Details["validation"] != true {
		t.Error("expected validation detail flag")
	}
	if err.Retryable {
		t.Error("validation errors should not be retryable")
	}
}
