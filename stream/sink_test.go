package stream

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/streamkit/errors"
)

func TestBufferSink_WriteAfterClose(t *testing.T) {
	s := NewBufferSink()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	_, err := s.Write(context.Background(), Text("late"))
	if errors.KindOf(err) != errors.KindClosed {
		t.Errorf("expected CLOSED, got %v", err)
	}
}

func TestBufferSink_Close_Idempotent(t *testing.T) {
	s := NewBufferSink()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}

func TestBufferSink_Bounded_Backpressure(t *testing.T) {
	s := NewBoundedBufferSink(4)
	res, err := s.Write(context.Background(), Text("abcd"))
	if err != nil || res != Accepted {
		t.Fatalf("first write: res=%v err=%v", res, err)
	}
	res, err = s.Write(context.Background(), Text("e"))
	if err != nil {
		t.Fatal(err)
	}
	if res != Backpressured {
		t.Error("expected backpressure at capacity")
	}
	// The rejected chunk was not consumed.
	if s.Len() != 4 {
		t.Errorf("expected 4 buffered bytes, got %d", s.Len())
	}
}

func TestBufferSink_Drain_NotifiesReady(t *testing.T) {
	s := NewBoundedBufferSink(2)
	if _, err := s.Write(context.Background(), Text("ab")); err != nil {
		t.Fatal(err)
	}
	ready := s.Ready()
	if n := s.Drain(2); n != 2 {
		t.Fatalf("expected 2 bytes drained, got %d", n)
	}
	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("expected ready notification after drain")
	}
	// Space is available again.
	res, err := s.Write(context.Background(), Text("cd"))
	if err != nil || res != Accepted {
		t.Fatalf("post-drain write: res=%v err=%v", res, err)
	}
	if got := string(s.Bytes()); got != "abcd" {
		t.Errorf("drained chunks must stay in order, got %q", got)
	}
}

func TestBufferSink_Drain_Empty(t *testing.T) {
	s := NewBufferSink()
	if n := s.Drain(10); n != 0 {
		t.Errorf("expected 0 drained from empty sink, got %d", n)
	}
}

func TestChunksSource_IdempotentEnd(t *testing.T) {
	s := NewChunksSource(Text("a"))
	if _, ok, _ := s.Poll(context.Background()); !ok {
		t.Fatal("expected a chunk")
	}
	for i := 0; i < 3; i++ {
		_, ok, err := s.Poll(context.Background())
		if ok || err != nil {
			t.Fatalf("expected stable end, got ok=%v err=%v", ok, err)
		}
	}
}

func TestChunksSource_PollAfterClose(t *testing.T) {
	s := NewChunksSource(Text("a"), Text("b"))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	_, _, err := s.Poll(context.Background())
	if errors.KindOf(err) != errors.KindClosed {
		t.Errorf("expected CLOSED, got %v", err)
	}
	// Idempotent error tail.
	_, _, err2 := s.Poll(context.Background())
	if errors.KindOf(err2) != errors.KindClosed {
		t.Errorf("expected stable CLOSED tail, got %v", err2)
	}
}

func TestNewBytesSource_Chunking(t *testing.T) {
	s := NewBytesSource([]byte("abcdefg"), 3)
	var got []string
	for {
		c, ok, err := s.Poll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, c.String())
	}
	want := []string{"abc", "def", "g"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestChunksSource_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewChunksSource(Text("a"))
	_, _, err := s.Poll(ctx)
	if errors.KindOf(err) != errors.KindCancelled {
		t.Errorf("expected CANCELLED, got %v", err)
	}
}
