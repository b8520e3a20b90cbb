package stream

import (
	"bytes"
	"context"
	"errors"
	"testing"

	skerrors "github.com/kbukum/streamkit/errors"
)

// upperStage maps payload bytes to upper case.
func upperStage() Stage {
	return StageFunc(func(c Chunk) (Chunk, error) {
		return NewChunk(bytes.ToUpper(c.Bytes())).WithEncoding(c.Encoding()), nil
	})
}

// blockStage regroups the byte stream into fixed-size blocks, emitting the
// remainder on flush. Exercises stages with internal buffers.
type blockStage struct {
	size int
	buf  bytes.Buffer
}

func (b *blockStage) Apply(ctx context.Context, c Chunk) ([]Chunk, error) {
	b.buf.Write(c.Bytes())
	var out []Chunk
	for b.buf.Len() >= b.size {
		out = append(out, NewChunk(b.buf.Next(b.size)))
	}
	return out, nil
}

func (b *blockStage) Flush(ctx context.Context) ([]Chunk, error) {
	if b.buf.Len() == 0 {
		return nil, nil
	}
	return []Chunk{NewChunk(b.buf.Next(b.buf.Len()))}, nil
}

func drainSource(t *testing.T, src Source) ([]string, error) {
	t.Helper()
	var got []string
	for {
		c, ok, err := src.Poll(context.Background())
		if err != nil {
			return got, err
		}
		if !ok {
			return got, nil
		}
		got = append(got, c.String())
	}
}

func TestThrough_CaseTransformBeforeEnd(t *testing.T) {
	src := Through(NewChunksSource(Text("hello")), upperStage())
	got, err := drainSource(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "HELLO" {
		t.Errorf("expected [HELLO], got %v", got)
	}
}

func TestThrough_IdempotentEnd(t *testing.T) {
	src := Through(NewChunksSource(Text("a")), upperStage())
	if _, err := drainSource(t, src); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		_, ok, err := src.Poll(context.Background())
		if ok || err != nil {
			t.Fatalf("poll after end: ok=%v err=%v", ok, err)
		}
	}
}

func TestThrough_FlushOnEnd(t *testing.T) {
	src := Through(NewChunksSource(Text("abcde")), &blockStage{size: 2})
	got, err := drainSource(t, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ab", "cd", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestThrough_StageError(t *testing.T) {
	boom := errors.New("boom")
	failing := StageFunc(func(c Chunk) (Chunk, error) { return Chunk{}, boom })
	src := Through(NewChunksSource(Text("x")), failing)

	_, _, err := src.Poll(context.Background())
	if err == nil {
		t.Fatal("expected stage error")
	}
	if skerrors.KindOf(err) != skerrors.KindTransform {
		t.Errorf("expected TRANSFORM_FAILURE, got %s", skerrors.KindOf(err))
	}
	if !errors.Is(err, boom) {
		t.Error("expected cause preserved")
	}

	// Idempotent error tail.
	_, _, err2 := src.Poll(context.Background())
	if err2 != err {
		t.Error("expected the same terminal error on re-poll")
	}
}

func TestChain_RechunkingInvariance(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog")

	run := func(chunkSize int) []byte {
		src := Through(
			NewBytesSource(input, chunkSize),
			upperStage(),
			&blockStage{size: 7},
		)
		var out bytes.Buffer
		for {
			c, ok, err := src.Poll(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				return out.Bytes()
			}
			out.Write(c.Bytes())
		}
	}

	whole := run(len(input))
	for _, size := range []int{1, 2, 5, 13} {
		if got := run(size); !bytes.Equal(got, whole) {
			t.Errorf("chunk size %d changed output: %q vs %q", size, got, whole)
		}
	}
	if !bytes.Equal(whole, bytes.ToUpper(input)) {
		t.Errorf("expected %q, got %q", bytes.ToUpper(input), whole)
	}
}

func TestChain_Empty_Identity(t *testing.T) {
	src := Through(NewChunksSource(Text("ab"), Text("cd")))
	got, err := drainSource(t, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "ab" || got[1] != "cd" {
		t.Errorf("identity chain altered stream: %v", got)
	}
}

func TestChain_OrderingAcrossStages(t *testing.T) {
	// A one-to-many stage: output for chunk i must fully precede output
	// for chunk i+1.
	split := explodeStage()
	src := Through(NewChunksSource(Text("ab"), Text("cd")), split, upperStage())
	got, err := drainSource(t, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

// explodeStage emits one chunk per input byte.
func explodeStage() Stage {
	return stageFuncN(func(c Chunk) ([]Chunk, error) {
		var out []Chunk
		for _, b := range c.Bytes() {
			out = append(out, NewChunk([]byte{b}))
		}
		return out, nil
	})
}

type stageFuncN func(c Chunk) ([]Chunk, error)

func (f stageFuncN) Apply(ctx context.Context, c Chunk) ([]Chunk, error) { return f(c) }
func (f stageFuncN) Flush(ctx context.Context) ([]Chunk, error)          { return nil, nil }
