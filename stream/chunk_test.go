package stream

import (
	"bytes"
	"testing"
)

func TestNewChunk_Copies(t *testing.T) {
	data := []byte("abc")
	c := NewChunk(data)
	data[0] = 'z'
	if c.String() != "abc" {
		t.Errorf("chunk aliased caller data: %q", c.String())
	}
}

func TestChunk_Bytes_Defensive(t *testing.T) {
	c := Text("abc")
	b := c.Bytes()
	b[0] = 'z'
	if c.String() != "abc" {
		t.Errorf("Bytes leaked internal payload: %q", c.String())
	}
}

func TestText_Encoding(t *testing.T) {
	c := Text("hi")
	if c.Encoding() != EncodingUTF8 {
		t.Errorf("expected utf-8 tag, got %q", c.Encoding())
	}
	if c.Len() != 2 {
		t.Errorf("expected len 2, got %d", c.Len())
	}
}

func TestChunk_WithEncoding(t *testing.T) {
	c := NewChunk([]byte{0x1f, 0x8b}).WithEncoding("gzip")
	if c.Encoding() != "gzip" {
		t.Errorf("expected gzip tag, got %q", c.Encoding())
	}
	if !bytes.Equal(c.Bytes(), []byte{0x1f, 0x8b}) {
		t.Error("payload changed by retagging")
	}
}

func TestChunk_ZeroValue(t *testing.T) {
	var c Chunk
	if c.Len() != 0 || c.String() != "" || c.Encoding() != "" {
		t.Errorf("zero chunk not empty: %+v", c)
	}
}
