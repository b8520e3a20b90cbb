package stream

// EncodingUTF8 tags chunks whose payload is UTF-8 text. The tag is advisory:
// the pipeline never inspects payloads, stages may use it for display or
// transform convenience.
const EncodingUTF8 = "utf-8"

// Chunk is the immutable unit of data moving through a pipeline.
// The zero value is an empty chunk.
type Chunk struct {
	data     []byte
	encoding string
}

// NewChunk creates a chunk from a copy of data.
func NewChunk(data []byte) Chunk {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Chunk{data: buf}
}

// Text creates a UTF-8 tagged chunk from a string.
func Text(s string) Chunk {
	return Chunk{data: []byte(s), encoding: EncodingUTF8}
}

// Bytes returns a copy of the payload. The chunk itself is never mutated.
func (c Chunk) Bytes() []byte {
	buf := make([]byte, len(c.data))
	copy(buf, c.data)
	return buf
}

// Len returns the payload size in bytes.
func (c Chunk) Len() int { return len(c.data) }

// String returns the payload interpreted as text.
func (c Chunk) String() string { return string(c.data) }

// Encoding returns the advisory encoding tag, empty for raw binary.
func (c Chunk) Encoding() string { return c.encoding }

// WithEncoding returns a chunk with the same payload and a new encoding tag.
func (c Chunk) WithEncoding(enc string) Chunk {
	return Chunk{data: c.data, encoding: enc}
}

// fromBytes wraps data without copying. Callers must not retain data.
func fromBytes(data []byte, encoding string) Chunk {
	return Chunk{data: data, encoding: encoding}
}
