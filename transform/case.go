package transform

import (
	"bytes"

	"github.com/kbukum/streamkit/stream"
)

// Upper returns a stage mapping payload text to upper case.
func Upper() stream.Stage {
	return stream.StageFunc(func(c stream.Chunk) (stream.Chunk, error) {
		return stream.NewChunk(bytes.ToUpper(c.Bytes())).WithEncoding(c.Encoding()), nil
	})
}

// Lower returns a stage mapping payload text to lower case.
func Lower() stream.Stage {
	return stream.StageFunc(func(c stream.Chunk) (stream.Chunk, error) {
		return stream.NewChunk(bytes.ToLower(c.Bytes())).WithEncoding(c.Encoding()), nil
	})
}
