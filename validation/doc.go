// Package validation provides input validation helpers for streamkit.
//
// Two styles are supported. Struct validation uses go-playground/validator
// tags and is the right fit for configuration structs:
//
//	type Config struct {
//	    Name      string `validate:"required"`
//	    ChunkSize int    `validate:"gt=0"`
//	}
//	err := validation.Struct(&cfg)
//
// The fluent Validator collects field errors for hand-written checks:
//
//	err := validation.New().
//	    Required("name", cfg.Name).
//	    Min("chunk_size", cfg.ChunkSize, 1).
//	    Validate()
//
// Both styles report failures as a transform-kind StreamError carrying
// per-field details.
package validation
