// Package logger provides structured logging for streamkit pipelines
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipe")
//	log.Info("transfer complete", logger.Fields(logger.FieldBytes, n))
package logger
