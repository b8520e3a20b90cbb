// Package config provides configuration loading and validation for
// streamkit pipelines.
//
// It uses Viper to load configuration from files and environment
// variables. Loaded structs follow the ApplyDefaults/Validate convention:
// both are invoked automatically when implemented.
//
// # Usage
//
//	var cfg config.PipelineConfig
//	err := config.Load("copier", &cfg)
//
// Environment variables override file values using the STREAMKIT_ prefix
// with underscore-separated paths (e.g., STREAMKIT_HIGH_WATERMARK).
package config
