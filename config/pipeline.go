package config

import (
	"fmt"
	"time"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/stream"
	"github.com/kbukum/streamkit/validation"
)

// PipelineConfig contains the configuration fields a streaming pipeline
// needs. Tools extend this by embedding it in their own config structs.
//
// Example:
//
//	type CopierConfig struct {
//	    config.PipelineConfig `yaml:",inline" mapstructure:",squash"`
//	    Input  string `yaml:"input" mapstructure:"input"`
//	    Output string `yaml:"output" mapstructure:"output"`
//	}
type PipelineConfig struct {
	Name          string        `yaml:"name" mapstructure:"name" validate:"required"`
	HighWatermark int           `yaml:"high_watermark" mapstructure:"high_watermark" validate:"gt=0,gtfield=LowWatermark"`
	LowWatermark  int           `yaml:"low_watermark" mapstructure:"low_watermark" validate:"gt=0"`
	ChunkSize     int           `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gt=0"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`
	GzipLevel     int           `yaml:"gzip_level" mapstructure:"gzip_level" validate:"gte=-2,lte=9"`
	Logging       logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the pipeline configuration.
// Override this in embedding structs and call c.PipelineConfig.ApplyDefaults() first.
func (c *PipelineConfig) ApplyDefaults() {
	if c.HighWatermark == 0 {
		c.HighWatermark = stream.DefaultHighWatermark
	}
	if c.LowWatermark == 0 {
		c.LowWatermark = stream.DefaultLowWatermark
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 32 << 10
	}
	if c.GzipLevel == 0 {
		// gzip.DefaultCompression
		c.GzipLevel = -1
	}
	// Propagate pipeline name into logging so Init() uses the right tag.
	if c.Logging.Name == "" && c.Name != "" {
		c.Logging.Name = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the pipeline configuration fields.
// Override this in embedding structs and call c.PipelineConfig.Validate() first.
func (c *PipelineConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Options converts the configuration into pipe options.
func (c *PipelineConfig) Options() []stream.Option {
	opts := []stream.Option{
		stream.WithWatermarks(c.HighWatermark, c.LowWatermark),
	}
	if c.IdleTimeout > 0 {
		opts = append(opts, stream.WithIdleTimeout(c.IdleTimeout))
	}
	return opts
}
