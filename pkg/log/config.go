package log

import (
	"io"
	"os"
)

// Config defines logging configuration.
type Config struct {
	// Level sets the minimum log level
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format sets the output format (json, text)
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// DisableColors turns off level colors in text output
	DisableColors bool `json:"disable_colors" yaml:"disable_colors" mapstructure:"disable_colors"`

	// Output overrides the destination; stderr when nil.
	Output io.Writer `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
	}
}

func (c *Config) writer() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stderr
}
