package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for the field selection server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Filter  FilterConfig  `yaml:"filter"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout Duration `yaml:"readTimeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout Duration `yaml:"writeTimeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the log output format: json or console.
	Format string `yaml:"format"`

	// Output is the log destination: stdout or stderr.
	Output string `yaml:"output"`
}

// FilterConfig holds field filter settings.
type FilterConfig struct {
	// FieldsParam is the inclusion query parameter name.
	FieldsParam string `yaml:"fieldsParam"`

	// OmitParam is the exclusion query parameter name.
	OmitParam string `yaml:"omitParam"`

	// SuppressContextWarning silences the diagnostic emitted when the
	// filter runs without access to a request.
	SuppressContextWarning bool `yaml:"suppressContextWarning"`

	// MaxBodySize is the largest response body, in bytes, the
	// filtering middleware will buffer. Larger bodies pass through
	// unfiltered. Zero selects the default of 10MB.
	MaxBodySize int64 `yaml:"maxBodySize"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(15 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Filter: FilterConfig{
			FieldsParam: "fields",
			OmitParam:   "omit",
			MaxBodySize: 10 << 20,
		},
	}
}

// applyDefaults fills unset fields with default values.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = defaults.Logging.Output
	}
	if c.Filter.FieldsParam == "" {
		c.Filter.FieldsParam = defaults.Filter.FieldsParam
	}
	if c.Filter.OmitParam == "" {
		c.Filter.OmitParam = defaults.Filter.OmitParam
	}
	if c.Filter.MaxBodySize == 0 {
		c.Filter.MaxBodySize = defaults.Filter.MaxBodySize
	}
}

// Validate checks the configuration for invalid values.
func Validate(c *Config) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}

	if c.Filter.FieldsParam == c.Filter.OmitParam {
		return fmt.Errorf("filter.fieldsParam and filter.omitParam must differ, both are %q",
			c.Filter.FieldsParam)
	}

	if c.Filter.MaxBodySize < 0 {
		return fmt.Errorf("filter.maxBodySize must not be negative")
	}

	return nil
}
