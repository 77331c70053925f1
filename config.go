package embedded

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MemoryLocation is the location string naming an in-memory database.
const MemoryLocation = ":memory:"

// Config holds the settings an instance is started with.
type Config struct {
	// Directory is the storage location. Empty or ":memory:" starts an
	// in-memory database.
	Directory string `toml:"directory"`
	// Quiet keeps routine lifecycle messages at debug level.
	Quiet bool `toml:"quiet"`
	// Sequential runs queries on a single execution thread.
	Sequential bool `toml:"sequential"`

	LogLevel  string `toml:"log-level"`
	LogFormat string `toml:"log-format"`
}

// NewConfig returns a Config with default settings.
func NewConfig() *Config {
	return &Config{
		Directory: MemoryLocation,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Validate checks the logging settings.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log-level")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return errors.Errorf("log-format: unknown format %q, want text or json", c.LogFormat)
	}
	return nil
}

// NewLogger builds the logger described by the config, writing to w.
func (c *Config) NewLogger(w io.Writer) (*logrus.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	level, _ := logrus.ParseLevel(c.LogLevel)
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger, nil
}
