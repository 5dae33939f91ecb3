package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

const maxWorkers = 256

func (c *Config) normalize() {
	c.Console.Encoding = strings.ToLower(strings.TrimSpace(c.Console.Encoding))
	if c.Console.Encoding == "" {
		c.Console.Encoding = defaultEncoding
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}
	if c.MaxReportSuffix == 0 {
		c.MaxReportSuffix = defaultMaxReportSuffix
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > maxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", maxWorkers)
	}
	if c.MaxReportSuffix < 1 {
		return errors.New("max_report_suffix must be positive")
	}
	if _, err := htmlindex.Get(c.Console.Encoding); err != nil {
		return fmt.Errorf("console.encoding: unsupported value %q", c.Console.Encoding)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
