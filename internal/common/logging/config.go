package logging

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	FormatText = "text"
	FormatJson = "json"
)

var validLogFormats = map[string]bool{
	FormatText: true,
	FormatJson: true,
}

// Config defines bootstats logging configuration.
type Config struct {
	// Log level for console logging on stdout, e.g. info, debug
	Level string
	// Logging format, either text or json
	Format string
	// Defines configuration for file logging
	File struct {
		// Whether file logging is enabled.
		Enabled bool
		// Log level, e.g. info, debug
		Level string
		// Logging format, either text or json
		Format string
		// The location of the logfile on disk
		LogFile string
		// Maximum size in megabytes of the log file before it gets rotated
		MaxSizeMb int
		// Maximum number of old log files to retain
		MaxBackups int
		// Maximum number of days to retain old log files
		MaxAgeDays int
		// Whether to compress rotated log files
		Compress bool
	}
}

// DefaultConfig logs text at info level to stdout only.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatText}
}

// Validate checks levels and formats of every enabled output.
func (c Config) Validate() error {
	if _, err := parseLogLevel(c.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Format); err != nil {
		return err
	}
	if c.File.Enabled {
		if c.File.LogFile == "" {
			return errors.New("file.logFile must be set when file logging is enabled")
		}
		if _, err := parseLogLevel(c.File.Level); err != nil {
			return err
		}
		if err := validateLogFormat(c.File.Format); err != nil {
			return err
		}
		if c.File.MaxSizeMb < 0 {
			return errors.New("file.maxSizeMb must not be negative")
		}
		if c.File.MaxBackups < 0 {
			return errors.New("file.maxBackups must not be negative")
		}
		if c.File.MaxAgeDays < 0 {
			return errors.New("file.maxAgeDays must not be negative")
		}
	}
	return nil
}

func validateLogFormat(f string) error {
	if !validLogFormats[strings.ToLower(f)] {
		formats := maps.Keys(validLogFormats)
		slices.Sort(formats)
		return errors.Errorf("unknown log format: %s.  Valid formats are %s", f, formats)
	}
	return nil
}

func parseLogLevel(level string) (logrus.Level, error) {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, errors.Errorf("unknown level: %s", level)
	}
	return l, nil
}
