package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// CommandLineFormatter prints only the message. Used by commands whose output is meant for humans or pipes.
type CommandLineFormatter struct{}

func (f *CommandLineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

// Configure applies c to logger. Console output goes to out; if file logging is enabled a rotated
// logfile receives a copy of every entry at or above the file level.
func Configure(logger *logrus.Logger, out io.Writer, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	consoleLevel, _ := parseLogLevel(c.Level)
	logger.SetFormatter(formatter(c.Format))
	logger.SetOutput(out)
	logger.SetLevel(consoleLevel)

	if c.File.Enabled {
		fileLevel, _ := parseLogLevel(c.File.Level)
		// Entries must reach the hook even if the console is quieter than the file.
		if fileLevel > consoleLevel {
			logger.SetLevel(fileLevel)
			logger.SetOutput(io.Discard)
			logger.AddHook(&writerHook{writer: out, formatter: formatter(c.Format), level: consoleLevel})
		}
		logger.AddHook(&writerHook{
			writer: &lumberjack.Logger{
				Filename:   c.File.LogFile,
				MaxSize:    c.File.MaxSizeMb,
				MaxBackups: c.File.MaxBackups,
				MaxAge:     c.File.MaxAgeDays,
				Compress:   c.File.Compress,
			},
			formatter: formatter(c.File.Format),
			level:     fileLevel,
		})
	}
	return nil
}

func formatter(format string) logrus.Formatter {
	if strings.ToLower(format) == FormatJson {
		return &logrus.JSONFormatter{TimestampFormat: RFC3339Milli}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: RFC3339Milli}
}

// writerHook writes entries at or above level to writer using its own formatter.
type writerHook struct {
	writer    io.Writer
	formatter logrus.Formatter
	level     logrus.Level
}

func (h *writerHook) Levels() []logrus.Level {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= h.level {
			levels = append(levels, l)
		}
	}
	return levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}
