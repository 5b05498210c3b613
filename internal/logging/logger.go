package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel applies when Config.Level is empty or unparseable.
const DefaultLevel = zerolog.DebugLevel

// Config selects the log level and sinks.
type Config struct {
	// Level is a zerolog level name such as "debug" or "warn".
	Level string
	// File, when set, receives JSON log lines in addition to the console.
	File string
	// Console writes human readable lines to Output (stderr when nil).
	Console bool
	// Output overrides the console writer destination.
	Output io.Writer
}

// ParseLevel resolves the configured level, falling back to DefaultLevel.
func (c Config) ParseLevel() zerolog.Level {
	if strings.TrimSpace(c.Level) == "" {
		return DefaultLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level)))
	if err != nil {
		return DefaultLevel
	}
	return level
}

// New builds a logger from cfg. The returned close function releases the log
// file, if any.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	var writers []io.Writer
	if cfg.Console {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			FormatCaller: func(i any) string {
				return shortCaller(i)
			},
		})
	} else if cfg.Output != nil {
		writers = append(writers, cfg.Output)
	}

	closeFn := noop
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), noop, err
		}
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), noop, err
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closeFn, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.ParseLevel()).
		With().
		Caller().
		Timestamp().
		Logger()
	return logger, closeFn, nil
}

// shortCaller trims a caller path to "dir/file.go:line".
func shortCaller(i any) string {
	raw, ok := i.(string)
	if !ok || raw == "" {
		return ""
	}
	file, line, found := strings.Cut(raw, ":")
	if !found {
		return raw
	}
	if _, err := strconv.Atoi(line); err != nil {
		return raw
	}
	return filepath.Base(filepath.Dir(file)) + "/" + filepath.Base(file) + ":" + line
}
