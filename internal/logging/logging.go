// Package logging configures the process-wide slog logger.
//
// The level is held in a shared slog.LevelVar so the interactive menu can
// flip debug output on and off without rebuilding the handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls how logging is configured.
type Options struct {
	Level  string    // "debug", "info", "warn", "error" (default: "info")
	Format string    // "text" or "json" (default: "text")
	Output io.Writer // default: os.Stderr, keeps logs off the chat display
}

var level slog.LevelVar

// ParseLevel converts a level name to slog.Level.
// Unrecognized values map to slog.LevelInfo.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate returns an error if the level name is not recognized.
func Validate(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "info", "warn", "warning", "error", "":
		return nil
	default:
		return fmt.Errorf("unknown log level %q (valid: %s)", name, LevelNames())
	}
}

// LevelNames returns all valid level names, for flag help text.
func LevelNames() string {
	return "debug, info, warn, error"
}

// Setup installs a new default logger built from opts and returns it.
func Setup(opts Options) (*slog.Logger, error) {
	if err := Validate(opts.Level); err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level.Set(ParseLevel(opts.Level))
	handlerOpts := &slog.HandlerOptions{Level: &level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "text", "":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", opts.Format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// ToggleDebug switches between debug and info level and reports
// whether debug is now enabled.
func ToggleDebug() bool {
	if level.Level() == slog.LevelDebug {
		level.Set(slog.LevelInfo)
		return false
	}
	level.Set(slog.LevelDebug)
	return true
}

// DebugEnabled reports whether debug logging is currently on.
func DebugEnabled() bool {
	return level.Level() <= slog.LevelDebug
}
