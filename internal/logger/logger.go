// Package logger wraps slog with the attributes mapcat tags its records with.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

type Config struct {
	Level  string    // debug, info, warn or error; anything else is info
	Format string    // "json" or text
	Output io.Writer // nil means stdout
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	if strings.EqualFold(cfg.Format, "json") {
		return &Logger{slog.New(slog.NewJSONHandler(out, opts))}
	}
	return &Logger{slog.New(slog.NewTextHandler(out, opts))}
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// WithComponent tags records with the subsystem that wrote them.
func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// WithRun tags records with a reconcile pass id.
func (l *Logger) WithRun(runID string) *Logger {
	return l.with("run_id", runID)
}

func (l *Logger) WithMap(mapID int64, mapName string) *Logger {
	return l.with("map_id", mapID, "map_name", mapName)
}
