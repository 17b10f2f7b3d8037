package logging

import (
	"context"
	"os"
	"path/filepath"

	log "log/slog"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"zen/internal/config"
)

var levelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Setup installs the default slog logger: a tint handler on stdout and,
// when file logging is on, a plain text handler writing to a
// size/age-rotated file under cfg.LogDir.
func Setup(cfg *config.Config, levelOverride string) error {
	level, ok := levelMap[levelOverride]
	if !ok {
		level, ok = levelMap[cfg.LogLevel]
		if !ok {
			level = log.LevelInfo
		}
	}

	console := tint.NewHandler(os.Stdout, &tint.Options{Level: level})

	if !cfg.LogToFile {
		log.SetDefault(log.New(console))
		return nil
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return err
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "zen.log"),
		MaxSize:    cfg.LogRotationSizeMB,
		MaxAge:     cfg.LogRetentionDays,
		MaxBackups: 5,
		Compress:   false,
	}

	// File gets everything down to debug regardless of console level.
	file := log.NewTextHandler(rotated, &log.HandlerOptions{Level: log.LevelDebug})

	log.SetDefault(log.New(fanout{console, file}))
	return nil
}

// fanout dispatches each record to every child handler.
type fanout []log.Handler

func (f fanout) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r log.Record) error {
	var firstErr error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []log.Attr) log.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) log.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
