package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/regenrek/metarbar/internal/appdirs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitOptions identifies the process in every log line.
type InitOptions struct {
	App     string
	Version string
	Mode    Mode
}

// Init installs the process-wide slog default: cfg layered over the
// mode's built-in defaults, then METARBAR_LOG_* overrides. The returned
// func closes the sink; callers defer it.
func Init(ctx context.Context, cfg Config, opts InitOptions) (func() error, error) {
	if opts.App == "" {
		opts.App = "metarbar"
	}
	if opts.Mode == 0 {
		opts.Mode = ModeCLI
	}

	merged, err := overlay(DefaultConfig(opts.Mode), cfg).WithEnv().Normalize()
	if err != nil {
		return nil, err
	}

	logger, closeFn, err := newLogger(merged, opts)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	setIncludePayloads(derefBool(merged.IncludePayloads, false))
	return closeFn, nil
}

// overlay returns base with every field that override sets replacing it.
func overlay(base, override Config) Config {
	return Config{
		Level:           coalesce(override.Level, base.Level),
		Format:          coalesce(override.Format, base.Format),
		Sink:            coalesce(override.Sink, base.Sink),
		File:            coalesce(override.File, base.File),
		AddSource:       coalesce(override.AddSource, base.AddSource),
		IncludePayloads: coalesce(override.IncludePayloads, base.IncludePayloads),
		MaxSizeMB:       coalesce(override.MaxSizeMB, base.MaxSizeMB),
		MaxBackups:      coalesce(override.MaxBackups, base.MaxBackups),
		MaxAgeDays:      coalesce(override.MaxAgeDays, base.MaxAgeDays),
		Compress:        coalesce(override.Compress, base.Compress),
	}
}

func coalesce[T any](first, second *T) *T {
	if first != nil {
		return first
	}
	return second
}

func newLogger(cfg Config, opts InitOptions) (*slog.Logger, func() error, error) {
	writer, closeFn, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     slogLevel(derefString(cfg.Level, "info")),
		AddSource: derefBool(cfg.AddSource, false),
	}
	var handler slog.Handler
	if Format(derefString(cfg.Format, string(FormatText))) == FormatJSON {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	logger := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("mode", opts.Mode.String()),
	)
	return logger, closeFn, nil
}

func slogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func openSink(cfg Config) (io.Writer, func() error, error) {
	switch Sink(derefString(cfg.Sink, string(SinkStderr))) {
	case SinkNone:
		return io.Discard, noClose, nil
	case SinkStderr:
		return os.Stderr, noClose, nil
	case SinkFile:
		return openLogFile(cfg)
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", derefString(cfg.Sink, ""))
	}
}

// openLogFile wires lumberjack rotation onto the panel log. An explicit
// path from config or env skips the permission tightening the default
// runtime directory gets.
func openLogFile(cfg Config) (io.Writer, func() error, error) {
	path := strings.TrimSpace(derefString(cfg.File, ""))
	isOverride := path != ""
	if !isOverride {
		dir, err := appdirs.RuntimeDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "panel.log")
	}
	if err := ensureLogDir(filepath.Dir(path), isOverride); err != nil {
		return nil, nil, err
	}

	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    derefInt(cfg.MaxSizeMB, 20),
		MaxBackups: derefInt(cfg.MaxBackups, 5),
		MaxAge:     derefInt(cfg.MaxAgeDays, 7),
		Compress:   derefBool(cfg.Compress, true),
	}
	return rot, rot.Close, nil
}

func noClose() error { return nil }

func derefString(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func derefBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
