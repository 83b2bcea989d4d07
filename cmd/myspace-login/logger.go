package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// slogLogger satisfies glog.Logger on top of log/slog for the demo binary.
type slogLogger struct {
	base *slog.Logger
	ctx  context.Context
}

func newLogger(w io.Writer, level string) glog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return &slogLogger{base: slog.New(handler), ctx: context.Background()}
}

func (l *slogLogger) Trace(msg string, args ...any) { l.base.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Debug(msg string, args ...any) { l.base.DebugContext(l.ctx, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.base.InfoContext(l.ctx, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.base.WarnContext(l.ctx, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.base.ErrorContext(l.ctx, msg, args...) }
func (l *slogLogger) Fatal(msg string, args ...any) { l.base.ErrorContext(l.ctx, msg, args...) }

func (l *slogLogger) WithContext(ctx context.Context) glog.Logger {
	if ctx == nil {
		ctx = context.Background()
	}
	return &slogLogger{base: l.base, ctx: ctx}
}
