// Package observability provides logging, metrics and tracing for nudll.
package observability

import (
	"context"
	"io"
	"os"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is a structured, message-template logger.
//
// Templates use named holes, e.g. "Resolved {PackageId} {Version}".
type Logger interface {
	Verbose(messageTemplate string, args ...any)
	VerboseContext(ctx context.Context, messageTemplate string, args ...any)

	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)

	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)

	Warn(messageTemplate string, args ...any)
	WarnContext(ctx context.Context, messageTemplate string, args ...any)

	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)

	// ForContext returns a child logger that attaches key=value to every event.
	ForContext(key string, value any) Logger
}

// LogLevel is the minimum level a logger emits.
type LogLevel int

const (
	// VerboseLevel is the most detailed logging level.
	VerboseLevel LogLevel = iota
	// DebugLevel is for debug messages.
	DebugLevel
	// InfoLevel is for informational messages.
	InfoLevel
	// WarnLevel is for warning messages.
	WarnLevel
	// ErrorLevel is for error messages.
	ErrorLevel
)

type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a console logger that writes events at or above level to output.
func NewLogger(output io.Writer, level LogLevel) Logger {
	opts := []mtlog.Option{
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
		mtlog.WithTimestamp(),
		mtlog.WithProcess(),
	}

	switch level {
	case VerboseLevel:
		opts = append(opts, mtlog.Verbose())
	case DebugLevel:
		opts = append(opts, mtlog.Debug())
	case InfoLevel:
		opts = append(opts, mtlog.Information())
	case WarnLevel:
		opts = append(opts, mtlog.Warning())
	default:
		opts = append(opts, mtlog.Error())
	}

	return &mtlogAdapter{logger: mtlog.New(opts...)}
}

// NewDefaultLogger logs Warn and above to stderr.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, WarnLevel)
}

func (a *mtlogAdapter) Verbose(tmpl string, args ...any) { a.logger.Verbose(tmpl, args...) }
func (a *mtlogAdapter) VerboseContext(ctx context.Context, tmpl string, args ...any) {
	a.logger.VerboseContext(ctx, tmpl, args...)
}

func (a *mtlogAdapter) Debug(tmpl string, args ...any) { a.logger.Debug(tmpl, args...) }
func (a *mtlogAdapter) DebugContext(ctx context.Context, tmpl string, args ...any) {
	a.logger.DebugContext(ctx, tmpl, args...)
}

func (a *mtlogAdapter) Info(tmpl string, args ...any) { a.logger.Info(tmpl, args...) }
func (a *mtlogAdapter) InfoContext(ctx context.Context, tmpl string, args ...any) {
	a.logger.InfoContext(ctx, tmpl, args...)
}

func (a *mtlogAdapter) Warn(tmpl string, args ...any) { a.logger.Warn(tmpl, args...) }
func (a *mtlogAdapter) WarnContext(ctx context.Context, tmpl string, args ...any) {
	a.logger.WarnContext(ctx, tmpl, args...)
}

func (a *mtlogAdapter) Error(tmpl string, args ...any) { a.logger.Error(tmpl, args...) }
func (a *mtlogAdapter) ErrorContext(ctx context.Context, tmpl string, args ...any) {
	a.logger.ErrorContext(ctx, tmpl, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

type nullLogger struct{}

// NewNullLogger returns a logger that discards everything.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Verbose(string, ...any)                         {}
func (nullLogger) VerboseContext(context.Context, string, ...any) {}
func (nullLogger) Debug(string, ...any)                           {}
func (nullLogger) DebugContext(context.Context, string, ...any)   {}
func (nullLogger) Info(string, ...any)                            {}
func (nullLogger) InfoContext(context.Context, string, ...any)    {}
func (nullLogger) Warn(string, ...any)                            {}
func (nullLogger) WarnContext(context.Context, string, ...any)    {}
func (nullLogger) Error(string, ...any)                           {}
func (nullLogger) ErrorContext(context.Context, string, ...any)   {}
func (n nullLogger) ForContext(string, any) Logger                { return n }
