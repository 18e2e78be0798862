// Package logger is a small structured logging wrapper around log/slog.
// It supports JSON and text output, the debug/info/warn/error levels, and
// stdout, stderr or a file path as destination.
//
//	log, err := logger.New(logger.Config{Level: "info", Format: "text", Output: "stderr"})
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//	log.InfoCtx(ctx, "job registered", logger.Field{Key: "job_id", Value: id})
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Config selects level, format and destination.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, or a file path
}

// Logger wraps a slog.Logger.
type Logger struct {
	slog *slog.Logger
	file *os.File
}

// Field is a single structured logging attribute.
type Field struct {
	Key   string
	Value any
}

// New builds a logger from cfg. Empty fields default to info, text and stderr.
func New(cfg Config) (*Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}

	level, valid := parseLevel(cfg.Level)
	if !valid {
		return nil, errors.Errorf("invalid log level: %s (expected: debug, info, warn, error)", cfg.Level)
	}

	writer, file, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		if file != nil {
			_ = file.Close()
		}
		return nil, errors.Errorf("invalid log format: %s (expected: json, text)", cfg.Format)
	}

	return &Logger{slog: slog.New(handler), file: file}, nil
}

// openOutput returns the writer for output, and the file behind it when
// output is a path.
func openOutput(output string) (io.Writer, *os.File, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}

	path := output
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, path[2:])
	}
	path = filepath.Clean(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create log directory %s", dir)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open log file %s", path)
	}
	return file, file, nil
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// FromSlog wraps an existing slog.Logger. A nil logger discards everything.
func FromSlog(l *slog.Logger) *Logger {
	if l == nil {
		return Discard()
	}
	return &Logger{slog: l}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// DebugCtx logs msg at debug level, passing ctx to the handler.
func (l *Logger) DebugCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.DebugContext(ctx, msg, fieldsToAny(fields)...)
}

// InfoCtx logs msg at info level, passing ctx to the handler.
func (l *Logger) InfoCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.InfoContext(ctx, msg, fieldsToAny(fields)...)
}

// ErrorCtx logs msg at error level with err, passing ctx to the handler.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, err error, fields ...Field) {
	var text string
	if err != nil {
		text = err.Error()
	}
	all := append([]Field{{Key: "error", Value: text}}, fields...)
	l.slog.ErrorContext(ctx, msg, fieldsToAny(all)...)
}

func fieldsToAny(fields []Field) []any {
	result := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		result = append(result, f.Key, f.Value)
	}
	return result
}

// With returns a logger that adds fields to every record.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{slog: l.slog.With(fieldsToAny(fields)...), file: l.file}
}

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close closes the log file, if the logger writes to one. Loggers derived
// with With share the file; closing it again is a no-op.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return errors.Wrap(err, "failed to close log file")
	}
	return nil
}
