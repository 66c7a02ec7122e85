package log

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/survivalml/pkg/errors"
)

// ZerologLogger is the production Logger backed by zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w at the given level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Logger()
	return &ZerologLogger{zl: zl}
}

// NewConsoleLogger creates a human-readable logger for terminals.
func NewConsoleLogger(w io.Writer, level Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return NewZerologLogger(cw, level)
}

func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(pairs(fields)).Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(pairs(fields)).Msg(msg)
}

func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(pairs(fields)).Msg(msg)
}

// Error attaches a leading error value together with its stack trace.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.AnErr(ErrAttrKey, err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	ev.Fields(pairs(fields)).Msg(msg)
}

func (l *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(pairs(fields)).Logger()}
}

func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

// pairs drops a trailing key without a value and stringifies error values.
func pairs(fields []any) []interface{} {
	n := len(fields) - len(fields)%2
	out := make([]interface{}, 0, n)
	for i := 0; i < n; i += 2 {
		v := fields[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out = append(out, fields[i], v)
	}
	return out
}

// extractStacktrace returns the stack recorded by cockroachdb/errors, if any.
func extractStacktrace(err error) string {
	details := errors.GetSafeDetails(err)
	if len(details) > 0 {
		return details[0]
	}
	return ""
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log.level", "must be one of debug, info, warn, error", s)
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelInfo)
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Setup installs a console zerolog logger at the named level and routes
// errors.Warn through it.
func Setup(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	logger := NewConsoleLogger(w, lvl)
	SetLogger(logger)
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.zl.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	})
	return nil
}
