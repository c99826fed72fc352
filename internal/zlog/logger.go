package zlog

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is a leveled, structured logger backed by zerolog.Logger. The
// zero value is not usable; construct with New.
type Logger struct {
	mu       sync.RWMutex
	zl       zerolog.Logger
	disabled bool
}

// Config configures a new Logger.
type Config struct {
	// Level is the minimum level that is emitted.
	Level Level
	// Output is where log lines are written. Defaults to os.Stderr.
	Output io.Writer
	// Component, if set, is attached to every line as a "component" field.
	Component string
}

// DefaultConfig returns Info-level logging to stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr}
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zl := zerolog.New(cfg.Output).With().Timestamp().Logger().Level(cfg.Level.zerolog())
	if cfg.Component != "" {
		zl = zl.With().Str("component", cfg.Component).Logger()
	}
	return &Logger{zl: zl}
}

// WithField returns a derived Logger with key=value attached to every
// subsequent line.
func (l *Logger) WithField(key string, value any) *Logger {
	l.mu.RLock()
	zl := l.zl.With().Interface(key, value).Logger()
	disabled := l.disabled
	l.mu.RUnlock()
	return &Logger{zl: zl, disabled: disabled}
}

// WithFields is WithField for a batch of fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.RLock()
	ctx := l.zl.With()
	disabled := l.disabled
	l.mu.RUnlock()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger(), disabled: disabled}
}

// WithComponent is shorthand for WithField("component", component).
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level this Logger emits.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = l.zl.Level(level.zerolog())
}

// SetOutput redirects where this Logger writes.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = l.zl.Output(w)
}

// Disable silences this Logger entirely. Loggers derived with With*
// before the call keep their own setting and are not silenced.
func (l *Logger) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = true
}

// Enable re-enables a Logger previously silenced with Disable.
func (l *Logger) Enable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = false
}

// Debug logs at debug level. msg is formatted with fmt.Sprintf if args
// are given, matching the call-site shape the rest of the codebase uses.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *Logger) log(level Level, msg string, args ...any) {
	l.mu.RLock()
	zl := l.zl
	disabled := l.disabled
	l.mu.RUnlock()

	if disabled {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var ev *zerolog.Event
	switch level {
	case LevelDebug:
		ev = zl.Debug()
	case LevelWarn:
		ev = zl.Warn()
	case LevelError:
		ev = zl.Error()
	default:
		ev = zl.Info()
	}
	ev.Msg(msg)
}

// NullLogger discards everything written to it.
var NullLogger = &Logger{disabled: true}
