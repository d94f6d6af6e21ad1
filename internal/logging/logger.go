package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type componentLogger struct {
	out       *log.Logger
	component string
	level     Level
	mu        *sync.Mutex
}

var (
	defaultOut  = log.New(os.Stderr, "", 0)
	defaultMu   sync.Mutex
	levelOnce   sync.Once
	staticLevel Level
)

// defaultLevel reads LOFT_LOG_LEVEL once; unknown values fall back to info.
func defaultLevel() Level {
	levelOnce.Do(func() {
		switch strings.ToLower(os.Getenv("LOFT_LOG_LEVEL")) {
		case "debug":
			staticLevel = LevelDebug
		case "warn":
			staticLevel = LevelWarn
		case "error":
			staticLevel = LevelError
		default:
			staticLevel = LevelInfo
		}
	})
	return staticLevel
}

// NewComponentLogger returns the default application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	return &componentLogger{
		out:       defaultOut,
		component: component,
		level:     defaultLevel(),
		mu:        &defaultMu,
	}
}

func (l *componentLogger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] [%s] %s", level, l.component, msg)
}

func (l *componentLogger) Debug(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *componentLogger) Info(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *componentLogger) Warn(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *componentLogger) Error(format string, args ...any) { l.logf(LevelError, format, args...) }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

type multiLogger struct {
	loggers []Logger
}

// Multi returns a logger fan-out that calls every non-nil logger in order.
func Multi(loggers ...Logger) Logger {
	flattened := make([]Logger, 0, len(loggers))
	for _, logger := range loggers {
		if logger == nil {
			continue
		}
		if ml, ok := logger.(*multiLogger); ok {
			flattened = append(flattened, ml.loggers...)
			continue
		}
		flattened = append(flattened, logger)
	}
	switch len(flattened) {
	case 0:
		return Nop()
	case 1:
		return flattened[0]
	}
	return &multiLogger{loggers: flattened}
}

func (m *multiLogger) Debug(format string, args ...any) {
	for _, l := range m.loggers {
		l.Debug(format, args...)
	}
}

func (m *multiLogger) Info(format string, args ...any) {
	for _, l := range m.loggers {
		l.Info(format, args...)
	}
}

func (m *multiLogger) Warn(format string, args ...any) {
	for _, l := range m.loggers {
		l.Warn(format, args...)
	}
}

func (m *multiLogger) Error(format string, args ...any) {
	for _, l := range m.loggers {
		l.Error(format, args...)
	}
}
