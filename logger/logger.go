package logger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRecordNotFound record not found error
var ErrRecordNotFound = errors.New("record not found")

// LogLevel log level
type LogLevel int

const (
	// Silent silent log level
	Silent LogLevel = iota + 1
	// Error error log level
	Error
	// Warn warn log level
	Warn
	// Info info log level
	Info
)

func (level LogLevel) String() string {
	switch level {
	case Silent:
		return "silent"
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	}
	return fmt.Sprintf("LogLevel(%d)", int(level))
}

// ParseLevel parse a level name, unknown names fall back to Warn
func ParseLevel(name string) LogLevel {
	switch name {
	case "silent":
		return Silent
	case "error":
		return Error
	case "info":
		return Info
	}
	return Warn
}

// Config logger config
type Config struct {
	LogLevel                  LogLevel
	SlowThreshold             time.Duration
	ParameterizedQueries      bool
	IgnoreRecordNotFoundError bool
}

// Interface logger interface
type Interface interface {
	LogMode(LogLevel) Interface
	Info(context.Context, string, ...any)
	Warn(context.Context, string, ...any)
	Error(context.Context, string, ...any)
	Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error)
}

// ParamsFilter filter params before they are logged
type ParamsFilter interface {
	ParamsFilter(ctx context.Context, sql string, params map[string]any) (string, map[string]any)
}

var (
	// Default default logger
	Default = NewZerologLoggerWithConfig(Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      Warn,
	})
	// Discard logger that prints nothing
	Discard Interface = discard{}
)

// trace classify a finished statement, ok is false when nothing should be logged
func (c Config) trace(elapsed time.Duration, err error) (level LogLevel, ok bool) {
	switch {
	case c.LogLevel <= Silent:
		return Silent, false
	case err != nil && (!c.IgnoreRecordNotFoundError || !errors.Is(err, ErrRecordNotFound)):
		return Error, true
	case c.SlowThreshold != 0 && elapsed > c.SlowThreshold && c.LogLevel >= Warn:
		return Warn, true
	case c.LogLevel >= Info:
		return Info, true
	}
	return Silent, false
}

// ParamsFilter drop params when queries are logged parameterized
func (c Config) ParamsFilter(ctx context.Context, sql string, params map[string]any) (string, map[string]any) {
	if c.ParameterizedQueries {
		return sql, nil
	}
	return sql, params
}

func duration(elapsed time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(elapsed.Nanoseconds())/1e6)
}

type discard struct{}

func (d discard) LogMode(LogLevel) Interface { return d }

func (discard) Info(context.Context, string, ...any) {}

func (discard) Warn(context.Context, string, ...any) {}

func (discard) Error(context.Context, string, ...any) {}

func (discard) Trace(context.Context, time.Time, func() (string, int64), error) {}
