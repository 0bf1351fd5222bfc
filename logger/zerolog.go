package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hakuorm/haku/utils"
)

// ZerologLogger implements Interface using zerolog
type ZerologLogger struct {
	Config
	Logger zerolog.Logger
}

// NewZerologLogger creates a new logger using zerolog
func NewZerologLogger(logger zerolog.Logger, config Config) Interface {
	return &ZerologLogger{Config: config, Logger: logger}
}

// NewZerologLoggerWithConfig creates a zerolog logger writing to a console writer on stdout
func NewZerologLoggerWithConfig(config Config) Interface {
	consoleWriter := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stdout
		w.TimeFormat = time.RFC3339
	})
	logger := zerolog.New(consoleWriter).
		Level(ZerologLevel(config.LogLevel)).
		With().
		Timestamp().
		Logger()
	return NewZerologLogger(logger, config)
}

// LogMode sets the log level
func (l *ZerologLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	newLogger.Logger = l.Logger.Level(ZerologLevel(level))
	return &newLogger
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Info {
		l.log(ctx, l.Logger.Info(), msg, data)
	}
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Warn {
		l.log(ctx, l.Logger.Warn(), msg, data)
	}
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Error {
		l.log(ctx, l.Logger.Error(), msg, data)
	}
}

func (l *ZerologLogger) log(ctx context.Context, event *zerolog.Event, msg string, data []any) {
	event = event.Str("file", utils.FileWithLineNum())
	if len(data) > 0 {
		event = event.Interface("data", data)
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Msg(msg)
}

// Trace logs statement execution details
func (l *ZerologLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	level, ok := l.trace(elapsed, err)
	if !ok {
		return
	}

	var event *zerolog.Event
	switch level {
	case Error:
		event = l.Logger.Error().Err(err)
	case Warn:
		event = l.Logger.Warn().Str("slow_threshold", l.SlowThreshold.String())
	default:
		event = l.Logger.Info()
	}

	sql, rows := fc()
	event = event.
		Str("file", utils.FileWithLineNum()).
		Str("duration", duration(elapsed)).
		Str("sql", sql)
	if rows != -1 {
		event = event.Int64("rows", rows)
	}
	if ctx != nil {
		event = event.Ctx(ctx)
	}
	event.Msg("SQL executed")
}

// ZerologLevel converts LogLevel to zerolog.Level
func ZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Silent:
		return zerolog.Disabled
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
