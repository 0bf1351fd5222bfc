package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hakuorm/haku/utils"
)

// LogrusLogger implements Interface using logrus
type LogrusLogger struct {
	Config
	Logger *logrus.Logger
}

// NewLogrusLogger creates a new logger using logrus
func NewLogrusLogger(logger *logrus.Logger, config Config) Interface {
	return &LogrusLogger{Config: config, Logger: logger}
}

// LogMode sets the log level
func (l *LogrusLogger) LogMode(level LogLevel) Interface {
	newLogger := *l
	newLogger.LogLevel = level
	return &newLogger
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Info {
		l.entry(ctx, data).Info(msg)
	}
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Warn {
		l.entry(ctx, data).Warn(msg)
	}
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.LogLevel >= Error {
		l.entry(ctx, data).Error(msg)
	}
}

func (l *LogrusLogger) entry(ctx context.Context, data []any) *logrus.Entry {
	fields := logrus.Fields{"file": utils.FileWithLineNum()}
	if len(data) > 0 {
		fields["data"] = data
	}
	entry := l.Logger.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	return entry
}

// Trace logs statement execution details
func (l *LogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	level, ok := l.trace(elapsed, err)
	if !ok {
		return
	}

	sql, rows := fc()
	fields := logrus.Fields{
		"file":     utils.FileWithLineNum(),
		"duration": duration(elapsed),
		"sql":      sql,
	}
	if rows != -1 {
		fields["rows"] = rows
	}

	entry := l.Logger.WithFields(fields)
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}

	switch level {
	case Error:
		entry.WithError(err).Error("SQL executed")
	case Warn:
		entry.WithField("slow_threshold", l.SlowThreshold.String()).Warn("SLOW SQL executed")
	default:
		entry.Info("SQL executed")
	}
}
