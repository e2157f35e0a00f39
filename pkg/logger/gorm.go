package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger 把 gorm 的日志输出接到 zap 上
type GormLogger struct {
	LogLevel gormlogger.LogLevel
}

// NewGormLogger 创建 gorm 日志适配器，debug 级别时记录全部 SQL
func NewGormLogger(level string) *GormLogger {
	l := &GormLogger{LogLevel: gormlogger.Warn}
	if strings.ToLower(level) == "debug" {
		l.LogLevel = gormlogger.Info
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	operation, _, _ := strings.Cut(sql, " ")
	msg := "SQL " + strings.ToUpper(operation)

	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("latency", elapsed),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		Logger.Error(msg+" error", append(fields, zap.Error(err))...)
	case elapsed > slowQueryThreshold && l.LogLevel >= gormlogger.Warn:
		Logger.Warn(msg+" slow", fields...)
	case l.LogLevel >= gormlogger.Info:
		Logger.Debug(msg, fields...)
	}
}
