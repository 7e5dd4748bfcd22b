// Package log 定义 zkgeo 各组件共用的日志接口
//
// 组件只依赖本接口，具体实现（zap + lumberjack）由
// internal/core/infrastructure/log 通过 fx 注入。
package log

import "go.uber.org/zap"

// Level 日志级别
type Level string

// 支持的日志级别
const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

// Logger 日志记录器接口
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})

	Info(msg string)
	Infof(format string, args ...interface{})

	Warn(msg string)
	Warnf(format string, args ...interface{})

	Error(msg string)
	Errorf(format string, args ...interface{})

	// Fatal 记录日志后退出进程，仅供 cmd 层使用
	Fatal(msg string)
	Fatalf(format string, args ...interface{})

	// With 返回附带键值对字段的子记录器
	With(args ...interface{}) Logger

	// Sync 刷新缓冲区
	Sync() error

	// GetZapLogger 获取底层 zap 记录器
	GetZapLogger() *zap.Logger
}
