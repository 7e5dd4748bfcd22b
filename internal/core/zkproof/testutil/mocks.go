// Package testutil 提供 zkproof 模块测试的辅助工具
//
// 本包提供测试所需的 Mock 对象和随机源，用于简化测试代码编写。
// 不依赖任何 zkproof 子包，避免循环依赖。
package testutil

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/weisyn/zkgeo/pkg/interfaces/infrastructure/log"
)

// ==================== Mock 日志 ====================

// MockLogger 最小日志实现，不记录任何内容
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// RecordingLogger 记录每条格式化后的日志，用于验证日志行为
type RecordingLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *RecordingLogger) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, level+": "+msg)
}

func (m *RecordingLogger) Debug(msg string) { m.record("DEBUG", msg) }
func (m *RecordingLogger) Debugf(format string, args ...interface{}) {
	m.record("DEBUG", fmt.Sprintf(format, args...))
}
func (m *RecordingLogger) Info(msg string) { m.record("INFO", msg) }
func (m *RecordingLogger) Infof(format string, args ...interface{}) {
	m.record("INFO", fmt.Sprintf(format, args...))
}
func (m *RecordingLogger) Warn(msg string) { m.record("WARN", msg) }
func (m *RecordingLogger) Warnf(format string, args ...interface{}) {
	m.record("WARN", fmt.Sprintf(format, args...))
}
func (m *RecordingLogger) Error(msg string) { m.record("ERROR", msg) }
func (m *RecordingLogger) Errorf(format string, args ...interface{}) {
	m.record("ERROR", fmt.Sprintf(format, args...))
}
func (m *RecordingLogger) Fatal(msg string) { m.record("FATAL", msg) }
func (m *RecordingLogger) Fatalf(format string, args ...interface{}) {
	m.record("FATAL", fmt.Sprintf(format, args...))
}
func (m *RecordingLogger) With(args ...interface{}) log.Logger { return m }
func (m *RecordingLogger) Sync() error                         { return nil }
func (m *RecordingLogger) GetZapLogger() *zap.Logger           { return zap.NewNop() }

// Logs 返回所有日志记录的副本
func (m *RecordingLogger) Logs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.logs...)
}

// Contains 是否存在包含 substr 的日志
func (m *RecordingLogger) Contains(substr string) bool {
	for _, l := range m.Logs() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// NewTestLogger 创建测试用的Logger
func NewTestLogger() log.Logger {
	return &MockLogger{}
}

// NewRecordingLogger 创建记录型Logger
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// ==================== 随机源 ====================

// ErrEntropyExhausted FailingSource 返回的错误
var ErrEntropyExhausted = errors.New("entropy source exhausted")

// SequenceSource 按顺序返回预设值的随机源，用尽后从头循环
type SequenceSource struct {
	mu     sync.Mutex
	values []uint64
	next   int
}

// NewSequenceSource 创建确定性随机源
func NewSequenceSource(values ...uint64) *SequenceSource {
	return &SequenceSource{values: values}
}

// Intn 返回下一个预设值对 max 取模的结果
func (s *SequenceSource) Intn(max uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 || max == 0 {
		return 0, nil
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % max, nil
}

// FailingSource 总是失败的随机源
type FailingSource struct{}

// Intn 总是返回 ErrEntropyExhausted
func (FailingSource) Intn(uint64) (uint64, error) {
	return 0, ErrEntropyExhausted
}
