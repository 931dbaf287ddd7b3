package logger

import (
	"github.com/poolworks/pool-ledger/internal/domain/port/core"
)

// NoopLogger discards everything. Used in tests where log output is noise.
type NoopLogger struct {
	level core.LogLevel
}

// NewNoopLogger creates a logger that does nothing
func NewNoopLogger() core.Logger {
	return &NoopLogger{level: core.LogLevelInfo}
}

func (l *NoopLogger) SetLevel(level core.LogLevel)                { l.level = level }
func (l *NoopLogger) GetLevel() core.LogLevel                     { return l.level }
func (l *NoopLogger) Debug(message string, fields map[string]any) {}
func (l *NoopLogger) Info(message string, fields map[string]any)  {}
func (l *NoopLogger) Warn(message string, fields map[string]any)  {}
func (l *NoopLogger) Error(message string, fields map[string]any) {}
func (l *NoopLogger) Flush() error                                { return nil }
