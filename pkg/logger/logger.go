package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry built by Init.
const ServiceName = "eventboard"

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Init builds the process logger for level and installs it globally. "development" selects the
// console encoder at debug level; any unparsable level runs at info.
func Init(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))

	cfg := zap.NewProductionConfig()
	if level == "development" {
		cfg = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel.String()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.InitialFields = map[string]interface{}{"service": ServiceName}

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	Replace(built)
	return nil
}

// Replace installs l as the global logger and returns a func that reinstates the one it replaced.
// A nil logger discards everything.
func Replace(l *zap.Logger) func() {
	if l == nil {
		l = zap.NewNop()
	}
	previous := current.Swap(l)
	return func() { current.Store(previous) }
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return current.Load()
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns the global logger tagged with a "module" field.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
