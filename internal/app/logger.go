package app

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/charlesng35/eventboard/pkg/logger"
)

const developmentLogLevel = "development"

// ConfigureLogging initialises the global logger from server.log_level. Unknown levels fall back to
// info and are reported once the logger is up.
func ConfigureLogging(level string) error {
	level = strings.ToLower(strings.TrimSpace(level))

	effective, known := normaliseLogLevel(level)
	if err := logger.Init(effective); err != nil {
		return err
	}
	if !known {
		logger.WithModule("config").Warn("unknown log level; using info", zap.String("log_level", level))
	}
	return nil
}

func normaliseLogLevel(level string) (string, bool) {
	switch level {
	case "":
		return "info", true
	case developmentLogLevel:
		return level, true
	}
	if _, err := zapcore.ParseLevel(level); err != nil {
		return "info", false
	}
	return level, true
}
