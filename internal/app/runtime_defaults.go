package app

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charlesng35/eventboard/internal/services"
)

const jwtSecretBytes = 48

// RuntimeDefaults reports what ApplyRuntimeDefaults changed. Values are never included.
type RuntimeDefaults struct {
	// Generated lists keys whose secrets were created for this process only.
	Generated []string
	// Adjusted lists keys reset to their built-in value because the configured one was unusable.
	Adjusted []string
}

// ApplyRuntimeDefaults fills the settings a bare environment leaves unusable: a missing JWT
// secret and non-positive notification tuning values.
func ApplyRuntimeDefaults(cfg *Config) (RuntimeDefaults, error) {
	var report RuntimeDefaults
	if cfg == nil {
		return report, errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := randomHex(jwtSecretBytes)
		if err != nil {
			return report, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		report.Generated = append(report.Generated, "auth.jwt.secret")
	}

	n := &cfg.Notifications
	if n.FanoutBatchSize <= 0 {
		n.FanoutBatchSize = services.DefaultFanoutBatchSize
		report.Adjusted = append(report.Adjusted, "notifications.fanout_batch_size")
	}
	if n.CleanupTimeout <= 0 {
		n.CleanupTimeout = services.DefaultCleanupTimeout
		report.Adjusted = append(report.Adjusted, "notifications.cleanup_timeout")
	}

	sort.Strings(report.Adjusted)
	return report, nil
}

func randomHex(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
