package main

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/eventboard/pkg/logger"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "/etc/eventboard", "-port", "9090", "-migrate-only"})
	require.NoError(t, err)
	require.Equal(t, options{configPath: "/etc/eventboard", port: 9090, migrateOnly: true}, opts)

	opts, err = parseFlags(nil)
	require.NoError(t, err)
	require.Zero(t, opts)

	_, err = parseFlags([]string{"-port", "70000"})
	require.Error(t, err)

	_, err = parseFlags([]string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestRunMigrateOnly(t *testing.T) {
	t.Cleanup(logger.Replace(zap.NewNop()))

	dbPath := filepath.Join(t.TempDir(), "data", "eventboard.sqlite")
	t.Setenv("EVENTBOARD_DATABASE_DRIVER", "sqlite")
	t.Setenv("EVENTBOARD_DATABASE_PATH", dbPath)
	t.Setenv("EVENTBOARD_SERVER_LOG_LEVEL", "error")

	require.NoError(t, run(context.Background(), []string{"-config", t.TempDir(), "-migrate-only"}))

	require.FileExists(t, dbPath)
}
