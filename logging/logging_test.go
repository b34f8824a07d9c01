package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gamestore/store-admin/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger, err := Init(config.LoggerConfig{Mode: "production", File: file})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	zap.L().Info("hello", zap.String("component", "test"))
	_ = logger.Sync()

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
	assert.Contains(t, string(raw), `"component":"test"`)
}

func TestInitDevelopmentLevel(t *testing.T) {
	logger, err := Init(config.LoggerConfig{Mode: "development"})
	require.NoError(t, err)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	assert.Same(t, logger, zap.L())
}
