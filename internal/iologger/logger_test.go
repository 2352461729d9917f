package iologger_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/bdeseries/internal/iologger"
	"github.com/gnames/bdeseries/pkg/config"
	"github.com/gnames/bdeseries/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "warn", Destination: "file"}

	closer, err := iologger.Init(dir, cfg, false)
	require.NoError(t, err)
	slog.Info("hidden")
	slog.Warn("unparsable dates", "file", "be0101.csv")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(filepath.Join(dir, "bdeseries.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"file":"be0101.csv"`)
	assert.NotContains(t, string(content), "hidden")

	t.Run("append keeps previous lines", func(t *testing.T) {
		closer, err := iologger.Init(dir, cfg, true)
		require.NoError(t, err)
		slog.Error("second")
		require.NoError(t, closer.Close())

		content, err := os.ReadFile(iologger.LogFile(dir))
		require.NoError(t, err)
		assert.Contains(t, string(content), "be0101.csv")
		assert.Contains(t, string(content), "second")
	})

	t.Run("fresh file truncates", func(t *testing.T) {
		closer, err := iologger.Init(dir, cfg, false)
		require.NoError(t, err)
		require.NoError(t, closer.Close())

		content, err := os.ReadFile(iologger.LogFile(dir))
		require.NoError(t, err)
		assert.Empty(t, content)
	})
}

func TestInitMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Format: "text", Level: "info", Destination: "file"}

	_, err := iologger.Init(dir, cfg, false)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}

func TestInitStderr(t *testing.T) {
	cfg := config.LogConfig{Format: "text", Level: "debug", Destination: "stderr"}
	closer, err := iologger.Init(t.TempDir(), cfg, false)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
