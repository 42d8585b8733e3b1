package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFillsDefaultsForUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vixen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_device: gpu0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "gpu0", cfg.DefaultDevice)
	require.Equal(t, Default().WorkerCount, cfg.WorkerCount)
	require.Equal(t, Default().WorkerQueue, cfg.WorkerQueue)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/vixen.yaml")
	require.Error(t, err)
}
