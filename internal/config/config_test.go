package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Book.BaseDir)
	assert.Equal(t, "shared", cfg.Book.SharedDir)
	assert.Equal(t, 5*time.Minute, cfg.BakeTimeout())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	body := `
book:
  base_dir: /books/osca
  shared_dir: deps
bake:
  timeout: 30s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/books/osca", cfg.Book.BaseDir)
	assert.Equal(t, "deps", cfg.Book.SharedDir)
	assert.Equal(t, 30*time.Second, cfg.BakeTimeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ".", cfg.Book.BaseDir)
}

func TestLoadEnvOverridesBaseDir(t *testing.T) {
	t.Setenv(EnvBaseDir, "/elsewhere")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", cfg.Book.BaseDir)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad level", "logging:\n  level: loud\n"},
		{"bad timeout", "bake:\n  timeout: soon\n"},
		{"empty base dir", "book:\n  base_dir: \"\"\n  shared_dir: shared\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
