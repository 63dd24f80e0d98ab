package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icco/genstaff/internal/client"
	"github.com/icco/genstaff/internal/song"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genstaff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, song.DefaultBPM, cfg.BPM)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDelay)
	assert.NotEmpty(t, cfg.StoreDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
storeDir: /tmp/songs
bpm: 90
autosaveDelay: 500ms
allowOrigins: [http://localhost:3000]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/songs", cfg.StoreDir)
	assert.Equal(t, 90, cfg.BPM)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDelay)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)
	assert.Equal(t, "localhost:8000", cfg.Listen, "unset keys keep their defaults")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = Load(writeConfig(t, "bpm: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "bpm: 500"))
	assert.ErrorContains(t, err, "out of range")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GENSTAFF_BPM", "60")
	t.Setenv("GENSTAFF_SERVER_URL", "http://example.test")
	t.Setenv("GENSTAFF_VERBOSE", "true")
	t.Setenv("GENSTAFF_ALLOW_ORIGINS", "a,b")

	cfg, err := Load(writeConfig(t, "bpm: 90\n"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.BPM, "environment wins over the file")
	assert.Equal(t, "http://example.test", cfg.ServerURL)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, []string{"a", "b"}, cfg.AllowOrigins)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := map[string]string{
		"GENSTAFF_BPM":            "fast",
		"GENSTAFF_AUTOSAVE_DELAY": "soon",
		"GENSTAFF_VERBOSE":        "maybe",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(k string) (string, bool) {
				if k == key {
					return val, true
				}
				return "", false
			})
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.AutosaveDelay = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StoreDir = ""
	assert.Error(t, cfg.Validate())
	cfg.DynamoTable = "songs"
	assert.NoError(t, cfg.Validate())
}

func TestStore(t *testing.T) {
	cfg := Default()
	cfg.StoreDir = t.TempDir()
	st, err := cfg.Store()
	require.NoError(t, err)
	assert.IsType(t, &song.FileStore{}, st)

	cfg.ServerURL = "http://localhost:1"
	st, err = cfg.Store()
	require.NoError(t, err)
	assert.IsType(t, &client.Client{}, st)

	cfg.ServerURL = ""
	cfg.DynamoTable = "songs"
	cfg.DynamoURL = "http://localhost:8001"
	st, err = cfg.Store()
	require.NoError(t, err)
	assert.IsType(t, &song.DynamoStore{}, st)
}
