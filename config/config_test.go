package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:6066/mediflow/api", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, SessionStoreFile, cfg.SessionStore)
	assert.True(t, filepath.IsAbs(cfg.SessionFile))
	assert.Equal(t, ":6066", cfg.MockAddr)
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateMock())
}

func TestLoadEnvFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "MEDIFLOW_API_BASE_URL=http://clinic.local:8080/api/\nMEDIFLOW_REQUEST_TIMEOUT=5s\nMEDIFLOW_SESSION_STORE=memory\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MEDIFLOW_SESSION_STORE", "redis")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://clinic.local:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			APIBaseURL:     "http://localhost:6066/mediflow/api",
			RequestTimeout: time.Second,
			SessionStore:   SessionStoreMemory,
		}
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "bad url", mutate: func(c *Config) { c.APIBaseURL = "localhost" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.SessionStore = "cookie" }, wantErr: true},
		{name: "file without path", mutate: func(c *Config) { c.SessionStore = SessionStoreFile }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.SessionStore = SessionStoreRedis }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
