package mdt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfigOverlaysDefaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
endpoint: http://127.0.0.1:3000/
settle_delay: 500ms
session:
  name: John Doe
  callsign: 1A-12
pages:
  - id: bolos
    domain: bolos
    title: BOLOs
`))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:3000", cfg.HostEndpoint())
	assert.Equal(t, 500*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, DefaultNotificationTTL, cfg.NotificationTTL)
	assert.Equal(t, ":8080", cfg.Listen)
	require.NotNil(t, cfg.Session)
	assert.Equal(t, "1A-12", cfg.Session.Callsign)
	require.Len(t, cfg.Pages, 1)

	opts := cfg.Apply(Options{})
	assert.Equal(t, 500*time.Millisecond, opts.SettleDelay)
	assert.Equal(t, "John Doe", opts.Session.Name)
	assert.Len(t, opts.Pages, 1)
}

func TestDecodeConfigEmptyUsesDefaults(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "https://qb-mdt", cfg.HostEndpoint())
}

func TestDecodeConfigRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("endpoitn: http://x\n"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResourceName = ""
	cfg.SettleDelay = -time.Second
	cfg.Pages = []PageDefinition{{Domain: "x"}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint or resource_name")
	assert.Contains(t, err.Error(), "negative")
	assert.Contains(t, err.Error(), "pages[0]")
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resource_name: police-mdt\nlog_env: production\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://police-mdt", cfg.HostEndpoint())
	assert.Equal(t, "production", cfg.LogEnv)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
