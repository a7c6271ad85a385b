package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
tracker:
  networks: [ethereum]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, 1.5, cfg.Tracker.PriorityTip)
	assert.Equal(t, HistoryBackendFile, cfg.Tracker.History.Backend)
	assert.Equal(t, 60*time.Second, cfg.Pricefeed.CacheTTL)
	assert.Equal(t, "ethgas", cfg.Auth.Issuer)
}

func TestLoadDefaultsNetworksToEthereum(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ethereum"}, cfg.Tracker.Networks)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: console
tracker:
  networks: [ethereum, polygon, base]
  interval: 30s
  priority_tip: 2.0
  rpc_overrides:
    ethereum: http://localhost:8545
  history:
    backend: postgres
database:
  user: ethgas
  password: secret
alerts:
  webhooks:
    - https://discord.com/api/webhooks/123/abc
  rules:
    - network: ethereum
      threshold: 12.5
auth:
  enabled: true
  secret: topsecret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ethereum", "polygon", "base"}, cfg.Tracker.Networks)
	assert.Equal(t, 30*time.Second, cfg.Tracker.Interval)
	assert.Equal(t, "http://localhost:8545", cfg.Tracker.RPCOverrides["ethereum"])
	assert.Equal(t, HistoryBackendPostgres, cfg.Tracker.History.Backend)
	require.Len(t, cfg.Alerts.Rules, 1)
	assert.Equal(t, 12.5, cfg.Alerts.Rules[0].Threshold)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown network",
			content: `
tracker:
  networks: [ethereum, dogecoin]
`,
		},
		{
			name: "unknown override network",
			content: `
tracker:
  networks: [ethereum]
  rpc_overrides:
    dogecoin: http://localhost:8545
`,
		},
		{
			name: "bad override url",
			content: `
tracker:
  networks: [ethereum]
  rpc_overrides:
    ethereum: not-a-url
`,
		},
		{
			name: "bad history backend",
			content: `
tracker:
  networks: [ethereum]
  history:
    backend: redis
`,
		},
		{
			name: "postgres backend without user",
			content: `
tracker:
  networks: [ethereum]
  history:
    backend: postgres
`,
		},
		{
			name: "alert rule for unknown network",
			content: `
tracker:
  networks: [ethereum]
alerts:
  rules:
    - network: dogecoin
      threshold: 10
`,
		},
		{
			name: "zero alert threshold",
			content: `
tracker:
  networks: [ethereum]
alerts:
  rules:
    - network: ethereum
      threshold: 0
`,
		},
		{
			name: "auth enabled without secret",
			content: `
tracker:
  networks: [ethereum]
auth:
  enabled: true
`,
		},
		{
			name: "bad log format",
			content: `
logging:
  format: xml
tracker:
  networks: [ethereum]
`,
		},
		{
			name:    "not yaml",
			content: `{{{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
