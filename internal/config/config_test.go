package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, "127.0.0.1:7645", cfg.ListenAddr)
	require.Equal(t, "DGK", cfg.NativeAsset)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.AdminAccount)
	require.Empty(t, cfg.GenesisFile)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexd.toml")
	body := `
data_dir = "/var/lib/dexd"
listen_addr = "0.0.0.0:9000"
admin_account = "platform"
native_asset = "DGK"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/dexd", cfg.DataDir)
	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	require.Equal(t, "platform", cfg.AdminAccount)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DEXD_LISTEN_ADDR", "127.0.0.1:9999")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DataDir:     "data",
		ListenAddr:  "127.0.0.1:7645",
		NativeAsset: "DGK",
		LogLevel:    "info",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"empty native asset", func(c *Config) { c.NativeAsset = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	body := `{
		"balances": [
			{"account": "alice", "asset": "DGK", "native": true, "amount": "1000000000"},
			{"account": "alice", "asset": "USD", "amount": "500000"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Len(t, g.Balances, 2)
	require.True(t, g.Balances[0].Native)
	require.False(t, g.Balances[1].Native)
	require.Equal(t, "500000", g.Balances[1].Amount)
}

func TestLoadGenesisIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	body := `{"balances": [{"account": "alice", "asset": "DGK"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadGenesis(path)
	require.Error(t, err)
}
