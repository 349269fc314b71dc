package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SYMBOL", "ETHUSDC")
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_SECRET_KEY", "secret")
	t.Setenv("BINANCE_PRIVATE_KEY_PATH", "")
	t.Setenv("RECV_WINDOW_MS", "")
	t.Setenv("LOG_FILE", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDC", cfg.Symbol)
	assert.Equal(t, int64(5000), cfg.RecvWindowMs)
	assert.Equal(t, "logs/app.log", cfg.LogFile)
}

func TestLoadMissingSymbol(t *testing.T) {
	setRequired(t)
	t.Setenv("SYMBOL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYMBOL")
}

func TestLoadCredentialExclusivity(t *testing.T) {
	setRequired(t)
	t.Setenv("BINANCE_SECRET_KEY", "")
	t.Setenv("BINANCE_PRIVATE_KEY_PATH", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("BINANCE_SECRET_KEY", "secret")
	t.Setenv("BINANCE_PRIVATE_KEY_PATH", "/tmp/key.pem")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoadRecvWindowOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("RECV_WINDOW_MS", "10000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cfg.RecvWindowMs)

	t.Setenv("RECV_WINDOW_MS", "abc")
	_, err = Load()
	require.Error(t, err)
}
