package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
api:
  listen_addr: ":9090"
  auth_token: "secret"
logging:
  level: debug
  format: console
hotels:
  - name: Localhost
    ws_link: ws://127.0.0.1:2096
    origin: http://localhost
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.API.ListenAddr)
	assert.Equal(t, "secret", cfg.API.AuthToken)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Hotels, 1)
	assert.Equal(t, "Localhost", cfg.Hotels[0].Name)
	assert.Equal(t, "ws://127.0.0.1:2096", cfg.Hotels[0].WSLink)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  auth_token: "secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.API.ListenAddr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Hotels)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_MissingToken(t *testing.T) {
	path := writeConfig(t, `
api:
  listen_addr: ":8080"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_token")
}

func TestValidate_BadHotel(t *testing.T) {
	cfg := Config{
		API:     APIConfig{ListenAddr: ":8080", AuthToken: "t"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Hotels: []HotelConfig{
			{Name: "", WSLink: "http://not-ws", Origin: ""},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hotels[0].name")
	assert.Contains(t, err.Error(), "ws_link")
	assert.Contains(t, err.Error(), "origin")
}

func TestValidate_DuplicateHotelNames(t *testing.T) {
	cfg := Config{
		API:     APIConfig{ListenAddr: ":8080", AuthToken: "t"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Hotels: []HotelConfig{
			{Name: "A", WSLink: "ws://a", Origin: "http://a"},
			{Name: "A", WSLink: "ws://b", Origin: "http://b"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicated")
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Config{
		API:     APIConfig{ListenAddr: ":8080", AuthToken: "t"},
		Logging: LoggingConfig{Level: "verbose", Format: "json"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}
