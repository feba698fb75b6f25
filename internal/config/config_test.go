package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ROUTING_BACKEND", "OSRM_ROUTED_ADDRESS", "OSRM_PROFILE", "OSRM_TIMEOUT",
		"OSRM_RATE_LIMIT", "OSRM_MAP_FILE", "OSRM_ALGORITHM", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Backend)
	assert.Equal(t, 10*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "car", cfg.Remote.Profile)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
backend: remote
remote:
  address: http://osrm.internal:5000
  profile: bike
  timeout: 3s
  rate_limit: 20
logging:
  level: debug
`)
	t.Setenv("OSRM_PROFILE", "foot")
	t.Setenv("OSRM_TIMEOUT", "750ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Backend)
	assert.Equal(t, "http://osrm.internal:5000", cfg.Remote.Address)
	assert.Equal(t, "foot", cfg.Remote.Profile)
	assert.Equal(t, 750*time.Millisecond, cfg.Remote.Timeout)
	assert.Equal(t, 20.0, cfg.Remote.RateLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_NativeRequiresMapFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUTING_BACKEND", "native")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MapFile")

	t.Setenv("OSRM_MAP_FILE", "/data/berlin.osrm")
	t.Setenv("OSRM_ALGORITHM", "CH")
	cfg, err := Load("")
	require.NoError(t, err)
	alg, err := cfg.Algorithm()
	require.NoError(t, err)
	assert.Equal(t, "CH", alg.String())
}

func TestLoad_RemoteRequiresAddress(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "backend: remote\nremote:\n  address: \"\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Address")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"backend":    {"ROUTING_BACKEND": "grpc"},
		"profile":    {"OSRM_PROFILE": "truck"},
		"timeout":    {"OSRM_TIMEOUT": "soon"},
		"rate limit": {"OSRM_RATE_LIMIT": "fast"},
		"algorithm":  {"OSRM_ALGORITHM": "astar"},
		"address":    {"OSRM_ROUTED_ADDRESS": "not a url"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(LoggingConfig{Level: "WARN"}, &buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"component":"route-engine"`)

	assert.Equal(t, zerolog.InfoLevel, newLogger(LoggingConfig{Level: "chatty"}, &buf).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(LoggingConfig{}, &buf).GetLevel())
}
