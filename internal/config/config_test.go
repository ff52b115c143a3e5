package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv clears every variable Load consults so the host environment
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AUTH_TOKEN", "MY_NUMBER",
		"LIFESUITE_AUTH_TOKEN", "LIFESUITE_IDENTITY",
		"LIFESUITE_SERVER_PORT", "LIFESUITE_SERVER_HOST",
		"LIFESUITE_LOGGING_LEVEL", "LIFESUITE_LOGGING_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "human", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.Auth.Token, "default config must not carry a secret")
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_TOKEN", "s3cret")
	t.Setenv("MY_NUMBER", "919876543210")
	t.Setenv("LIFESUITE_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.Token)
	assert.Equal(t, "919876543210", cfg.Auth.Identity)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_PrefixedNamesWin(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_TOKEN", "bare")
	t.Setenv("LIFESUITE_AUTH_TOKEN", "prefixed")
	t.Setenv("MY_NUMBER", "42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Auth.Token)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MY_NUMBER", "42")

	_, err := Load("")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "auth.token", cfgErr.Field)
}

func TestLoad_MissingIdentityFails(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_TOKEN", "s3cret")

	_, err := Load("")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "auth.identity", cfgErr.Field)
}

func TestRead_SkipsValidation(t *testing.T) {
	isolateEnv(t)

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.Token)
	assert.Equal(t, 8086, cfg.Server.Port)
	assert.Error(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	content := `
[auth]
token = "from-file"
identity = "1234"

[server]
port = 7000

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.Token)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSec)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[auth]\ntoken = \"file\"\nidentity = \"1\"\n"), 0600))
	t.Setenv("AUTH_TOKEN", "env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.Auth.Token)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolateEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Auth = AuthConfig{Token: "t", Identity: "i"}
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"uppercase level", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"rate limit without burst", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Burst = 0
		}, "rateLimit.burst"},
		{"disabled rate limit ignores burst", func(c *Config) { c.RateLimit.Burst = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Auth = AuthConfig{Token: "s3cret", Identity: "42"}

	red := cfg.Redacted()
	assert.Equal(t, "********", red.Auth.Token)
	assert.Equal(t, "42", red.Auth.Identity)
	assert.Equal(t, "s3cret", cfg.Auth.Token, "original must be untouched")
}

func TestWriteFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), FileName)

	cfg := DefaultConfig()
	cfg.Auth = AuthConfig{Token: "written", Identity: "99"}
	require.NoError(t, cfg.WriteFile(path))

	// Refuses to clobber.
	assert.Error(t, cfg.WriteFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "written", loaded.Auth.Token)
	assert.Equal(t, cfg.Server.Port, loaded.Server.Port)
	assert.Equal(t, cfg.Logging.MaxBackups, loaded.Logging.MaxBackups)
}
