package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (LIFESUITE_SERVER_PORT, ...).
const EnvPrefix = "LIFESUITE"

// FileName is the config file name searched for when no explicit path is given.
const FileName = "lifesuite.toml"

// Config represents the complete server configuration.
// It is loaded once at startup and passed by value afterwards.
type Config struct {
	Auth      AuthConfig      `json:"auth" mapstructure:"auth" toml:"auth"`
	Server    ServerConfig    `json:"server" mapstructure:"server" toml:"server"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging" toml:"logging"`
	Metrics   MetricsConfig   `json:"metrics" mapstructure:"metrics" toml:"metrics"`
	RateLimit RateLimitConfig `json:"rateLimit" mapstructure:"rateLimit" toml:"rateLimit"`
}

// AuthConfig holds the bearer secret and the identity returned by validate.
type AuthConfig struct {
	Token    string `json:"token" mapstructure:"token" toml:"token"`
	Identity string `json:"identity" mapstructure:"identity" toml:"identity"`
}

// ServerConfig contains HTTP transport settings
type ServerConfig struct {
	Host              string   `json:"host" mapstructure:"host" toml:"host"`
	Port              int      `json:"port" mapstructure:"port" toml:"port"`
	CORSAllowOrigins  []string `json:"corsAllowOrigins" mapstructure:"corsAllowOrigins" toml:"corsAllowOrigins"`
	Gzip              bool     `json:"gzip" mapstructure:"gzip" toml:"gzip"`
	ReadTimeoutMs     int      `json:"readTimeoutMs" mapstructure:"readTimeoutMs" toml:"readTimeoutMs"`
	WriteTimeoutMs    int      `json:"writeTimeoutMs" mapstructure:"writeTimeoutMs" toml:"writeTimeoutMs"`
	ShutdownTimeoutMs int      `json:"shutdownTimeoutMs" mapstructure:"shutdownTimeoutMs" toml:"shutdownTimeoutMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format     string            `json:"format" mapstructure:"format" toml:"format"` // "human" or "json"
	Level      string            `json:"level" mapstructure:"level" toml:"level"`
	File       string            `json:"file,omitempty" mapstructure:"file" toml:"file,omitempty"`
	MaxSizeMB  int               `json:"maxSizeMb" mapstructure:"maxSizeMb" toml:"maxSizeMb"`
	MaxBackups int               `json:"maxBackups" mapstructure:"maxBackups" toml:"maxBackups"`
	Subsystems map[string]string `json:"subsystems,omitempty" mapstructure:"subsystems" toml:"subsystems,omitempty"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled" toml:"enabled"`
	Namespace string `json:"namespace" mapstructure:"namespace" toml:"namespace"`
}

// RateLimitConfig contains per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool    `json:"enabled" mapstructure:"enabled" toml:"enabled"`
	RequestsPerSec float64 `json:"requestsPerSec" mapstructure:"requestsPerSec" toml:"requestsPerSec"`
	Burst          int     `json:"burst" mapstructure:"burst" toml:"burst"`
}

// DefaultConfig returns a configuration with default values.
// Auth is left empty and must come from the file or the environment.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8086,
			CORSAllowOrigins:  []string{"*"},
			Gzip:              true,
			ReadTimeoutMs:     15000,
			WriteTimeoutMs:    30000,
			ShutdownTimeoutMs: 10000,
		},
		Logging: LoggingConfig{
			Format:     "human",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "lifesuite",
		},
		RateLimit: RateLimitConfig{
			Enabled:        false,
			RequestsPerSec: 10,
			Burst:          20,
		},
	}
}

// Load reads configuration from defaults, an optional TOML file, a .env file
// and the environment, in increasing order of precedence, and validates it.
// An empty path searches the working directory and $HOME/.lifesuite for
// lifesuite.toml.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation.
func Read(path string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare names are what deployments of the suite have always used.
	_ = v.BindEnv("auth.token", EnvPrefix+"_AUTH_TOKEN", "AUTH_TOKEN")
	_ = v.BindEnv("auth.identity", EnvPrefix+"_IDENTITY", "MY_NUMBER")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".toml"))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lifesuite"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.identity", "")
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.corsAllowOrigins", d.Server.CORSAllowOrigins)
	v.SetDefault("server.gzip", d.Server.Gzip)
	v.SetDefault("server.readTimeoutMs", d.Server.ReadTimeoutMs)
	v.SetDefault("server.writeTimeoutMs", d.Server.WriteTimeoutMs)
	v.SetDefault("server.shutdownTimeoutMs", d.Server.ShutdownTimeoutMs)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxSizeMb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("rateLimit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rateLimit.requestsPerSec", d.RateLimit.RequestsPerSec)
	v.SetDefault("rateLimit.burst", d.RateLimit.Burst)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	checks := []struct {
		field string
		err   error
	}{
		{"auth.token", validation.Validate(c.Auth.Token,
			validation.Required.Error("AUTH_TOKEN must be set"))},
		{"auth.identity", validation.Validate(c.Auth.Identity,
			validation.Required.Error("MY_NUMBER must be set"))},
		{"server.port", validation.Validate(c.Server.Port,
			validation.Required, validation.Min(1), validation.Max(65535))},
		{"logging.format", validation.Validate(c.Logging.Format,
			validation.In("human", "json").Error("must be human or json"))},
		{"logging.level", validation.Validate(strings.ToLower(c.Logging.Level),
			validation.In("debug", "info", "warn", "warning", "error").Error("must be debug, info, warn or error"))},
		{"rateLimit.requestsPerSec", validation.Validate(c.RateLimit.RequestsPerSec,
			validation.When(c.RateLimit.Enabled, validation.Required, validation.Min(0.0)))},
		{"rateLimit.burst", validation.Validate(c.RateLimit.Burst,
			validation.When(c.RateLimit.Enabled, validation.Required, validation.Min(1)))},
	}

	for _, check := range checks {
		if check.err != nil {
			return &ConfigError{Field: check.field, Message: check.err.Error()}
		}
	}
	return nil
}

// Redacted returns a copy safe to print, with the secret masked.
func (c Config) Redacted() Config {
	if c.Auth.Token != "" {
		c.Auth.Token = "********"
	}
	c.Server.CORSAllowOrigins = append([]string(nil), c.Server.CORSAllowOrigins...)
	return c
}

// WriteFile writes the configuration as TOML. It refuses to overwrite an existing file.
func (c *Config) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// loadDotEnv searches for a .env file from the current directory up to the
// filesystem root and loads the first one found. Variables already present
// in the environment are not overridden.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
