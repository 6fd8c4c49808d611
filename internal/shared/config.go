package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultSessionSecret is the placeholder secret shipped in the example config.
const DefaultSessionSecret = "change-me"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Client   ClientConfig   `toml:"client"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AuthConfig contains session signing and cookie settings.
type AuthConfig struct {
	SessionSecret string   `toml:"session_secret"`
	SessionTTL    Duration `toml:"session_ttl"`
	CookieName    string   `toml:"cookie_name"`
	SecureCookie  bool     `toml:"secure_cookie"`
	RequireSecret bool     `toml:"require_secret"` // refuse to start with the placeholder secret
}

// CatalogConfig contains Open Library client settings.
type CatalogConfig struct {
	BaseURL     string   `toml:"base_url"`
	CoversURL   string   `toml:"covers_url"`
	RateLimit   float64  `toml:"rate_limit"` // requests per second
	Timeout     Duration `toml:"timeout"`
	SearchLimit int      `toml:"search_limit"`
}

// ClientConfig contains settings for CLI commands that talk to a running server.
type ClientConfig struct {
	ServerURL string `toml:"server_url"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so it can be written as "10s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults, and environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadOrDefault loads the config at path when it exists and falls back to [DefaultConfig] otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		config := DefaultConfig()
		if err := config.applyEnv(); err != nil {
			return nil, err
		}
		return config, nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks settings the server cannot run without.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("%w: auth.session_secret is empty", ErrInvalidConfig)
	}
	if c.Auth.RequireSecret && c.Auth.SessionSecret == DefaultSessionSecret {
		return fmt.Errorf("%w: auth.session_secret is still the example value", ErrInvalidConfig)
	}
	if c.Auth.SessionTTL.Duration <= 0 {
		return fmt.Errorf("%w: auth.session_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

// String returns a summary of the config with the session secret masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: %s, DB: %s, Catalog: %s, Auth: *** (masked) ***}",
		c.Server.Addr(), c.Database.Path, c.Catalog.BaseURL)
}

// applyEnv overrides file values with SHELF_* environment variables.
func (c *Config) applyEnv() error {
	c.Database.Path = getEnv("SHELF_DB_PATH", c.Database.Path)
	c.Server.Host = getEnv("SHELF_HOST", c.Server.Host)
	c.Auth.SessionSecret = getEnv("SHELF_SESSION_SECRET", c.Auth.SessionSecret)
	c.Log.Level = getEnv("SHELF_LOG_LEVEL", c.Log.Level)
	c.Client.ServerURL = getEnv("SHELF_SERVER_URL", c.Client.ServerURL)

	port, err := getEnvInt("SHELF_PORT", c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Port = port
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid integer for %s: %v", ErrInvalidConfig, key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}
