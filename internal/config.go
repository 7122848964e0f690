package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Stub    StubConfig    `mapstructure:"stub"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout applies uniformly to every backend call, login included.
	Timeout time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	// Path of the local SQLite store holding session keys, snapshots and
	// settings blobs.
	Path string `mapstructure:"path"`
	// TokenBackend selects where the bearer token lives: "file" keeps it in
	// the local store, "keyring" uses the OS keyring.
	TokenBackend   string `mapstructure:"token_backend"`
	KeyringService string `mapstructure:"keyring_service"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StubConfig drives the development backend started by "backoffice stub".
type StubConfig struct {
	Port         int           `mapstructure:"port"`
	DatabasePath string        `mapstructure:"database_path"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a configuration purely from environment
// variables, for containerized deployments without a config file.
func LoadConfigFromEnv() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: getEnv("BACKOFFICE_API_URL", "http://localhost:8080"),
			Timeout: time.Duration(getEnvAsInt("BACKOFFICE_API_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Storage: StorageConfig{
			Path:           getEnv("BACKOFFICE_STORE_PATH", "backoffice.db"),
			TokenBackend:   getEnv("BACKOFFICE_TOKEN_BACKEND", "file"),
			KeyringService: getEnv("BACKOFFICE_KEYRING_SERVICE", "ehm-backoffice"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("BACKOFFICE_LOG_LEVEL", "info"),
			Format: getEnv("BACKOFFICE_LOG_FORMAT", "json"),
		},
		Stub: StubConfig{
			Port:         getEnvAsInt("BACKOFFICE_STUB_PORT", 8080),
			DatabasePath: getEnv("BACKOFFICE_STUB_DB", "stub.db"),
			JWTSecret:    getEnv("BACKOFFICE_STUB_JWT_SECRET", ""),
			TokenTTL:     time.Duration(getEnvAsInt("BACKOFFICE_STUB_TOKEN_TTL_MINUTES", 60)) * time.Minute,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("api config: %v", err))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("storage config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	switch c.TokenBackend {
	case "", "file", "keyring":
	default:
		return fmt.Errorf("token_backend must be file or keyring, got %q", c.TokenBackend)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
