// Package config loads and validates the scanvault configuration.
package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/store"
)

// Config represents the complete service configuration
type Config struct {
	// Document store configuration
	Store store.Config `yaml:"store" json:"store"`

	// API configuration
	API APIConfig `yaml:"api" json:"api"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// APIConfig holds API server settings
type APIConfig struct {
	// Listen address
	ListenAddr string `yaml:"listen_addr" json:"listen_addr" validate:"required"`

	// Listen port
	Port int `yaml:"port" json:"port" validate:"min=1,max=65535"`

	// TLS settings
	TLS TLSConfig `yaml:"tls" json:"tls"`

	// CORS settings
	CORS CORSConfig `yaml:"cors" json:"cors"`

	// Request timeout, applied to store calls made by a request
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" validate:"gte=0"`

	// Server read and write timeouts
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" validate:"gte=0"`

	// Grace period for in-flight requests on shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"gte=0"`

	// Maximum size of an insert request body
	MaxRequestSize int64 `yaml:"max_request_size" json:"max_request_size" validate:"gt=0"`

	// Serve the Swagger UI under /swagger/
	EnableSwagger bool `yaml:"enable_swagger" json:"enable_swagger"`

	// Per-client rate limiting
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Requests int           `yaml:"requests" json:"requests" validate:"gte=0,required_if=Enabled true"`
	Window   time.Duration `yaml:"window" json:"window" validate:"gte=0,required_if=Enabled true"`
}

// TLSConfig holds TLS settings
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	CertFile string `yaml:"cert_file" json:"cert_file" validate:"required_if=Enabled true"`
	KeyFile  string `yaml:"key_file" json:"key_file" validate:"required_if=Enabled true"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format    string `yaml:"format" json:"format" validate:"oneof=text json"`
	Output    string `yaml:"output" json:"output"`
	AddSource bool   `yaml:"add_source" json:"add_source"`

	// Log every API request
	RequestLogging bool `yaml:"request_logging" json:"request_logging"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled"`
	Path           string        `yaml:"path" json:"path" validate:"omitempty,startswith=/"`
	UpdateInterval time.Duration `yaml:"update_interval" json:"update_interval" validate:"gte=0"`
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: store.DefaultConfig(),
		API: APIConfig{
			ListenAddr: "127.0.0.1",
			Port:       5000,
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
			},
			RequestTimeout:  30 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  32 * 1024 * 1024, // 32MB
			EnableSwagger:   true,
			RateLimit: RateLimitConfig{
				Requests: 100,
				Window:   time.Minute,
			},
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			Output:         "stdout",
			RequestLogging: true,
		},
		Metrics: MetricsConfig{
			Enabled:        true,
			Path:           "/metrics",
			UpdateInterval: 15 * time.Second,
		},
	}
}

// Load loads configuration from a YAML, JSON or TOML file. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to read config file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := unmarshalTOML(data, config); err != nil {
			return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse TOML config", err)
		}
	case ".json":
		// JSON is a YAML subset; decoding it as YAML keeps "30s" durations working.
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse JSON config", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.WrapConfigError(errors.CodeConfiguration, "failed to parse YAML config", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// unmarshalTOML decodes TOML into a generic tree and re-decodes it as YAML so
// that the yaml tags and duration strings apply to every format.
func unmarshalTOML(data []byte, config *Config) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	intermediate, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(intermediate, config)
}

// Save writes the configuration, choosing the format from the extension.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.marshal(strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) marshal(ext string) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil || (ext != ".toml" && ext != ".json") {
		return data, err
	}

	// Go through a generic tree so durations stay human readable.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if ext == ".json" {
		return json.MarshalIndent(raw, "", "  ")
	}
	return toml.Marshal(raw)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return &errors.ConfigError{
				Code:    errors.CodeValidation,
				Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				Field:   field,
				Value:   fe.Value(),
				Cause:   err,
			}
		}
		return errors.WrapConfigError(errors.CodeValidation, "invalid configuration", err)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.ErrConfigInvalid("metrics.path", c.Metrics.Path)
	}

	switch c.Store.Backend {
	case store.BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.ErrConfigInvalid("store.mongo.uri", c.Store.Mongo.URI)
		}
		if c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return errors.ErrConfigInvalid("store.mongo.collection", c.Store.Mongo.Database+"."+c.Store.Mongo.Collection)
		}
	case store.BackendPostgres:
		if c.Store.Postgres.Host == "" {
			return errors.ErrConfigInvalid("store.postgres.host", c.Store.Postgres.Host)
		}
		if c.Store.Postgres.Database == "" {
			return errors.ErrConfigInvalid("store.postgres.database", c.Store.Postgres.Database)
		}
	case store.BackendSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.ErrConfigInvalid("store.sqlite.path", c.Store.SQLite.Path)
		}
	}

	return nil
}

// GetAPIAddress returns the address the API listens on
func (c *Config) GetAPIAddress() string {
	return fmt.Sprintf("%s:%d", c.API.ListenAddr, c.API.Port)
}

// LoggerConfig converts the logging section for the logging package
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:     logging.LogLevel(c.Logging.Level),
		Format:    logging.LogFormat(c.Logging.Format),
		Output:    c.Logging.Output,
		AddSource: c.Logging.AddSource,
	}
}
