package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/store"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid yaml config",
			file: "config.yaml",
			content: `
store:
  backend: postgres
  postgres:
    host: db.internal
    database: scans
    username: scanner
api:
  port: 8080
  request_timeout: 5s
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.Backend != store.BackendPostgres {
					t.Errorf("backend = %q", cfg.Store.Backend)
				}
				if cfg.Store.Postgres.Host != "db.internal" || cfg.Store.Postgres.Port != 5432 {
					t.Errorf("postgres = %+v", cfg.Store.Postgres)
				}
				if cfg.API.RequestTimeout != 5*time.Second {
					t.Errorf("request_timeout = %v", cfg.API.RequestTimeout)
				}
				if cfg.API.ListenAddr != "127.0.0.1" {
					t.Errorf("defaults should be kept, listen_addr = %q", cfg.API.ListenAddr)
				}
			},
		},
		{
			name:    "valid json config",
			file:    "config.json",
			content: `{"store": {"backend": "sqlite", "sqlite": {"path": "/tmp/scans.db"}}, "metrics": {"update_interval": "1m"}}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.SQLite.Path != "/tmp/scans.db" {
					t.Errorf("sqlite path = %q", cfg.Store.SQLite.Path)
				}
				if cfg.Metrics.UpdateInterval != time.Minute {
					t.Errorf("update_interval = %v", cfg.Metrics.UpdateInterval)
				}
			},
		},
		{
			name: "valid toml config",
			file: "config.toml",
			content: `
[store]
backend = "mongo"
timeout = "3s"

[store.mongo]
uri = "mongodb://mongo:27017"
collection = "results"

[logging]
level = "debug"
format = "json"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Store.Mongo.URI != "mongodb://mongo:27017" {
					t.Errorf("uri = %q", cfg.Store.Mongo.URI)
				}
				if cfg.Store.Mongo.Database != "scannerdb" || cfg.Store.Mongo.Collection != "results" {
					t.Errorf("mongo = %+v", cfg.Store.Mongo)
				}
				if cfg.Store.Timeout != 3*time.Second {
					t.Errorf("timeout = %v", cfg.Store.Timeout)
				}
				if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
					t.Errorf("logging = %+v", cfg.Logging)
				}
			},
		},
		{
			name:    "invalid yaml syntax",
			file:    "config.yaml",
			content: "store: [unclosed",
			wantErr: true,
		},
		{
			name:    "invalid toml syntax",
			file:    "config.toml",
			content: "[store\nbackend = ",
			wantErr: true,
		},
		{
			name:    "validation failure",
			file:    "config.yaml",
			content: "logging:\n  level: verbose\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Port != 5000 {
		t.Errorf("expected defaults, got port %d", cfg.API.Port)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Store.Backend != store.BackendMongo {
		t.Errorf("default backend = %q", cfg.Store.Backend)
	}
	if got := cfg.GetAPIAddress(); got != "127.0.0.1:5000" {
		t.Errorf("GetAPIAddress() = %q", got)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}

	lc := cfg.LoggerConfig()
	if string(lc.Level) != "info" || string(lc.Format) != "text" || lc.Output != "stdout" {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "bad port", mutate: func(c *Config) { c.API.Port = 70000 }, wantField: "api.port"},
		{name: "empty listen address", mutate: func(c *Config) { c.API.ListenAddr = "" }, wantField: "api.listen_addr"},
		{name: "tls without cert", mutate: func(c *Config) { c.API.TLS.Enabled = true }, wantField: "api.tls.cert_file"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantField: "logging.format"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "redis" }, wantField: "store.backend"},
		{name: "bad ssl mode", mutate: func(c *Config) { c.Store.Postgres.SSLMode = "sometimes" }, wantField: "store.postgres.ssl_mode"},
		{name: "zero request size", mutate: func(c *Config) { c.API.MaxRequestSize = 0 }, wantField: "api.max_request_size"},
		{
			name: "rate limit without window",
			mutate: func(c *Config) {
				c.API.RateLimit.Enabled = true
				c.API.RateLimit.Window = 0
			},
			wantField: "api.rate_limit.window",
		},
		{name: "relative metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantField: "metrics.path"},
		{name: "metrics without path", mutate: func(c *Config) { c.Metrics.Path = "" }, wantField: "metrics.path"},
		{name: "mongo without uri", mutate: func(c *Config) { c.Store.Mongo.URI = "" }, wantField: "store.mongo.uri"},
		{
			name: "postgres without database",
			mutate: func(c *Config) {
				c.Store.Backend = store.BackendPostgres
			},
			wantField: "store.postgres.database",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Store.Backend = store.BackendSQLite
				c.Store.SQLite.Path = ""
			},
			wantField: "store.sqlite.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.IsCode(err, errors.CodeValidation) {
				t.Errorf("expected VALIDATION code, got %v", errors.GetCode(err))
			}

			cfgErr, ok := err.(*errors.ConfigError)
			if !ok {
				t.Fatalf("expected *errors.ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Store.Backend = store.BackendSQLite
			cfg.Store.SQLite.Path = "/var/lib/scanvault/scans.db"
			cfg.API.RequestTimeout = 90 * time.Second

			path := filepath.Join(t.TempDir(), "nested", name)
			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if loaded.Store.SQLite.Path != cfg.Store.SQLite.Path {
				t.Errorf("sqlite path = %q", loaded.Store.SQLite.Path)
			}
			if loaded.API.RequestTimeout != 90*time.Second {
				t.Errorf("request_timeout = %v", loaded.API.RequestTimeout)
			}
		})
	}
}
