// Package cli provides the command-line interface of scanvault.
// It implements the Cobra-based command tree for serving the API, loading
// scan results, querying them and maintaining the store.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
)

const envPrefix = "SCANVAULT"

var (
	cfgFile string
	verbose bool
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scanvault",
	Short: "Store and search web scan results",
	Long: `scanvault keeps the results of HTTP(S) scans of IP addresses and domain
names and serves searches over them: by page title, domain, IP address, port,
response body and response headers.`,
	Version:       getVersion(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.String("backend", "", "document store backend: memory, mongo, postgres or sqlite")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("server", "", "URL of a running scanvault server; when set, commands go through its API")

	bindFlag("verbose", "verbose")
	bindFlag("store.backend", "backend")
	bindFlag("logging.level", "log-level")
	bindFlag("server", "server")
}

// bindFlag binds a persistent flag to a viper key.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", flag, err)
	}
}

// initConfig resolves the config file and enables SCANVAULT_* environment
// overrides.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	initLogging()
}

// configFilePath returns the file config.Load should read.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "config.yaml"
}

// loadConfig loads the config file and applies flag and environment
// overrides bound through viper, then validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFilePath())
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies values that were set by flag or environment.
func applyOverrides(cfg *config.Config) {
	overrideString("store.backend", &cfg.Store.Backend)
	overrideString("store.mongo.uri", &cfg.Store.Mongo.URI)
	overrideString("store.mongo.database", &cfg.Store.Mongo.Database)
	overrideString("store.mongo.collection", &cfg.Store.Mongo.Collection)
	overrideString("store.postgres.host", &cfg.Store.Postgres.Host)
	overrideString("store.postgres.database", &cfg.Store.Postgres.Database)
	overrideString("store.postgres.username", &cfg.Store.Postgres.Username)
	overrideString("store.postgres.password", &cfg.Store.Postgres.Password)
	overrideString("store.sqlite.path", &cfg.Store.SQLite.Path)
	overrideString("api.listen_addr", &cfg.API.ListenAddr)
	overrideString("logging.level", &cfg.Logging.Level)
	overrideString("logging.format", &cfg.Logging.Format)

	if viper.IsSet("api.port") && viper.GetInt("api.port") > 0 {
		cfg.API.Port = viper.GetInt("api.port")
	}
	if viper.IsSet("store.postgres.port") && viper.GetInt("store.postgres.port") > 0 {
		cfg.Store.Postgres.Port = viper.GetInt("store.postgres.port")
	}
}

func overrideString(key string, target *string) {
	if v := viper.GetString(key); v != "" {
		*target = v
	}
}

// serverFlag returns the API server URL from --server or SCANVAULT_SERVER.
func serverFlag() string {
	return strings.TrimSpace(viper.GetString("server"))
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	cfg, err := config.Load(configFilePath())
	if err != nil {
		logging.SetDefault(logging.NewDefault())
		return
	}
	applyOverrides(cfg)

	logConfig := cfg.LoggerConfig()
	if verbose {
		logConfig.Level = logging.LevelDebug
	}

	logger, err := logging.New(logConfig)
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)

	if verbose {
		logging.Debug("Structured logging initialized", "level", logConfig.Level, "format", logConfig.Format)
	}
}
