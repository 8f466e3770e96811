package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anstrom/scanvault/internal/api"
	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/metrics"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scanvault API server",
	Long: `Run the scanvault HTTP API. The server accepts scan result batches on
/insert and answers searches by title, domain, IP address, port, response body
and response headers until it receives SIGINT or SIGTERM.`,
	Example: `  scanvault serve
  scanvault serve --host 0.0.0.0 --port 8080
  scanvault serve --backend sqlite --config /etc/scanvault/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Host address to bind API server (empty = use config value)")
	serveCmd.Flags().Int("port", 0, "Port number for API server (0 = use config value)")

	if err := viper.BindPFlag("api.listen_addr", serveCmd.Flags().Lookup("host")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind host flag: %v\n", err)
	}
	if err := viper.BindPFlag("api.port", serveCmd.Flags().Lookup("port")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind port flag: %v\n", err)
	}
}

// printStartupInfo prints verbose startup information.
func printStartupInfo(cfg *config.Config) {
	if !verbose {
		return
	}
	fmt.Printf("API server configuration:\n")
	fmt.Printf("  Address: %s\n", cfg.GetAPIAddress())
	fmt.Printf("  Backend: %s\n", cfg.Store.Backend)
	fmt.Printf("  CORS enabled: %t\n", cfg.API.CORS.Enabled)
	fmt.Printf("  Rate limiting: %t\n", cfg.API.RateLimit.Enabled)
	fmt.Printf("  Metrics: %t\n", cfg.Metrics.Enabled)
	fmt.Printf("  Swagger UI: %t\n", cfg.API.EnableSwagger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printStartupInfo(cfg)

	ctx, stop := signal.NotifyContext(withContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	var pm *metrics.PrometheusMetrics
	if cfg.Metrics.Enabled {
		pm = metrics.NewPrometheusMetrics()
	}

	server, err := api.New(cfg, st, pm, logger)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	fmt.Printf("scanvault API listening on %s (backend %s)\n", server.GetAddress(), st.Backend())

	if err := server.Start(ctx); err != nil {
		return err
	}

	fmt.Println("API server stopped gracefully")
	return nil
}

// withContext returns the command context, or Background when the command
// is invoked without one (as in tests).
func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
