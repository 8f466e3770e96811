package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that a scanvault server is up",
	Long: `Call /healthz on the server given by --server, or on the address the
configuration says the API listens on.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	target := serverFlag()
	if target == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		target = serverURL(cfg)
	}

	client, err := NewAPIClient(target)
	if err != nil {
		return err
	}
	if err := client.Health(withContext(cmd)); err != nil {
		return describeAPIError(err, "health check")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is healthy\n", target)
	return nil
}
