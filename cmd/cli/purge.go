package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
)

var purgeYes bool

// purgeCmd represents the purge command.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every stored document",
	Long: `Delete every document in the store. This cannot be undone. Without --yes
the command asks for confirmation first.`,
	Example: `  scanvault purge
  scanvault purge --yes --server http://127.0.0.1:5000`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "skip the confirmation prompt")
}

// confirm asks a yes/no question on the command's streams.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func runPurge(cmd *cobra.Command, _ []string) error {
	ctx := withContext(cmd)
	out := cmd.OutOrStdout()
	url := serverFlag()

	target := url
	var cfg *config.Config
	if url == "" {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		target = cfg.Store.Backend + " store"
	}

	if !purgeYes && !confirm(cmd, fmt.Sprintf("Delete all documents from %s?", target)) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	if url != "" {
		client, err := NewAPIClient(url)
		if err != nil {
			return err
		}
		msg, err := client.DeleteAll(ctx)
		if err != nil {
			return describeAPIError(err, "purge")
		}
		fmt.Fprintln(out, msg)
		return nil
	}

	logger := logging.Default()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	n, err := st.DeleteAll(ctx)
	if err != nil {
		return err
	}
	logger.InfoStore("Deleted all documents", st.Backend(), "count", n)
	fmt.Fprintf(out, "Deleted %d documents\n", n)
	return nil
}
