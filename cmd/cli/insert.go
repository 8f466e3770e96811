package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anstrom/scanvault/internal/document"
	"github.com/anstrom/scanvault/internal/logging"
)

// insertCmd represents the insert command.
var insertCmd = &cobra.Command{
	Use:   "insert FILE...",
	Short: "Load scan result batches",
	Long: `Load one or more files, each holding a JSON array of scan documents. Use
"-" to read a batch from standard input. Every file is checked before anything
is written, so a malformed file leaves the store untouched.`,
	Example: `  scanvault insert results.json
  cat results.json | scanvault insert -
  scanvault insert day1.json day2.json --server http://127.0.0.1:5000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInsert,
}

func init() {
	rootCmd.AddCommand(insertCmd)
}

// batchFile is a validated batch with the bytes it was decoded from.
type batchFile struct {
	name string
	raw  []byte
	docs []document.Document
}

func readBatches(cmd *cobra.Command, names []string) ([]batchFile, error) {
	batches := make([]batchFile, 0, len(names))
	for _, name := range names {
		raw, err := readBatchSource(cmd, name)
		if err != nil {
			return nil, err
		}
		docs, err := document.DecodeBatch(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		batches = append(batches, batchFile{name: name, raw: raw, docs: docs})
	}
	return batches, nil
}

func readBatchSource(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return data, nil
	}

	// #nosec G304 - the file is named by the operator
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return data, nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	batches, err := readBatches(cmd, args)
	if err != nil {
		return err
	}

	ctx := withContext(cmd)
	out := cmd.OutOrStdout()

	if url := serverFlag(); url != "" {
		client, err := NewAPIClient(url)
		if err != nil {
			return err
		}
		for _, b := range batches {
			if _, err := client.Insert(ctx, b.raw); err != nil {
				return describeAPIError(err, "insert of "+b.name)
			}
			fmt.Fprintf(out, "%s: inserted %d documents\n", b.name, len(b.docs))
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Default()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	for _, b := range batches {
		n, err := st.InsertMany(ctx, b.docs)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		logger.InfoStore("Inserted batch", st.Backend(), "file", b.name, "documents", n)
		fmt.Fprintf(out, "%s: inserted %d documents\n", b.name, n)
	}
	return nil
}
