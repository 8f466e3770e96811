package cli

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/logging"
	"github.com/anstrom/scanvault/internal/store"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the SQL schema",
	Long: `Apply or inspect schema migrations of the postgres and sqlite backends.
The mongo and memory backends have no schema.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openMigrator opens the SQL store without applying migrations on connect.
func openMigrator(cmd *cobra.Command) (*store.Migrator, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := requireSQLBackend(cfg); err != nil {
		return nil, nil, err
	}
	cfg.Store.Postgres.AutoMigrate = false
	cfg.Store.SQLite.AutoMigrate = false

	logger := logging.Default()
	st, err := openStore(withContext(cmd), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	sqlStore, ok := st.(*store.SQLStore)
	if !ok {
		closeStore(st, logger)
		return nil, nil, fmt.Errorf("backend %s does not support migrations", st.Backend())
	}
	return store.NewMigrator(sqlStore.DB(), sqlStore.Backend()), func() { closeStore(st, logger) }, nil
}

func requireSQLBackend(cfg *config.Config) error {
	switch cfg.Store.Backend {
	case store.BackendPostgres, store.BackendSQLite:
		return nil
	default:
		return fmt.Errorf("backend %s has no schema to migrate", cfg.Store.Backend)
	}
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	migrator, done, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer done()

	applied, err := migrator.Up(withContext(cmd))
	for _, name := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
	}
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	migrator, done, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer done()

	statuses, err := migrator.Status(withContext(cmd))
	if err != nil {
		return err
	}
	return printMigrationStatus(cmd.OutOrStdout(), statuses)
}

func printMigrationStatus(w io.Writer, statuses []store.MigrationStatus) error {
	table := tablewriter.NewWriter(w)
	table.Header("Migration", "Status", "Applied At")

	for _, s := range statuses {
		state := "pending"
		switch {
		case s.Applied && s.Modified:
			state = "applied (modified)"
		case s.Applied:
			state = "applied"
		}
		if err := table.Append([]string{s.Name, state, s.AppliedAt}); err != nil {
			return err
		}
	}
	return table.Render()
}
