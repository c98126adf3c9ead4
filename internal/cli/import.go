// internal/cli/import.go
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mcp-max-protein/internal/storage"
	"mcp-max-protein/internal/usda"
)

func newImportCommand(a *app) *cobra.Command {
	var abbrevPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a USDA ABBREV file into the catalog database",
		Long: `Parse a USDA ABBREV ('^'-separated) file and replace the catalog database
contents with its valid records, keeping file order. Records with missing or
malformed fields are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, stats, err := usda.Load(abbrevPath)
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(a.cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			if err := store.ReplaceCatalog(cmd.Context(), catalog); err != nil {
				return fmt.Errorf("failed to store catalog: %w", err)
			}

			slog.Info("catalog imported",
				"source", abbrevPath,
				"db_path", a.cfg.DBPath,
				"lines", stats.Lines,
				"loaded", stats.Loaded,
				"skipped", stats.Skipped)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d foods (%d skipped) into %s\n",
				stats.Loaded, stats.Skipped, a.cfg.DBPath)
			return err
		},
	}

	cmd.Flags().StringVar(&abbrevPath, "abbrev", "ABBREV.txt", "path to the USDA ABBREV file")
	return cmd
}
