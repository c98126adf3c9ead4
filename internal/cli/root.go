// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mcp-max-protein/internal/config"
	"mcp-max-protein/internal/logging"
)

const name = "max-protein"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
)

// app carries state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

// Execute runs the root command and exits non-zero on failure. SIGINT and
// SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree with a fresh configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   name,
		Short: "Pick foods that maximize protein within a calorie budget",
		Long: `max-protein selects the subset of USDA foods with the most protein whose
total energy fits a kilocalorie budget, using either a greedy heuristic or
an exhaustive subset search.

Import an ABBREV file once, then solve, time or serve over MCP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./max-protein.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("db-path", "", "catalog database path")
	mustBind(a.v, "log_level", root.PersistentFlags().Lookup("log-level"))
	mustBind(a.v, "db_path", root.PersistentFlags().Lookup("db-path"))

	root.AddCommand(
		newImportCommand(a),
		newSolveCommand(a),
		newTimingCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	return root
}

// init loads configuration and installs the default logger once flags are
// parsed.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Debug("configuration loaded",
		"command", cmd.Name(),
		"config_file", a.v.ConfigFileUsed(),
		"db_path", cfg.DBPath)
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading for version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (commit %s)\n", name, version, commit)
			return err
		},
	}
}
