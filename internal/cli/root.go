// Package cli implements the areasearch command line.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/logging"
)

// annotationLogToFile marks commands whose logs must never reach the
// terminal.
const annotationLogToFile = "areasearch/log-to-file"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the areasearch CLI.
// It loads configuration, wires up logging and tracing, and registers the
// view, scan and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "areasearch",
		Short:         "Search the objects around your avatar",
		Long:          "areasearch: list and filter the in-world objects of the current region by name, description, owner or group",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $AREASEARCH_HOME/config.yaml or ~/.areasearch/config.yaml)")
	cmd.AddCommand(newViewCmd(), newScanCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Open the interactive search panel over a world file
  areasearch view --world world.yaml

  # Serve session metrics while the panel is open
  areasearch view --world world.yaml --metrics-addr :9090

  # List every object owned by someone named Jane, as JSON
  areasearch scan --world world.yaml --owner Jane --output json

  # Write the default configuration file
  areasearch config init`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd())
	return cmd
}
