// Package cli carries the shared cobra plumbing for the chime binary:
// standard flags, styled help, and error presentation.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/profiling"
)

// CommandOptions holds the flag values shared by all chime commands.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command with the standard chime flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to chime.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger creates a logger honoring the command's verbosity flags.
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	entry := logging.NewLogger("cli")
	logger := entry.Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// GetOptions extracts the standard flag values from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// ResolveConfig loads the configuration the command should run with: the
// --config flag when given, otherwise the default lookup (CHIME_CONFIG,
// then <config dir>/chime.yml, then built-in defaults).
func ResolveConfig(opts CommandOptions) (*config.Config, error) {
	defer profiling.Start("config.load").Stop()

	if opts.ConfigFile != "" {
		return config.Load(opts.ConfigFile)
	}
	return config.LoadDefault()
}
