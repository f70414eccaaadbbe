package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/chime/cli"
	"github.com/grovetools/chime/config"
	"github.com/grovetools/chime/pkg/paths"
	"github.com/grovetools/chime/tui/theme"
)

// NewConfigCmd returns the config command with its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the chime configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigSchemaCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration the hub would run with: the config file merged over built-in defaults.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.ResolveConfig(cli.GetOptions(cmd))
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.ConfigFile()
			fmt.Println(path)

			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(os.Stderr, theme.DefaultTheme.Muted.Render("(file does not exist, defaults in use)"))
			}
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  "Checks the config file against the JSON schema and the semantic rules the hub applies at startup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			path := opts.ConfigFile
			if path == "" {
				path = paths.ConfigFile()
			}

			t := theme.DefaultTheme

			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Printf("%s %s\n", t.Muted.Render("No config file at"), path)
				fmt.Println(t.Muted.Render("The hub runs on built-in defaults."))
				return nil
			}

			if _, err := config.Load(path); err != nil {
				return err
			}

			fmt.Printf("%s %s\n", t.Success.Render("✓"), path)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON schema",
		Long:  "Prints the JSON schema chime.yml is validated against, for editor integration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
