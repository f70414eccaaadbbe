package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/internal/export"
	"github.com/grovetools/chime/tui/theme"
	"github.com/grovetools/chime/util/pathutil"
)

// NewExportCmd creates the `export-hooks` command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-hooks",
		Short: "Export the Claude Code hook bundle",
		Long: `Writes a zip archive with the hook scripts that publish Claude Code
events to the chime bus, plus an installer and a manifest. Unpack it on
the machine running Claude Code and run install.sh.

Examples:
  # Bundle for this machine
  chime export-hooks

  # Bundle for another machine on the LAN
  chime export-hooks --lan -o laptop-hooks.zip

  # Explicit broker address
  chime export-hooks --host 192.168.1.50 --port 1883`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")

			output, err := pathutil.Expand(output)
			if err != nil {
				return err
			}

			if lan, _ := cmd.Flags().GetBool("lan"); lan {
				if host != "" {
					return fmt.Errorf("--lan and --host are mutually exclusive")
				}
				detected, err := export.DetectLANHost()
				if err != nil {
					return err
				}
				host = detected
			}

			opts := export.Options{Host: host, Port: port}
			if err := export.Write(output, opts); err != nil {
				return err
			}

			if opts.Host == "" {
				opts.Host = export.DefaultHost
			}
			if opts.Port == 0 {
				opts.Port = export.DefaultPort
			}

			t := theme.DefaultTheme
			fmt.Printf("%s %s\n", t.Success.Render("Wrote"), output)
			fmt.Println(t.Muted.Render(fmt.Sprintf("Hooks will publish to tcp://%s:%d", opts.Host, opts.Port)))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "chime-hooks.zip", "Output archive path")
	cmd.Flags().String("host", "", "Broker host baked into the scripts")
	cmd.Flags().Int("port", 0, "Broker port baked into the scripts")
	cmd.Flags().Bool("lan", false, "Use this machine's LAN address as the broker host")

	return cmd
}
