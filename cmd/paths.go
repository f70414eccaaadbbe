package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/pkg/paths"
)

// PathsOutput lists every filesystem location chime uses.
type PathsOutput struct {
	ConfigFile string `json:"config_file"`
	ConfigDir  string `json:"config_dir"`
	DataDir    string `json:"data_dir"`
	StateDir   string `json:"state_dir"`
	CacheDir   string `json:"cache_dir"`
	Socket     string `json:"socket"`
	PidFile    string `json:"pid_file"`
	LogFile    string `json:"log_file"`
	HistoryDB  string `json:"history_db"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the filesystem paths chime uses",
		Long: `Prints every path chime reads or writes, in JSON. The layout follows
the XDG Base Directory Specification; setting CHIME_HOME moves the whole
tree under one directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigFile: paths.ConfigFile(),
				ConfigDir:  paths.ConfigDir(),
				DataDir:    paths.DataDir(),
				StateDir:   paths.StateDir(),
				CacheDir:   paths.CacheDir(),
				Socket:     paths.SocketPath(),
				PidFile:    paths.PidFilePath(),
				LogFile:    paths.LogFile(),
				HistoryDB:  paths.HistoryDBPath(),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}
}
