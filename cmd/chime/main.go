package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/chime/cli"
	"github.com/grovetools/chime/cmd"
	"github.com/grovetools/chime/pkg/profiling"
	"github.com/grovetools/chime/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"chime",
		"Desktop notifications for Claude Code sessions",
	)
	rootCmd.Version = version.Short()

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(rootCmd)
	rootCmd.PersistentPreRunE = profiler.PreRun
	rootCmd.PersistentPostRun = profiler.PostRun

	rootCmd.AddCommand(cmd.NewHubCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewSessionsCmd())
	rootCmd.AddCommand(cmd.NewHistoryCmd())
	rootCmd.AddCommand(cmd.NewDashboardCmd())
	rootCmd.AddCommand(cmd.NewPublishCmd())
	rootCmd.AddCommand(cmd.NewExportCmd())
	rootCmd.AddCommand(cmd.NewTestCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	cli.ApplyStyledHelpRecursive(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		_ = cli.NewErrorHandler(verbose).Handle(err)
		stop()
		os.Exit(1)
	}
}
