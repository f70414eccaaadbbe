package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/chime/cli"
	"github.com/grovetools/chime/internal/daemon/pidfile"
	"github.com/grovetools/chime/internal/daemon/server"
	"github.com/grovetools/chime/internal/hub"
	"github.com/grovetools/chime/logging"
	"github.com/grovetools/chime/pkg/client"
	"github.com/grovetools/chime/pkg/paths"
)

// NewHubCmd returns the hub process command with its subcommands.
func NewHubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hub",
		Short: "Manage the chime hub process",
		Long:  "The hub is the background process that receives Claude Code events and delivers desktop notifications.",
	}

	cmd.AddCommand(newHubStartCmd())
	cmd.AddCommand(newHubStopCmd())
	cmd.AddCommand(newHubStatusCmd())
	cmd.AddCommand(newHubRestartCmd())

	return cmd
}

func newHubStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the hub",
		Long: `Start the chime hub. By default the hub is detached into the
background; --foreground keeps it attached to the terminal.

Examples:
  # Start the hub in the background
  chime hub start

  # Run attached, logs on stderr
  chime hub start --foreground`,
		RunE: func(cmd *cobra.Command, args []string) error {
			foreground, _ := cmd.Flags().GetBool("foreground")
			if foreground {
				return runHub(cmd)
			}
			return startDetached(cmd)
		},
	}

	cmd.Flags().Bool("foreground", false, "Run attached to the terminal instead of detaching")

	return cmd
}

// startDetached re-executes the binary with --foreground in its own
// session and waits for the API socket to come up.
func startDetached(cmd *cobra.Command) error {
	if running, pid, _ := pidfile.IsRunning(paths.PidFilePath()); running {
		fmt.Printf("Hub is already running (PID %d)\n", pid)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate chime binary: %w", err)
	}

	args := []string{"hub", "start", "--foreground"}
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		args = append(args, "--config", configFile)
	}

	child := exec.Command(exe, args...)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	child.Stdin = nil
	child.Stdout = nil
	child.Stderr = nil

	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start hub: %w", err)
	}
	// The child is its own session leader now; don't leave a zombie
	// behind when it outlives us.
	go func() { _ = child.Wait() }()

	c := client.NewDefault()
	defer c.Close()
	for i := 0; i < 20; i++ {
		if c.IsRunning() {
			fmt.Printf("Hub started (PID %d)\n", child.Process.Pid)
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}

	return fmt.Errorf("hub did not come up within 5s, check 'chime logs'")
}

// runHub is the hub engine: pidfile, event pipeline, API server, tray.
// It blocks until a stop is requested.
func runHub(cmd *cobra.Command) error {
	logger := logging.NewLogger("hub")
	pidPath := paths.PidFilePath()
	sockPath := paths.SocketPath()

	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	cfg, err := cli.ResolveConfig(cli.GetOptions(cmd))
	if err != nil {
		return err
	}

	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.Errorf("Failed to release pidfile: %v", err)
		}
	}()

	h, err := hub.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("Received stop signal")
		h.RequestStop()
	}()

	if err := h.Start(ctx); err != nil {
		return err
	}

	srv := server.New(h)
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(sockPath); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			h.RequestStop()
		}
	}()

	// Blocks until the tray Quit item, a signal, or a server failure.
	// With a tray this hands the main thread to the tray loop.
	h.RunTray(ctx)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	h.Close()

	select {
	case err := <-srvErr:
		return fmt.Errorf("server error: %w", err)
	default:
		return nil
	}
}

func newHubStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			if !running {
				fmt.Println("Hub is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}

			fmt.Printf("Sent SIGTERM to hub (PID %d)\n", pid)
			return nil
		},
	}
}

func newHubStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the hub is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			if !running {
				fmt.Println("Stopped")
				os.Exit(1) // Non-zero for stopped state, useful for scripts
			}

			fmt.Printf("Running (PID: %d)\nSocket: %s\n", pid, paths.SocketPath())
			return nil
		},
	}
}

func newHubRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()

			if running, pid, _ := pidfile.IsRunning(pidPath); running {
				process, err := os.FindProcess(pid)
				if err != nil {
					return fmt.Errorf("failed to find process %d: %w", pid, err)
				}
				if err := process.Signal(syscall.SIGTERM); err != nil {
					return fmt.Errorf("failed to send stop signal: %w", err)
				}

				// Wait for the old process to let go of the pidfile.
				for i := 0; i < 20; i++ {
					if running, _, _ := pidfile.IsRunning(pidPath); !running {
						break
					}
					time.Sleep(250 * time.Millisecond)
				}
			}

			return startDetached(cmd)
		},
	}
}
