package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/config"
	"github.com/summ-dev/summ/internal/daemon"
	"github.com/summ-dev/summ/internal/ui"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: GroupServices,
	Short:   "Manage the summ daemon",
	RunE:    requireSubcommand,
	Long: `Manage the summ background daemon.

The daemon owns all sessions: it listens on a local socket for commands,
watches session status every few seconds, and re-adopts live tmux
sessions after a restart. Session tmux sessions outlive the daemon.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Long: `Start the summ daemon in the background.

The daemon runs until stopped with 'summ daemon stop'.`,
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Long: `Stop the running summ daemon.

Hosted tmux sessions are left running and will be re-adopted by the
next daemon.`,
	RunE: runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	RunE:  runDaemonLogs,
}

var daemonRunCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run daemon in foreground (internal)",
	Hidden: true,
	RunE:   runDaemonRun,
}

var (
	daemonLogLines  int
	daemonLogFollow bool
)

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonLogsCmd)
	daemonCmd.AddCommand(daemonRunCmd)

	daemonLogsCmd.Flags().IntVarP(&daemonLogLines, "lines", "n", 50, "Number of lines to show")
	daemonLogsCmd.Flags().BoolVarP(&daemonLogFollow, "follow", "f", false, "Follow log output")

	rootCmd.AddCommand(daemonCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if pid, running := daemon.IsRunning(cfg); running {
		return fmt.Errorf("daemon already running (PID %d)", pid)
	}

	summPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding executable: %w", err)
	}

	// The daemon process is 'summ daemon run', detached into its own
	// session so it survives this terminal.
	proc := exec.Command(summPath, "daemon", "run")
	proc.Stdin = nil
	proc.Stdout = nil
	proc.Stderr = nil
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := proc.Start(); err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}

	// Give it a moment to initialize and take the lock.
	time.Sleep(200 * time.Millisecond)

	pid, running := daemon.IsRunning(cfg)
	if !running {
		return fmt.Errorf("daemon failed to start (check logs with 'summ daemon logs')")
	}

	// If a concurrent start won the race, our process lost the lock and
	// exited; the PID file names the winner.
	if pid != proc.Process.Pid {
		fmt.Printf("%s Daemon already running (PID %d)\n", ui.RenderWarnIcon(), pid)
		return nil
	}

	fmt.Printf("%s Daemon started (PID %d, v%s)\n", ui.RenderPassIcon(), pid, Version)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pid, running := daemon.IsRunning(cfg)
	if !running {
		return fmt.Errorf("daemon is not running")
	}

	if err := daemon.StopDaemon(cfg); err != nil {
		return fmt.Errorf("stopping daemon: %w", err)
	}

	fmt.Printf("%s Daemon stopped (was PID %d)\n", ui.RenderPassIcon(), pid)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pid, running := daemon.IsRunning(cfg)
	if !running {
		fmt.Printf("%s Daemon not running\n", ui.RenderMuted("○"))
		fmt.Println()
		fmt.Printf("  Start with: summ daemon start\n")
		return nil
	}

	fmt.Printf("%s Daemon running (PID %d)\n", ui.RenderPassIcon(), pid)

	// The daemon itself is the authority on version and session count.
	c, _, err := newClient()
	if err == nil {
		if status, err := c.DaemonStatus(); err == nil {
			fmt.Println()
			fmt.Printf("  Version:   %s\n", status.Version)
			fmt.Printf("  Sessions:  %d\n", status.SessionCount)
		}
	}
	fmt.Printf("  Socket:    %s\n", ui.ShortenPath(cfg.SocketPath))
	fmt.Printf("  Log:       %s\n", ui.ShortenPath(cfg.DaemonLogPath()))
	return nil
}

func runDaemonLogs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile := cfg.DaemonLogPath()
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("no log file found at %s", logFile)
	}

	if daemonLogFollow {
		tailCmd := exec.Command("tail", "-f", logFile)
		tailCmd.Stdout = os.Stdout
		tailCmd.Stderr = os.Stderr
		return tailCmd.Run()
	}

	tailCmd := exec.Command("tail", "-n", fmt.Sprintf("%d", daemonLogLines), logFile)
	tailCmd.Stdout = os.Stdout
	tailCmd.Stderr = os.Stderr
	return tailCmd.Run()
}

func runDaemonRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	d := daemon.New(cfg, Version)
	if err := d.Run(context.Background()); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return fmt.Errorf("daemon already running")
		}
		return err
	}
	return nil
}
