package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/style"
	"github.com/summ-dev/summ/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status <session-id>",
	GroupID: GroupSessions,
	Short:   "Show a session's current status",
	Long: `Show one session's detailed status.

The reported status is derived live: the daemon checks the tmux session
and the CLI's latest hook signal at request time.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	detail, err := c.Status(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", detail.SessionID)
	fmt.Printf("  %s    %s\n", style.Label("Name:"), detail.Name)
	fmt.Printf("  %s     %s\n", style.Label("CLI:"), detail.Cli)
	fmt.Printf("  %s  %s\n", style.Label("Status:"), style.Status(detail.Status))
	if detail.PID != nil {
		fmt.Printf("  %s     %d\n", style.Label("PID:"), *detail.PID)
	}
	fmt.Printf("  %s %s (%s)\n", style.Label("Created:"), detail.CreatedAt.Format("2006-01-02 15:04:05"), ui.RelativeTime(detail.CreatedAt))
	fmt.Printf("  %s  %s\n", style.Label("Active:"), ui.RelativeTime(detail.LastActivity))
	fmt.Printf("  %s %s\n", style.Label("Workdir:"), ui.ShortenPath(detail.Workdir))
	return nil
}
