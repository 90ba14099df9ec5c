package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/ui"
)

var stopCmd = &cobra.Command{
	Use:     "stop <session-id>",
	GroupID: GroupSessions,
	Short:   "Stop a session",
	Long: `Stop a session's tmux session and mark it stopped.

Stopping an already-stopped session succeeds; the session record is
kept and remains visible in 'summ list'.`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	result, err := c.Stop(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s Session %s stopped\n", ui.RenderPassIcon(), result.SessionID)
	return nil
}
