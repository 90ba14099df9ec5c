package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/tmux"
)

var peekCmd = &cobra.Command{
	Use:     "peek <session-id>",
	GroupID: GroupSessions,
	Short:   "Show a session's recent terminal output",
	Long: `Print the last lines of a session's terminal without attaching.

Output comes straight from the tmux pane, scrollback included, so it
works even while the CLI is mid-response.`,
	Args: cobra.ExactArgs(1),
	RunE: runPeek,
}

var peekLines int

func init() {
	peekCmd.Flags().IntVarP(&peekLines, "lines", "n", 50, "Number of scrollback lines to include")
	rootCmd.AddCommand(peekCmd)
}

func runPeek(cmd *cobra.Command, args []string) error {
	c, cfg, err := newClient()
	if err != nil {
		return err
	}

	detail, err := c.Status(args[0])
	if err != nil {
		return err
	}
	if detail.Status == protocol.StatusStopped {
		return fmt.Errorf("session %s is stopped", detail.SessionID)
	}

	out, err := tmux.NewTmux().CapturePane(cfg.TmuxSessionName(detail.SessionID), peekLines)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
