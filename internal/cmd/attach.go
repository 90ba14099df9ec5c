package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/protocol"
)

var attachCmd = &cobra.Command{
	Use:     "attach <session-id>",
	GroupID: GroupSessions,
	Short:   "Attach your terminal to a session",
	Long: `Attach the current terminal to a session's tmux session.

Inside an existing tmux client this switches the client instead of
nesting. Detach with the usual tmux binding (prefix + d); the session
keeps running.`,
	Args: cobra.ExactArgs(1),
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
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

	target := cfg.TmuxSessionName(detail.SessionID)

	// Nesting tmux clients fails; switch the current client instead.
	var tmuxCmd *exec.Cmd
	if os.Getenv("TMUX") != "" {
		tmuxCmd = exec.Command("tmux", "switch-client", "-t", target)
	} else {
		tmuxCmd = exec.Command("tmux", "attach-session", "-t", target)
	}
	tmuxCmd.Stdin = os.Stdin
	tmuxCmd.Stdout = os.Stdout
	tmuxCmd.Stderr = os.Stderr
	return tmuxCmd.Run()
}
