package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/ui"
)

var injectCmd = &cobra.Command{
	Use:     "inject <session-id> <message...>",
	GroupID: GroupSessions,
	Short:   "Type a message into a session",
	Long: `Inject a message into a live session, as if typed at its prompt.

The message is delivered through tmux send-keys followed by Enter.
Injection into a stopped session fails.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	message := strings.Join(args[1:], " ")
	result, err := c.Inject(args[0], message)
	if err != nil {
		return err
	}
	fmt.Printf("%s Message injected into %s\n", ui.RenderPassIcon(), result.SessionID)
	return nil
}
