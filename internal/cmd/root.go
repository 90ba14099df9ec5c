// Package cmd provides the summ CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "summ",
	Short:   "summ - background supervisor for interactive CLI sessions",
	Version: Version,
	Long: `summ supervises interactive CLI assistants (such as Claude) in
detached tmux sessions.

A background daemon owns the sessions: it materializes per-session
workspaces, launches the CLI under tmux, tracks each session's status
through lifecycle hooks, and survives restarts by re-adopting live
sessions. The summ commands talk to the daemon over a local socket.`,
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupSessions = "sessions"
	GroupServices = "services"
	GroupDiag     = "diag"
)

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupSessions, Title: "Session Management:"},
		&cobra.Group{ID: GroupServices, Title: "Services:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupDiag)
}

// buildCommandPath walks the command hierarchy to build the full command
// path, e.g. "summ daemon start".
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand returns a RunE for parent commands that require a
// subcommand. Without this, Cobra silently shows help and exits 0 for
// unknown subcommands like "summ daemon foobar", masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}
