package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/ui"
)

var startCmd = &cobra.Command{
	Use:     "start",
	GroupID: GroupSessions,
	Short:   "Start a new supervised CLI session",
	Long: `Start a new CLI session under the daemon.

The workspace is materialized from the --init source, which may be a
directory (copied), a .zip archive, or a .tar.gz/.tgz archive
(extracted). The CLI is launched inside the workspace in a detached
tmux session.

Examples:
  summ start --cli claude --init ./myproject
  summ start --cli claude --init snapshot.tar.gz --name reviewer`,
	RunE: runStart,
}

var (
	startCli  string
	startInit string
	startName string
)

func init() {
	startCmd.Flags().StringVar(&startCli, "cli", "", "CLI command to run (required)")
	startCmd.Flags().StringVar(&startInit, "init", "", "workspace initialization source: directory, .zip, or .tar.gz (required)")
	startCmd.Flags().StringVar(&startName, "name", "", "display name (defaults to the session ID)")
	_ = startCmd.MarkFlagRequired("cli")
	_ = startCmd.MarkFlagRequired("init")

	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}

	// The daemon resolves relative paths against its own cwd, not ours.
	initPath, err := filepath.Abs(startInit)
	if err != nil {
		return fmt.Errorf("resolving init path: %w", err)
	}

	result, err := c.Start(startCli, initPath, startName)
	if err != nil {
		return err
	}

	fmt.Printf("%s Session started\n", ui.RenderPassIcon())
	fmt.Printf("  ID:        %s\n", result.SessionID)
	fmt.Printf("  Name:      %s\n", result.Name)
	fmt.Printf("  Workspace: %s\n", ui.ShortenPath(filepath.Join(result.Workdir, "workspace")))
	fmt.Printf("\n  Attach with: summ attach %s\n", result.SessionID)
	return nil
}
