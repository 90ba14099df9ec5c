package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/style"
	"github.com/summ-dev/summ/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	GroupID: GroupSessions,
	Short:   "List sessions",
	Long: `List sessions known to the daemon.

With --status, only sessions whose current effective status matches are
shown (running, idle, or stopped).`,
	RunE: runList,
}

var listStatus string

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status: running, idle, or stopped")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	var filter protocol.SessionStatus
	if listStatus != "" {
		parsed, err := protocol.ParseSessionStatus(listStatus)
		if err != nil {
			return err
		}
		filter = parsed
	}

	c, _, err := newClient()
	if err != nil {
		return err
	}
	infos, err := c.List(filter)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("No sessions.")
		return nil
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})

	tbl := style.NewTable(
		style.Column{Name: "ID", Width: 16},
		style.Column{Name: "NAME", Width: 20},
		style.Column{Name: "CLI", Width: 14},
		style.Column{Name: "STATUS", Width: 8},
		style.Column{Name: "ACTIVITY", Width: 12},
	).SetIndent("")

	for _, info := range infos {
		tbl.AddRow(
			info.SessionID,
			info.Name,
			info.Cli,
			string(info.Status),
			ui.RelativeTime(info.LastActivity),
		)
	}
	fmt.Print(tbl.Render())
	return nil
}
