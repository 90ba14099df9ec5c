package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/summ-dev/summ/internal/client"
	"github.com/summ-dev/summ/internal/protocol"
	"github.com/summ-dev/summ/internal/ui"
)

// watchPollInterval is how often the dashboard refreshes from the daemon.
const watchPollInterval = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: GroupSessions,
	Short:   "Live session dashboard",
	Long: `Show a live-updating table of all sessions.

The view polls the daemon every two seconds. Press q to quit.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("watch needs a terminal; use 'summ list' for scripted output")
	}

	c, _, err := newClient()
	if err != nil {
		return err
	}

	m := newWatchModel(c)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type sessionsMsg []protocol.SessionInfo

type watchErrMsg struct{ err error }

type watchTickMsg time.Time

type watchModel struct {
	client *client.Client
	table  table.Model
	err    error
}

func newWatchModel(c *client.Client) watchModel {
	columns := []table.Column{
		{Title: "ID", Width: 16},
		{Title: "Name", Width: 20},
		{Title: "CLI", Width: 14},
		{Title: "Status", Width: 8},
		{Title: "Activity", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder())
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return watchModel{client: c, table: t}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.fetchSessions, watchTick())
}

func watchTick() tea.Cmd {
	return tea.Tick(watchPollInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) fetchSessions() tea.Msg {
	infos, err := m.client.List("")
	if err != nil {
		return watchErrMsg{err}
	}
	return sessionsMsg(infos)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case watchTickMsg:
		return m, tea.Batch(m.fetchSessions, watchTick())

	case sessionsMsg:
		m.err = nil
		infos := []protocol.SessionInfo(msg)
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		})
		rows := make([]table.Row, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, table.Row{
				info.SessionID,
				info.Name,
				info.Cli,
				string(info.Status),
				ui.RelativeTime(info.LastActivity),
			})
		}
		m.table.SetRows(rows)

	case watchErrMsg:
		m.err = msg.err

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 4)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("summ sessions")
	footer := lipgloss.NewStyle().Faint(true).Render("q: quit")
	if m.err != nil {
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("daemon unreachable: %v", m.err))
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n", header, m.table.View(), footer)
}
