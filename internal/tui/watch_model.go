package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = 5 * time.Second

// WatchModel renders a user's active timer. The server is only asked for the
// timer state every few seconds; between polls the elapsed display is
// recomputed locally from the timer's start time.
type WatchModel struct {
	width  int
	height int

	client  *apiClient
	state   *timerState
	pollErr error

	spinner spinner.Model
}

// tickMsg is sent every second to refresh the elapsed display
type tickMsg struct{}

// pollTickMsg schedules the next server poll
type pollTickMsg struct{}

// pollResultMsg carries the latest server state
type pollResultMsg struct {
	state *timerState
	err   error
}

// NewWatchModel creates a new watch TUI model
func NewWatchModel(client *apiClient) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return WatchModel{
		client:  client,
		spinner: sp,
	}
}

// Init starts the local ticker, the poll loop and the spinner
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return tickMsg{}
		}),
		m.poll(),
		m.spinner.Tick,
	)
}

// poll fetches the current timer from the server
func (m WatchModel) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		state, err := client.CurrentTimer()
		return pollResultMsg{state: state, err: err}
	}
}

// Update handles messages
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return tickMsg{}
		})

	case pollResultMsg:
		if msg.err != nil {
			m.pollErr = msg.err
		} else {
			m.pollErr = nil
			m.state = msg.state
		}
		return m, tea.Tick(pollInterval, func(t time.Time) tea.Msg {
			return pollTickMsg{}
		})

	case pollTickMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}
	}

	return m, nil
}

// View renders the watch panel
func (m WatchModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))

	var body string
	switch {
	case m.pollErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		body = errStyle.Render(fmt.Sprintf("Connection error: %v", m.pollErr))
	case m.state == nil:
		body = m.spinner.View() + labelStyle.Render(" Connecting...")
	case !m.state.Running:
		idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
		body = idleStyle.Render("No active timer")
	default:
		elapsed := time.Since(m.state.StartedAt)
		body = lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render("Tracking ")+valueStyle.Render(m.state.TaskTitle),
			labelStyle.Render("Started  ")+valueStyle.Render(m.state.StartedAt.Format("15:04:05")),
			labelStyle.Render("Elapsed  ")+valueStyle.Render(formatElapsed(elapsed)),
		)
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("stamm watch"),
			"",
			body,
			"",
			helpStyle.Render("r: refresh • q: quit"),
		))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

// formatElapsed renders a duration as hh:mm:ss
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// RunWatchTUI starts the interactive watch view against a running server
func RunWatchTUI(serverURL, token string) error {
	model := NewWatchModel(newAPIClient(serverURL, token))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
