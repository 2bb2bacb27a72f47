package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner.
type tickMsg time.Time

const (
	modColWidth    = 28
	statusColWidth = 9
	detailColWidth = 40
)

// modRow is one selection's line in the table.
type modRow struct {
	key    string
	name   string
	status string
	detail string
}

// ActivationModel renders the activation pipeline as a mod/status/detail
// table with a stage footer. Rows are fixed up front; background work mutates
// them through messages.
type ActivationModel struct {
	rows     []modRow
	rowIndex map[string]int
	stage    string
	done     bool
	err      error

	tick int
}

// NewActivationModel creates a model pre-populated with pending rows, one per
// selection, keyed so later updates find them.
func NewActivationModel(keys, names []string) ActivationModel {
	m := ActivationModel{
		rowIndex: make(map[string]int, len(keys)),
		stage:    "importing mods",
	}
	for i, key := range keys {
		m.rowIndex[key] = len(m.rows)
		m.rows = append(m.rows, modRow{key: key, name: names[i], status: "pending"})
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m ActivationModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m ActivationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case RowUpdateMsg:
		if idx, ok := m.rowIndex[msg.Key]; ok {
			m.rows[idx].status = msg.Status
			m.rows[idx].detail = msg.Detail
		}
		return m, nil

	case StageMsg:
		m.stage = msg.Stage
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m ActivationModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder

	b.WriteString(HeaderStyle.Render(pad("MOD", modColWidth)))
	b.WriteString("  ")
	b.WriteString(HeaderStyle.Render(pad("STATUS", statusColWidth)))
	b.WriteString("  ")
	b.WriteString(HeaderStyle.Render("DETAIL"))
	b.WriteByte('\n')

	for _, row := range m.rows {
		b.WriteString(pad(Truncate(row.name, modColWidth), modColWidth))
		b.WriteString("  ")
		b.WriteString(StatusStyle(row.status).Render(pad(row.status, statusColWidth)))
		b.WriteString("  ")
		b.WriteString(Truncate(NonEmptyOrDash(row.detail), detailColWidth))
		b.WriteByte('\n')
	}

	if !m.done {
		resolved, total := m.progress()
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s %s (%d/%d)\n", spinner, m.stage, resolved, total)
	}

	return b.String()
}

// progress counts rows that have left the pending state.
func (m ActivationModel) progress() (int, int) {
	resolved := 0
	for _, row := range m.rows {
		if row.status != "" && row.status != "pending" {
			resolved++
		}
	}
	return resolved, len(m.rows)
}

// Done reports whether the model has finished (work done or error).
func (m ActivationModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m ActivationModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate shortens a string to max bytes, marking the cut with "...".
func Truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
