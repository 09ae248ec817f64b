package bottombar

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/firemap/pkg/tui/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
)

// Model tracks footer/help/status rendering state.
type Model struct {
	mode       Mode
	helpLine   string
	statusLine string
	context    string
	promptView string

	helpStyle   lipgloss.Style
	statusStyle lipgloss.Style
}

// New returns a footer styled by th.
func New(th theme.FooterTheme) Model {
	return Model{
		mode:        ModeNormal,
		helpStyle:   th.Help,
		statusStyle: th.Status,
	}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	m.mode = mode
	if mode != ModePrompt {
		m.promptView = ""
	}
}

// Mode returns the current mode.
func (m Model) Mode() Mode { return m.mode }

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// Status returns the current status message.
func (m Model) Status() string { return m.statusLine }

// SetContext sets the trailing segment, e.g. the logged in user.
func (m *Model) SetContext(ctx string) {
	m.context = ctx
}

// UpdatePrompt sets the rendered prompt line.
func (m *Model) UpdatePrompt(label, view string) {
	m.promptView = label + view
}

// View renders the footer.
func (m Model) View() string {
	if m.mode == ModePrompt {
		var lines []string
		if m.statusLine != "" {
			lines = append(lines, m.statusStyle.Render(m.statusLine))
		}
		return strings.Join(append(lines, m.promptView), "\n")
	}
	var segments []string
	if m.helpLine != "" {
		segments = append(segments, m.helpStyle.Render(m.helpLine))
	}
	if m.statusLine != "" {
		segments = append(segments, m.statusStyle.Render(m.statusLine))
	}
	if m.context != "" {
		segments = append(segments, m.statusStyle.Render(m.context))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	return strings.Count(m.View(), "\n") + 1
}
