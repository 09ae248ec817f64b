// Package theme centralizes Lip Gloss styles for the dashboard.
package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Theme groups every style the dashboard renders with.
type Theme struct {
	Dark   bool
	Footer FooterTheme
	Panel  PanelTheme
	Tabs   TabTheme
	Status StatusTheme
	List   ListTheme
}

// FooterTheme styles the bottom help/status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame       lipgloss.Style
	FocusFrame  lipgloss.Style
	Title       lipgloss.Style
	Body        lipgloss.Style
	Placeholder lipgloss.Style
}

type TabTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
}

// StatusTheme styles the generation banner.
type StatusTheme struct {
	Pending lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// ListTheme styles checkbox and file rows.
type ListTheme struct {
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Dir      lipgloss.Style
	Meta     lipgloss.Style
}

// Detect picks a theme for the terminal's background.
func Detect() Theme {
	return ForBackground(termenv.HasDarkBackground())
}

// Default returns the dark theme.
func Default() Theme {
	return ForBackground(true)
}

// ForBackground returns the theme for a dark or light terminal.
func ForBackground(dark bool) Theme {
	fg, faint, accent := lipgloss.Color("252"), lipgloss.Color("244"), lipgloss.Color("212")
	if !dark {
		fg, faint, accent = lipgloss.Color("235"), lipgloss.Color("242"), lipgloss.Color("161")
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(faint).
		Padding(0, 1)

	return Theme{
		Dark: dark,
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(faint),
		},
		Panel: PanelTheme{
			Frame:       frame,
			FocusFrame:  frame.BorderForeground(accent),
			Title:       lipgloss.NewStyle().Bold(true).Foreground(fg),
			Body:        lipgloss.NewStyle().Foreground(fg),
			Placeholder: lipgloss.NewStyle().Foreground(faint).Italic(true),
		},
		Tabs: TabTheme{
			Active:   lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true).Padding(0, 1),
			Inactive: lipgloss.NewStyle().Foreground(faint).Padding(0, 1),
		},
		Status: StatusTheme{
			Pending: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
		List: ListTheme{
			Cursor:   lipgloss.NewStyle().Reverse(true),
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Dir:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			Meta:     lipgloss.NewStyle().Foreground(faint),
		},
	}
}
