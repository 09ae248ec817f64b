package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/tui/legend"
)

var columnTitles = [...]string{"Years", "Months", "Islands", "Data set"}

func (m *Model) columnValues(c column) []string {
	if c == colDataSets {
		return m.snap.Catalog.DataSets
	}
	return m.snap.Catalog.Values(columnDims[c])
}

func (m *Model) handleMapKey(key string) tea.Cmd {
	c := m.opts.Controller
	if c == nil {
		return nil
	}
	switch key {
	case "left":
		if m.col > colYears {
			m.col--
		}
	case "right":
		if m.col < columnCount-1 {
			m.col++
		}
	case "up", "k":
		if m.cursor[m.col] > 0 {
			m.cursor[m.col]--
		}
	case "down", "j":
		if m.cursor[m.col] < len(m.columnValues(m.col))-1 {
			m.cursor[m.col]++
		}
	case "space", " ", "enter":
		values := m.columnValues(m.col)
		if len(values) == 0 {
			return nil
		}
		v := values[m.cursor[m.col]]
		if m.col == colDataSets {
			m.bottom.SetStatus("loading " + v)
			return m.selectDataSetCmd(v)
		}
		if err := c.Toggle(columnDims[m.col], v); err != nil {
			m.bottom.SetStatus(err.Error())
		}
		m.refresh()
	case "c":
		if m.col == colDataSets {
			return nil
		}
		dim := columnDims[m.col]
		if !dim.Clearable() {
			m.bottom.SetStatus(fmt.Sprintf("%ss cannot be cleared", dim))
			return nil
		}
		if err := c.Clear(dim); err != nil {
			m.bottom.SetStatus(err.Error())
		}
		m.refresh()
	case "g":
		if m.generating || m.snap.Status == app.StatusPending {
			return nil
		}
		m.generating = true
		m.snap.Status = app.StatusPending
		return m.generateCmd()
	case "h":
		return m.downloadHTMLCmd()
	case "z":
		return m.downloadArchiveCmd()
	case "r":
		return m.initCmd()
	}
	return nil
}

func (m *Model) mapView() string {
	cols := make([]string, 0, columnCount)
	for c := colYears; c < columnCount; c++ {
		cols = append(cols, m.columnView(c))
	}
	cols = append(cols, m.th.Panel.Frame.Render(legend.Render(m.th.Panel.Title)))
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	lines := []string{grid}
	if banner := m.statusBanner(); banner != "" {
		lines = append(lines, banner)
	}
	lines = append(lines, m.artifactView())
	return strings.Join(lines, "\n")
}

func (m *Model) columnView(c column) string {
	values := m.columnValues(c)
	var b strings.Builder
	b.WriteString(m.th.Panel.Title.Render(columnTitles[c]))
	if len(values) == 0 {
		b.WriteString("\n" + m.th.Panel.Placeholder.Render("none"))
	}
	start, end := window(len(values), m.cursor[c], m.listHeight())
	for i := start; i < end; i++ {
		v := values[i]
		var mark string
		selected := false
		if c == colDataSets {
			selected = v == m.snap.Selection.DataSet
			mark = "( ) "
			if selected {
				mark = "(*) "
			}
		} else {
			selected = m.snap.Selection.Has(columnDims[c], v)
			mark = "[ ] "
			if selected {
				mark = "[x] "
			}
		}
		line := mark + v
		switch {
		case c == m.col && i == m.cursor[c]:
			line = m.th.List.Cursor.Render(line)
		case selected:
			line = m.th.List.Selected.Render(line)
		}
		b.WriteString("\n" + line)
	}
	frame := m.th.Panel.Frame
	if c == m.col {
		frame = m.th.Panel.FocusFrame
	}
	return frame.Render(b.String())
}

func (m *Model) statusBanner() string {
	switch m.snap.Status {
	case app.StatusPending:
		return m.th.Status.Pending.Render("Generating map…")
	case app.StatusSuccess:
		return m.th.Status.Success.Render("Map ready")
	case app.StatusError:
		return m.th.Status.Error.Render("Map generation failed")
	}
	return ""
}

func (m *Model) artifactView() string {
	meta := m.th.List.Meta
	session := m.snap.SessionID
	if session == "" {
		session = "unassigned"
	}
	a := m.snap.Artifact
	switch {
	case a.Empty():
		return meta.Render("session " + session + " · no map yet")
	case a.Ref == "":
		return meta.Render(fmt.Sprintf("session %s · previous map (%d bytes)", session, len(a.Document)))
	}
	return meta.Render(fmt.Sprintf("session %s · map ready (%d bytes, h html, z shapes)", session, len(a.Ref)))
}

// listHeight is the number of rows a list may show.
func (m *Model) listHeight() int {
	if m.height == 0 {
		return 12
	}
	return max(m.height-10, 3)
}

// window returns the [start, end) slice of n rows to show around cursor.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
