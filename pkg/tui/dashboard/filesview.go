package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/tui/components/bottombar"
)

// remount rebuilds the file list from scratch.
func (m *Model) remount(entries []fileservice.FileEntry) {
	m.rows = fileservice.Flatten(entries)
	m.fileCursor = 0
	m.marked = map[string]bool{}
	m.treeLoaded = true
}

func (m *Model) handleFilesKey(key string) tea.Cmd {
	if !m.loggedIn {
		if key == "r" {
			m.authChecked = false
			return m.authCmd()
		}
		return nil
	}
	switch key {
	case "up", "k":
		if m.fileCursor > 0 {
			m.fileCursor--
		}
	case "down", "j":
		if m.fileCursor < len(m.rows)-1 {
			m.fileCursor++
		}
	case "space", " ":
		if e, ok := m.current(); ok {
			m.marked[e.ID] = !m.marked[e.ID]
			if !m.marked[e.ID] {
				delete(m.marked, e.ID)
			}
		}
	case "r":
		return m.loadTreeCmd()
	}
	if m.busy {
		return nil
	}
	switch key {
	case "d":
		return m.dispatchCmd(filemanager.ParseAction("delete", m.selected()), nil)
	case "s":
		return m.dispatchCmd(filemanager.ParseAction("download", m.selected()), nil)
	case "enter":
		e, ok := m.current()
		if !ok || e.IsDir {
			return nil
		}
		return m.dispatchCmd(filemanager.Preview{File: e}, nil)
	case "u":
		m.prompting = true
		m.input.Reset()
		m.bottom.SetMode(bottombar.ModePrompt)
		m.bottom.UpdatePrompt("upload .zip: ", m.input.View())
		return m.input.Focus()
	}
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.endPrompt()
		m.bottom.SetStatus("upload cancelled")
		return nil
	case "enter":
		path := m.input.Value()
		m.endPrompt()
		return m.dispatchCmd(filemanager.Upload{}, filemanager.PathPicker{Path: path})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.bottom.UpdatePrompt("upload .zip: ", m.input.View())
	return cmd
}

func (m *Model) endPrompt() {
	m.prompting = false
	m.input.Blur()
	m.bottom.SetMode(bottombar.ModeNormal)
}

func (m *Model) current() (fileservice.FileEntry, bool) {
	if m.fileCursor < 0 || m.fileCursor >= len(m.rows) {
		return fileservice.FileEntry{}, false
	}
	return m.rows[m.fileCursor].Entry, true
}

// selected returns the marked entries, or the entry under the cursor when
// nothing is marked.
func (m *Model) selected() []fileservice.FileEntry {
	var out []fileservice.FileEntry
	for _, r := range m.rows {
		if m.marked[r.Entry.ID] {
			out = append(out, r.Entry)
		}
	}
	if len(out) == 0 {
		if e, ok := m.current(); ok {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) openPreview(name, text string) {
	m.previewName = name
	m.previewOpen = true
	m.resizePreview()
	m.preview.SetContent(text)
	m.preview.SetYOffset(0)
}

func (m *Model) closePreview() {
	m.previewOpen = false
	m.previewName = ""
	m.preview.SetContent("")
}

func (m *Model) resizePreview() {
	w, h := m.width-4, m.height-6
	if m.width == 0 {
		w, h = 76, 18
	}
	m.preview.SetWidth(max(w, 10))
	m.preview.SetHeight(max(h, 3))
}

func (m *Model) filesView() string {
	placeholder := m.th.Panel.Placeholder
	switch {
	case !m.authChecked:
		return placeholder.Render("checking login…")
	case !m.loggedIn:
		return m.th.Panel.Frame.Render(m.th.Status.Error.Render("login required") + "\n" +
			placeholder.Render("run `firemap login`, then press r"))
	case m.previewOpen:
		return m.th.Panel.FocusFrame.Render(m.th.Panel.Title.Render(m.previewName) + "\n" + m.preview.View())
	case !m.treeLoaded:
		return placeholder.Render("loading files…")
	}

	var b strings.Builder
	b.WriteString(m.th.Panel.Title.Render(fmt.Sprintf("Files (%d)", len(m.rows))))
	if len(m.rows) == 0 {
		b.WriteString("\n" + placeholder.Render("none"))
	}
	start, end := window(len(m.rows), m.fileCursor, m.listHeight())
	for i := start; i < end; i++ {
		r := m.rows[i]
		e := r.Entry
		mark := "  "
		if m.marked[e.ID] {
			mark = "• "
		}
		name := strings.Repeat("  ", r.Depth) + e.Name
		if e.IsDir {
			name = m.th.List.Dir.Render(name + "/")
		}
		line := mark + name
		if !e.IsDir && e.ModDate != "" {
			line += "  " + m.th.List.Meta.Render(e.ModDate)
		}
		if i == m.fileCursor {
			line = m.th.List.Cursor.Render(mark + strings.Repeat("  ", r.Depth) + e.Name)
		}
		b.WriteString("\n" + line)
	}
	return m.th.Panel.Frame.Render(b.String())
}
