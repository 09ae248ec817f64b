package dashboard

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/fileservice"
)

type initDoneMsg struct{ err error }

type generatedMsg struct {
	status app.Status
	err    error
}

type statusResetMsg struct{ seq int }

type dataSetMsg struct{ err error }

type downloadedMsg struct {
	name string
	ok   bool
}

type authMsg struct {
	user string
	err  error
}

type treeMsg struct {
	entries []fileservice.FileEntry
	err     error
}

type actionDoneMsg struct {
	action filemanager.Action
	ok     bool
	// name and text carry a text preview to show.
	name string
	text string
}

var errUnavailable = errors.New("not configured")

func (m *Model) initCmd() tea.Cmd {
	c := m.opts.Controller
	if c == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return initDoneMsg{err: c.Init(ctx)}
	}
}

func (m *Model) generateCmd() tea.Cmd {
	c, ctx := m.opts.Controller, m.ctx
	return func() tea.Msg {
		st, err := c.Generate(ctx)
		return generatedMsg{status: st, err: err}
	}
}

func (m *Model) selectDataSetCmd(name string) tea.Cmd {
	c, ctx := m.opts.Controller, m.ctx
	return func() tea.Msg {
		return dataSetMsg{err: c.SelectDataSet(ctx, name)}
	}
}

func (m *Model) downloadHTMLCmd() tea.Cmd {
	c, sink := m.opts.Controller, m.opts.Sink
	return func() tea.Msg {
		return downloadedMsg{name: download.MapHTMLName, ok: sink != nil && c.DownloadHTML(sink)}
	}
}

func (m *Model) downloadArchiveCmd() tea.Cmd {
	c, sink, ctx := m.opts.Controller, m.opts.Sink, m.ctx
	return func() tea.Msg {
		return downloadedMsg{name: download.MapArchiveName, ok: sink != nil && c.DownloadArchive(ctx, sink)}
	}
}

func (m *Model) authCmd() tea.Cmd {
	a, ctx := m.opts.Auth, m.ctx
	return func() tea.Msg {
		if a == nil {
			return authMsg{err: errUnavailable}
		}
		if err := a.Validate(ctx); err != nil {
			return authMsg{err: err}
		}
		c, err := a.Claims()
		if err != nil {
			return authMsg{err: err}
		}
		return authMsg{user: c.Username}
	}
}

func (m *Model) loadTreeCmd() tea.Cmd {
	src, ctx := m.opts.Files, m.ctx
	return func() tea.Msg {
		if src == nil {
			return treeMsg{err: errUnavailable}
		}
		entries, err := src.Tree(ctx)
		return treeMsg{entries: entries, err: err}
	}
}

// dispatchCmd runs a on a copy of the dispatcher. Text previews are captured
// for the preview pane; pdf previews go to the configured viewer.
func (m *Model) dispatchCmd(a filemanager.Action, picker filemanager.FilePicker) tea.Cmd {
	if m.opts.Dispatcher == nil {
		return nil
	}
	d := *m.opts.Dispatcher
	if picker != nil {
		d.Picker = picker
	}
	capture := &captureViewer{fallback: m.opts.PDFViewer}
	d.Viewer = capture
	if d.Sink == nil {
		d.Sink = m.opts.Sink
	}
	ctx := m.ctx
	m.busy = true
	return func() tea.Msg {
		ok := d.Handle(ctx, a)
		return actionDoneMsg{action: a, ok: ok, name: capture.name, text: capture.text}
	}
}

type captureViewer struct {
	fallback filemanager.Viewer
	name     string
	text     string
}

func (v *captureViewer) Open(name string, kind filemanager.Kind, body []byte) error {
	if kind == filemanager.KindText {
		v.name, v.text = name, string(body)
		return nil
	}
	if v.fallback == nil {
		return errUnavailable
	}
	return v.fallback.Open(name, kind, body)
}
