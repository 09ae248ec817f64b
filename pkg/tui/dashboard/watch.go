package dashboard

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/firemap/pkg/store"
)

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, w Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// handleWatchEvent reloads the selection when another process changed it. An
// empty key means the watcher lost track and everything is reread.
func (m *Model) handleWatchEvent(ev store.Event) {
	if m.opts.Controller == nil {
		return
	}
	if ev.Key != "" && ev.Key != store.KeySessionID && !slices.Contains(store.SelectionKeys, ev.Key) {
		return
	}
	m.opts.Controller.Reload()
	m.refresh()
}
