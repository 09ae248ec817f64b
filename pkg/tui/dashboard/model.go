// Package dashboard hosts the Bubble Tea program behind `firemap ui`: a Map
// tab for building a selection and generating maps, and a Files tab for the
// file service.
package dashboard

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/firemap/pkg/app"
	"tableflip.dev/firemap/pkg/auth"
	"tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/fileservice"
	"tableflip.dev/firemap/pkg/selection"
	"tableflip.dev/firemap/pkg/store"
	"tableflip.dev/firemap/pkg/tui/components/bottombar"
	"tableflip.dev/firemap/pkg/tui/theme"
)

// Controller is the session controller as seen by the dashboard.
type Controller interface {
	Init(ctx context.Context) error
	Reload()
	Toggle(dim selection.Dimension, value string) error
	Clear(dim selection.Dimension) error
	SelectDataSet(ctx context.Context, dataSet string) error
	Generate(ctx context.Context) (app.Status, error)
	ResetStatus()
	DownloadHTML(sink download.Sink) bool
	DownloadArchive(ctx context.Context, sink download.Sink) bool
	Snapshot() app.Snapshot
}

// Watcher reports keys rewritten by other processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Auth checks the stored login.
type Auth interface {
	Validate(ctx context.Context) error
	Claims() (auth.Claims, error)
}

// TreeSource lists the remote files.
type TreeSource interface {
	Tree(ctx context.Context) ([]fileservice.FileEntry, error)
}

// Options wires the dashboard to its collaborators. Watcher, Auth, Files and
// Dispatcher may be nil; the parts that need them are then unavailable.
type Options struct {
	Controller    Controller
	Watcher       Watcher
	Auth          Auth
	Files         TreeSource
	Dispatcher    *filemanager.Dispatcher
	Sink          download.Sink
	PDFViewer     filemanager.Viewer
	StatusDisplay time.Duration
	Theme         theme.Theme
}

type tab int

const (
	tabMap tab = iota
	tabFiles
)

type column int

const (
	colYears column = iota
	colMonths
	colIslands
	colDataSets
	columnCount
)

var columnDims = [...]selection.Dimension{selection.Year, selection.Month, selection.Island}

// Model contains UI state
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	th     theme.Theme

	tab    tab
	width  int
	height int

	snap        app.Snapshot
	col         column
	cursor      [columnCount]int
	generating  bool
	statusSeq   int
	initialized bool

	authChecked bool
	loggedIn    bool
	user        string
	rows        []fileservice.Row
	fileCursor  int
	marked      map[string]bool
	treeLoaded  bool
	busy        bool
	prompting   bool
	input       textinput.Model
	previewName string
	preview     viewport.Model
	previewOpen bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	bottom bottombar.Model
}

// New creates the dashboard model.
func New(opts Options) *Model {
	if opts.StatusDisplay <= 0 {
		opts.StatusDisplay = 3 * time.Second
	}
	th := opts.Theme
	if th.Panel.Frame.GetBorderStyle() == (lipgloss.Border{}) {
		th = theme.Default()
	}
	if opts.PDFViewer == nil {
		opts.PDFViewer = filemanager.TerminalViewer{Dir: os.TempDir()}
	}

	ti := textinput.New()
	ti.Placeholder = "path/to/archive.zip"
	ti.CharLimit = 1024
	ti.Prompt = ""

	vp := viewport.New(viewport.WithWidth(80), viewport.WithHeight(20))

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		th:      th,
		marked:  map[string]bool{},
		input:   ti,
		preview: vp,
		bottom:  bottombar.New(th.Footer),
	}
	if opts.Controller != nil {
		m.snap = opts.Controller.Snapshot()
	}
	m.updateHelp()
	return m
}

// Init loads the catalog and starts watching the store.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd(), startWatchCmd(m.ctx, m.opts.Watcher))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizePreview()

	case tea.KeyPressMsg:
		if cmd, quit := m.handleKey(msg); quit {
			m.stopWatch()
			m.cancel()
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case initDoneMsg:
		m.initialized = true
		m.refresh()
		if msg.err != nil {
			m.bottom.SetStatus("data service unavailable, press r to retry")
		}

	case generatedMsg:
		m.generating = false
		m.refresh()
		if msg.err != nil {
			m.bottom.SetStatus("generate: " + msg.err.Error())
		} else {
			m.bottom.SetStatus("")
		}
		m.statusSeq++
		seq := m.statusSeq
		cmds = append(cmds, tea.Tick(m.opts.StatusDisplay, func(time.Time) tea.Msg {
			return statusResetMsg{seq: seq}
		}))

	case statusResetMsg:
		if msg.seq == m.statusSeq && m.opts.Controller != nil {
			m.opts.Controller.ResetStatus()
			m.refresh()
		}

	case dataSetMsg:
		m.refresh()
		if msg.err != nil {
			m.bottom.SetStatus("catalog refresh failed, showing previous values")
		}

	case downloadedMsg:
		if msg.ok {
			m.bottom.SetStatus("saved " + msg.name)
		} else {
			m.bottom.SetStatus(msg.name + " not saved")
		}

	case authMsg:
		m.authChecked = true
		m.loggedIn = msg.err == nil
		m.user = msg.user
		if m.loggedIn {
			m.bottom.SetContext(m.user)
			cmds = append(cmds, m.loadTreeCmd())
		} else {
			m.bottom.SetContext("")
		}
		m.updateHelp()

	case treeMsg:
		if msg.err != nil {
			m.bottom.SetStatus("file tree: " + msg.err.Error())
			break
		}
		m.remount(msg.entries)

	case actionDoneMsg:
		m.busy = false
		if msg.ok {
			m.bottom.SetStatus(filemanager.Name(msg.action) + " done")
		} else if _, ok := msg.action.(filemanager.Preview); !ok {
			m.bottom.SetStatus(filemanager.Name(msg.action) + " failed")
		}
		if filemanager.Refreshes(msg.action, msg.ok) {
			cmds = append(cmds, m.loadTreeCmd())
		}
		if msg.text != "" {
			m.openPreview(msg.name, msg.text)
		}

	case watchStartedMsg:
		if msg.err != nil {
			break
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())

	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		cmds = append(cmds, m.waitForWatch())

	case watchStoppedMsg:
		m.stopWatch()

	default:
		if m.previewOpen {
			vp, cmd := m.preview.Update(msg)
			m.preview = vp
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return nil, true
	}
	if m.prompting {
		return m.handlePromptKey(msg), false
	}
	if m.previewOpen {
		switch key {
		case "esc", "q":
			m.closePreview()
			return nil, false
		}
		vp, cmd := m.preview.Update(msg)
		m.preview = vp
		return cmd, false
	}
	switch key {
	case "q":
		return nil, true
	case "tab", "shift+tab":
		return m.switchTab(), false
	}
	if m.tab == tabFiles {
		return m.handleFilesKey(key), false
	}
	return m.handleMapKey(key), false
}

func (m *Model) switchTab() tea.Cmd {
	if m.tab == tabMap {
		m.tab = tabFiles
	} else {
		m.tab = tabMap
	}
	m.updateHelp()
	if m.tab == tabFiles && !m.authChecked {
		return m.authCmd()
	}
	return nil
}

func (m *Model) refresh() {
	if m.opts.Controller == nil {
		return
	}
	m.snap = m.opts.Controller.Snapshot()
	for c := colYears; c < columnCount; c++ {
		n := len(m.columnValues(c))
		if m.cursor[c] >= n {
			m.cursor[c] = max(n-1, 0)
		}
	}
}

func (m *Model) updateHelp() {
	switch {
	case m.tab == tabMap:
		m.bottom.SetHelp("←/→ column · j/k move · space toggle · c clear · g generate · h html · z shapes · tab files · q quit")
	case !m.loggedIn:
		m.bottom.SetHelp("tab map · q quit")
	default:
		m.bottom.SetHelp("j/k move · space mark · d delete · s download · u upload · enter preview · r refresh · tab map")
	}
}

// View renders the dashboard.
func (m *Model) View() string {
	var body string
	switch m.tab {
	case tabFiles:
		body = m.filesView()
	default:
		body = m.mapView()
	}
	sections := []string{m.tabsView(), body, m.bottom.View()}
	return strings.Join(sections, "\n")
}

func (m *Model) tabsView() string {
	names := []string{"Map", "Files"}
	parts := make([]string, len(names))
	for i, n := range names {
		if tab(i) == m.tab {
			parts[i] = m.th.Tabs.Active.Render(n)
		} else {
			parts[i] = m.th.Tabs.Inactive.Render(n)
		}
	}
	return m.th.Panel.Title.Render("firemap") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// Run launches the dashboard and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
