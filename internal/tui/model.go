package tui

import (
	"fmt"
	"image"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Mr-Dark-debug/traceviewer/internal/analysis"
	"github.com/Mr-Dark-debug/traceviewer/internal/config"
	"github.com/Mr-Dark-debug/traceviewer/internal/session"
	"github.com/Mr-Dark-debug/traceviewer/internal/timeline"
	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
	"github.com/Mr-Dark-debug/traceviewer/internal/viewport"
)

// ────────────────────────────────────────────────────────────
// Screens
// ────────────────────────────────────────────────────────────

// Screen is what the body of the window shows.
type Screen int

const (
	ScreenRecent Screen = iota
	ScreenTimeline
)

const (
	headerHeight = 1
	footerHeight = 1
	detailHeight = 3 // top rule + two lines
)

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model of the trace viewer.
// It owns the open trace and its viewport state; rendering is
// delegated to component functions in separate files.
type Model struct {
	store  session.Store
	cfg    config.Config
	log    *zap.Logger
	keys   keyMap
	help   help.Model
	layout timeline.Layout

	// Open trace
	path     string
	ix       *trace.Index
	stats    map[int32]analysis.FunctionStats
	st       viewport.State
	rowDelta int // first row shown below the ruler
	hover    string
	dragging bool

	// Recent list
	screen         Screen
	initialPath    string
	recent         []*session.View
	selectedRecent int

	width  int
	height int

	statusMsg string
	err       error
}

// NewModel creates a viewer backed by store. When path is empty it
// starts on the list of recently opened traces.
func NewModel(store session.Store, cfg config.Config, log *zap.Logger, path string) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		store:       store,
		cfg:         cfg,
		log:         log,
		keys:        defaultKeyMap(),
		help:        help.New(),
		layout:      timeline.CellLayout(),
		st:          viewport.NewState(),
		initialPath: path,
		statusMsg:   "Loading...",
	}
}

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type recentLoadedMsg []*session.View

type traceLoadedMsg struct {
	path  string
	ix    *trace.Index
	stats []analysis.FunctionStats
	view  *session.View
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	if m.initialPath != "" {
		return m.openTrace(m.initialPath)
	}
	return m.loadRecent()
}

func (m Model) loadRecent() tea.Cmd {
	return func() tea.Msg {
		views, err := m.store.Recent(100)
		if err != nil {
			return errMsg{err}
		}
		return recentLoadedMsg(views)
	}
}

// openTrace decodes path, records the open with its diagnostics, and
// fetches the view saved for it.
func (m Model) openTrace(path string) tea.Cmd {
	return func() tea.Msg {
		key, err := session.Key(path)
		if err != nil {
			return errMsg{err}
		}
		ix, err := trace.Open(key, trace.WithLogger(m.log), trace.WithColorSeed(m.cfg.ColorSeed))
		if err != nil {
			return errMsg{err}
		}
		if err := m.store.MarkOpened(key, ix.FunctionCount(), len(ix.Events())); err != nil {
			return errMsg{err}
		}
		if err := m.store.SaveDiagnostics(key, ix.Diagnostics()); err != nil {
			return errMsg{err}
		}
		view, err := m.store.LoadView(key)
		if err != nil {
			return errMsg{err}
		}
		return traceLoadedMsg{
			path:  key,
			ix:    ix,
			stats: analysis.NewAnalyzer(ix).FunctionStats(),
			view:  view,
		}
	}
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case recentLoadedMsg:
		m.recent = []*session.View(msg)
		m.selectedRecent = clamp(m.selectedRecent, 0, max(0, len(m.recent)-1))
		m.statusMsg = fmt.Sprintf("%d recent traces", len(m.recent))
		return m, nil

	case traceLoadedMsg:
		m.saveView()
		m.showTrace(msg)
		return m, nil

	case errMsg:
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		m.log.Error("command failed", zap.Error(msg.err))
		return m, nil
	}

	return m, nil
}

// showTrace makes msg the open trace. The saved view is applied only
// from the second open on; a first open uses the configured defaults.
func (m *Model) showTrace(msg traceLoadedMsg) {
	m.path = msg.path
	m.ix = msg.ix
	m.stats = make(map[int32]analysis.FunctionStats, len(msg.stats))
	for _, s := range msg.stats {
		m.stats[s.FunctionID] = s
	}

	m.st = viewport.NewState()
	m.st.SetZoom(m.cfg.DefaultZoom)
	m.st.ShowDetails = m.cfg.ShowDetails
	m.err = nil
	m.statusMsg = ""
	if msg.view.OpenCount > 1 {
		if err := msg.view.Restore(&m.st, m.ix); err != nil {
			m.log.Warn("saved view not applied", zap.String("path", m.path), zap.Error(err))
			m.statusMsg = "Saved row order no longer matches the trace"
		}
	}
	m.st.LeftColWidth = viewport.LeftColumnWidth(m.ix.Functions().Names(), termMetrics{})

	m.hover = ""
	m.dragging = false
	m.rowDelta = 0
	m.screen = ScreenTimeline
	m.resize()
	m.scrollToSelectedRow()
}

// saveView stores the view of the open trace, if any. Failures are
// logged and shown; they never block quitting or switching.
func (m *Model) saveView() {
	if m.ix == nil {
		return
	}
	if err := m.store.SaveView(session.Capture(m.path, m.st, m.ix)); err != nil {
		m.log.Error("saving view", zap.String("path", m.path), zap.Error(err))
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}
}

// handleKey routes keyboard input based on the current screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {

	// ── Global ──

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveView()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	if m.screen == ScreenRecent {
		return m.handleRecentKey(msg)
	}

	// ── Timeline ──

	rows := m.ix.FunctionCount()
	limit := m.panLimit()
	unit, block := m.st.ScrollIncrements()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.saveView()
		m.screen = ScreenRecent
		return m, m.loadRecent()

	case key.Matches(msg, m.keys.RowUp):
		if m.st.SelectedRow >= 0 {
			m.st.SelectedRow = m.ix.MoveRowUp(m.st.SelectedRow)
		}
	case key.Matches(msg, m.keys.RowDown):
		if m.st.SelectedRow >= 0 {
			m.st.SelectedRow = m.ix.MoveRowDown(m.st.SelectedRow)
		}
	case key.Matches(msg, m.keys.Up):
		m.st.MoveSelection(-1, rows)
	case key.Matches(msg, m.keys.Down):
		m.st.MoveSelection(1, rows)

	case key.Matches(msg, m.keys.Left):
		m.st.PanBy(-unit, limit)
	case key.Matches(msg, m.keys.Right):
		m.st.PanBy(unit, limit)
	case key.Matches(msg, m.keys.BlockLeft):
		m.st.PanBy(-block, limit)
	case key.Matches(msg, m.keys.BlockRight):
		m.st.PanBy(block, limit)

	case key.Matches(msg, m.keys.ExtendPrev):
		m.jumpToSample(timeline.FindPrevOnRow, true)
	case key.Matches(msg, m.keys.ExtendNext):
		m.jumpToSample(timeline.FindNextOnRow, true)
	case key.Matches(msg, m.keys.PrevSample):
		m.jumpToSample(timeline.FindPrevOnRow, false)
	case key.Matches(msg, m.keys.NextSample):
		m.jumpToSample(timeline.FindNextOnRow, false)

	case key.Matches(msg, m.keys.Home):
		m.st.Home()
	case key.Matches(msg, m.keys.End):
		m.st.End(limit)

	case key.Matches(msg, m.keys.ZoomIn):
		m.st.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.st.ZoomOut()
	case key.Matches(msg, m.keys.ZoomReset):
		m.st.ResetZoom()
	case key.Matches(msg, m.keys.Details):
		m.st.ShowDetails = !m.st.ShowDetails
	}

	m.scrollToSelectedRow()
	return m, nil
}

func (m Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRecent > 0 {
			m.selectedRecent--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRecent < len(m.recent)-1 {
			m.selectedRecent++
		}
	case key.Matches(msg, m.keys.Open):
		if m.selectedRecent < len(m.recent) {
			return m, m.openTrace(m.recent[m.selectedRecent].Path)
		}
	case key.Matches(msg, m.keys.Forget):
		if m.selectedRecent < len(m.recent) {
			path := m.recent[m.selectedRecent].Path
			if err := m.store.Forget(path); err != nil {
				return m, func() tea.Msg { return errMsg{err} }
			}
			return m, m.loadRecent()
		}
	case key.Matches(msg, m.keys.Back):
		if m.ix != nil {
			m.screen = ScreenTimeline
			m.resize()
		}
	}
	return m, nil
}

// jumpToSample moves the selection end to the neighbouring sample of the
// selected row found by find.
func (m *Model) jumpToSample(find func(*trace.Index, int, int64) int64, extend bool) {
	if m.st.SelectedRow < 0 {
		return
	}
	t := find(m.ix, m.st.SelectedRow, m.st.SelEnd)
	m.st.JumpTo(t, extend, m.panLimit())
}

// handleMouse maps pointer events onto the timeline. A press sets the
// caret and the selected row, a drag extends the selection, and plain
// motion updates the hover text.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.screen != ScreenTimeline || m.ix == nil || m.ix.IsEmpty() {
		return m
	}
	p, ok := m.canvasPoint(msg.X, msg.Y)
	if !ok {
		return m
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if row := m.layout.RowAt(p.Y); row >= 0 && row < m.ix.FunctionCount() {
			m.st.SetSelectedRow(row, m.ix.FunctionCount())
		}
		if timeline.Visible(m.st, p.X) {
			m.st.SetCaret(m.st.ToTimeline(p.X))
			m.dragging = true
		}

	case tea.MouseActionMotion:
		if m.dragging {
			x := clamp(p.X, m.st.LeftColWidth, m.st.Width-1)
			m.st.SelEnd = m.st.ToTimeline(x)
			return m
		}
		m.hover, _ = timeline.HoverAtPoint(m.ix, m.st, m.layout, p)

	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

// canvasPoint converts window coordinates to timeline coordinates,
// undoing the vertical row scroll below the ruler.
func (m Model) canvasPoint(x, y int) (image.Point, bool) {
	y -= headerHeight
	if y < 0 || y >= m.canvasHeight() {
		return image.Point{}, false
	}
	if y >= m.layout.HeaderHeight {
		y += m.rowDelta * m.layout.RowHeight
	}
	return image.Pt(x, y), true
}

// panLimit is the largest pan: the last timestamp of the trace.
func (m Model) panLimit() int64 {
	ts, _ := m.ix.MaxTimestamp()
	return ts
}

// ────────────────────────────────────────────────────────────
// Geometry
// ────────────────────────────────────────────────────────────

// canvasHeight is the number of lines left for the timeline.
func (m Model) canvasHeight() int {
	h := m.height - headerHeight - footerHeight - detailHeight
	if m.help.ShowAll {
		h -= lipgloss.Height(m.fullHelp())
	}
	return max(0, h)
}

// visibleRows is how many rows fit below the ruler.
func (m Model) visibleRows() int {
	return max(0, (m.canvasHeight()-m.layout.HeaderHeight)/m.layout.RowHeight)
}

// resize sizes the viewport to the window.
func (m *Model) resize() {
	m.st.Width = m.width
	m.st.Height = m.canvasHeight()
}

// scrollToSelectedRow keeps the selected row inside the visible rows.
func (m *Model) scrollToSelectedRow() {
	if m.ix == nil {
		return
	}
	visible := max(1, m.visibleRows())
	row := m.st.SelectedRow
	switch {
	case row < 0:
	case row < m.rowDelta:
		m.rowDelta = row
	case row >= m.rowDelta+visible:
		m.rowDelta = row - visible + 1
	}
	m.rowDelta = clamp(m.rowDelta, 0, max(0, m.ix.FunctionCount()-visible))
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)
	bodyHeight := m.height - headerHeight - footerHeight

	parts := []string{header}
	if m.screen == ScreenRecent || m.ix == nil {
		parts = append(parts, renderRecentList(&m, bodyHeight))
	} else {
		parts = append(parts, renderTimeline(&m), renderDetail(&m))
		if m.help.ShowAll {
			parts = append(parts, m.fullHelp())
		}
	}
	parts = append(parts, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) fullHelp() string {
	return m.help.FullHelpView(m.keys.FullHelp())
}
