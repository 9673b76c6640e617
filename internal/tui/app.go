// Package tui provides the interactive Bubble Tea dashboard for tripdeck.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripdeck/internal/markers"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/pipeline"
	"github.com/theirongolddev/tripdeck/internal/search"
	"github.com/theirongolddev/tripdeck/internal/session"
	"github.com/theirongolddev/tripdeck/internal/tui/components"
	"github.com/theirongolddev/tripdeck/internal/tui/theme"
)

// Deps wires the dashboard to its data.
type Deps struct {
	Trip     model.Trip
	Source   pipeline.Source
	Creator  session.Creator
	Searcher *search.Merger
	Location *time.Location
	Zoom     int
}

// DataLoadedMsg is sent when the trip finishes loading.
type DataLoadedMsg struct {
	Dashboard *pipeline.Dashboard
	Err       error
}

// ProgressMsg reports fetch progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// searchResultMsg carries a finished search tagged with its sequence number.
type searchResultMsg struct {
	seq uint64
	res search.Result
}

// commitDoneMsg is sent when an item commit returns.
type commitDoneMsg struct {
	id    string
	err   error
	fresh *pipeline.Dashboard
}

const (
	tabSchedule = iota
	tabMap
	tabAdd
	tabLog
)

// App is the root Bubble Tea model.
type App struct {
	deps Deps

	// Data
	dash    *pipeline.Dashboard
	initial markers.Board // board as loaded, for view reset
	board   markers.Board
	rows    []scheduleRow
	loaded  bool
	loadErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	schedCursor  int
	markerCursor int

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg

	recorder *notify.Recorder
	now      func() time.Time

	// Add-item workflow
	add addState
}

const (
	minTerminalWidth = 80
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(deps Deps) App {
	if deps.Location == nil {
		deps.Location = time.Local
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		deps:     deps,
		spinner:  sp,
		loadSub:  make(chan tea.Msg, 1),
		recorder: notify.NewRecorder(100),
		now:      time.Now,
	}
	a.add = a.newAddState()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.deps, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.add.form != nil {
			a.add.form = a.add.form.WithWidth(msg.Width)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			if msg.String() == "q" {
				return a, tea.Quit
			}
			return a, nil
		}
		if a.activeTab == tabAdd {
			return a.updateAdd(msg)
		}
		return a.updateKey(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.recorder.Notify("Error Loading Data", msg.Err.Error(), notify.Error)
			return a, nil
		}
		a.loadErr = nil
		a.setDashboard(msg.Dashboard)
		return a, nil

	case searchResultMsg:
		return a.applySearch(msg), nil

	case commitDoneMsg:
		return a.finishCommit(msg)

	case spinner.TickMsg:
		if !a.loaded || a.add.searching || a.add.saving {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the details form (cursor blinks, etc.)
	if a.add.form != nil {
		return a.updateForm(msg)
	}
	if a.activeTab == tabAdd {
		var cmd tea.Cmd
		a.add.input, cmd = a.add.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		a.loaded = false
		a.progress, a.progressMax = 0, 0
		return a, tea.Batch(loadDataCmd(a.deps, a.loadSub), a.spinner.Tick)
	case "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			return a.switchTab(idx)
		}
	}

	switch a.activeTab {
	case tabSchedule:
		return a.updateSchedule(key)
	case tabMap:
		return a.updateMap(key)
	}
	return a, nil
}

func (a App) switchTab(idx int) (tea.Model, tea.Cmd) {
	a.activeTab = idx
	if idx == tabAdd && a.add.form == nil {
		a.add.input.Focus()
		return a, textinput.Blink
	}
	a.add.input.Blur()
	return a, nil
}

func (a App) updateSchedule(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.schedCursor < len(a.rows)-1 {
			a.schedCursor++
		}
	case "k", "up":
		if a.schedCursor > 0 {
			a.schedCursor--
		}
	case "g":
		a.schedCursor = 0
	case "G":
		a.schedCursor = max(0, len(a.rows)-1)
	case "enter":
		if a.schedCursor >= len(a.rows) {
			return a, nil
		}
		it := a.rows[a.schedCursor].item
		focused, ok := a.board.Focus(model.ItineraryKeyPrefix + it.ID)
		if !ok {
			a.recorder.Notify("No Location", it.Name+" has no map position.", notify.Warning)
			return a, nil
		}
		a.board = focused
		a.markerCursor = a.markerIndex(focused.Selected())
		a.activeTab = tabMap
	}
	return a, nil
}

func (a App) updateMap(key string) (tea.Model, tea.Cmd) {
	all := a.board.All()
	switch key {
	case "+", "=":
		a.board = a.board.ZoomIn()
	case "-", "_":
		a.board = a.board.ZoomOut()
	case "0":
		a.board = a.resetBoard()
	case "j", "down":
		if a.markerCursor < len(all)-1 {
			a.markerCursor++
		}
	case "k", "up":
		if a.markerCursor > 0 {
			a.markerCursor--
		}
	case "enter":
		if a.markerCursor < len(all) {
			if focused, ok := a.board.Focus(all[a.markerCursor].Key); ok {
				a.board = focused
			}
		}
	}
	return a, nil
}

// resetBoard returns the loaded view, keeping a pending temp marker.
func (a App) resetBoard() markers.Board {
	b := a.initial
	if tm := a.add.sess.TempMarker(); tm != nil {
		b = b.WithTemp(*tm)
	}
	return b
}

func (a App) markerIndex(key string) int {
	for i, m := range a.board.All() {
		if m.Key == key {
			return i
		}
	}
	return 0
}

func (a *App) setDashboard(d *pipeline.Dashboard) {
	a.dash = d
	a.initial = d.Board
	a.board = d.Board
	if tm := a.add.sess.TempMarker(); tm != nil {
		a.board = a.board.WithTemp(*tm)
	}
	a.rows = flattenSchedule(d)
	if a.schedCursor >= len(a.rows) {
		a.schedCursor = max(0, len(a.rows)-1)
	}
	if n := len(a.board.All()); a.markerCursor >= n {
		a.markerCursor = max(0, n-1)
	}
}

// loadDataCmd starts the trip load in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(deps Deps, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Progress callback: non-blocking send so fetches aren't stalled.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			d, err := pipeline.Load(context.Background(), deps.Source, deps.Trip.ID, pipeline.Options{
				Location: deps.Location,
				Zoom:     deps.Zoom,
				Progress: progressFn,
			})
			sub <- DataLoadedMsg{Dashboard: d, Err: err}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
