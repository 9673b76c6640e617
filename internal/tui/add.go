package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/tripdeck/internal/category"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/pipeline"
	"github.com/theirongolddev/tripdeck/internal/session"
)

// addState is the add-item tab: a location search feeding a details form.
type addState struct {
	sess      *session.Session
	input     textinput.Model
	lastTerm  string
	searching bool
	cursor    int
	remoteErr string
	synthetic bool

	form   *huh.Form
	vals   *detailValues
	saving bool

	fresh *freshSlot
}

// detailValues backs the huh form. It is a pointer so copies of App share it.
type detailValues struct {
	name     string
	category string
	planned  string
	duration string
	notes    string
}

// freshSlot receives the dashboard reloaded after a commit.
type freshSlot struct {
	mu sync.Mutex
	d  *pipeline.Dashboard
}

func (f *freshSlot) take() *pipeline.Dashboard {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.d
	f.d = nil
	return d
}

func (a *App) newAddState() addState {
	ti := textinput.New()
	ti.Placeholder = "Search a place, airport or city…"
	ti.CharLimit = 120
	ti.Width = 50
	ti.Prompt = "⌕ "

	fresh := &freshSlot{}
	deps := a.deps
	sess := session.New(session.Options{
		TripID:   deps.Trip.ID,
		Creator:  deps.Creator,
		Notifier: a.recorder,
		Location: deps.Location,
		Reload: func(ctx context.Context) error {
			d, err := pipeline.Load(ctx, deps.Source, deps.Trip.ID, pipeline.Options{
				Location: deps.Location,
				Zoom:     deps.Zoom,
			})
			if err != nil {
				return err
			}
			fresh.mu.Lock()
			fresh.d = d
			fresh.mu.Unlock()
			return nil
		},
	})

	return addState{sess: sess, input: ti, fresh: fresh, vals: &detailValues{}}
}

func (a App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.add.form != nil {
		if msg.String() == "esc" && !a.add.saving {
			return a.cancelSelection(), textinput.Blink
		}
		return a.updateForm(msg)
	}

	results := a.add.sess.Results()
	switch msg.String() {
	case "esc":
		a.add.input.Blur()
		a.activeTab = tabSchedule
		return a, nil
	case "tab":
		a.add.input.Blur()
		a.activeTab = tabLog
		return a, nil
	case "down", "ctrl+n":
		if a.add.cursor < len(results)-1 {
			a.add.cursor++
		}
		return a, nil
	case "up", "ctrl+p":
		if a.add.cursor > 0 {
			a.add.cursor--
		}
		return a, nil
	case "enter":
		if len(results) > 0 && a.add.cursor < len(results) {
			return a.selectCandidate(results[a.add.cursor].ID)
		}
		return a.startSearch(true)
	}

	var cmd tea.Cmd
	a.add.input, cmd = a.add.input.Update(msg)
	if strings.TrimSpace(a.add.input.Value()) == a.add.lastTerm {
		return a, cmd
	}
	m, searchCmd := a.startSearch(false)
	return m, tea.Batch(cmd, searchCmd)
}

// startSearch begins a search for the current input. Every call supersedes
// the previous one; late results are dropped in applySearch. explicit marks
// an enter press, which reports a too-short term.
func (a App) startSearch(explicit bool) (App, tea.Cmd) {
	term := strings.TrimSpace(a.add.input.Value())
	a.add.lastTerm = term
	a.add.cursor = 0
	a.add.remoteErr = ""
	a.add.synthetic = false

	ctx, seq, ok := a.add.sess.BeginSearch(context.Background(), term)
	if !ok {
		a.add.searching = false
		if explicit && a.deps.Searcher != nil {
			// a too-short term never reaches the providers
			a.add.sess.Search(ctx, a.deps.Searcher, term)
		}
		return a, nil
	}
	if a.deps.Searcher == nil {
		a.add.searching = false
		return a, nil
	}
	a.add.searching = true
	m := a.deps.Searcher
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		return searchResultMsg{seq: seq, res: m.Search(ctx, term)}
	})
}

func (a App) applySearch(msg searchResultMsg) App {
	if !a.add.sess.ApplyResults(msg.seq, msg.res) {
		return a
	}
	a.add.searching = false
	a.add.cursor = 0
	a.add.synthetic = msg.res.Synthetic
	if msg.res.RemoteErr != nil {
		a.add.remoteErr = "Online search unavailable, showing local matches."
	}
	return a
}

func (a App) selectCandidate(id string) (tea.Model, tea.Cmd) {
	if err := a.add.sess.Select(id); err != nil {
		return a, nil
	}
	a.add.searching = false
	a.add.input.Blur()

	if tm := a.add.sess.TempMarker(); tm != nil {
		a.board = a.board.WithTemp(*tm)
	}
	if view, ok := a.add.sess.Focus(); ok {
		a.board = a.board.FocusAt(view.Center, view.Zoom)
	}

	f := a.add.sess.Fields()
	*a.add.vals = detailValues{name: f.Name, category: string(f.Category)}
	a.add.form = newDetailsForm(a.add.vals, a.deps.Location, a.width)
	return a, a.add.form.Init()
}

func (a App) cancelSelection() App {
	a.add.sess.ClearSelection()
	a.add.form = nil
	a.board = a.board.WithoutTemp()
	a.add.input.Focus()
	return a
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.add.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.add.form = f
	}

	switch a.add.form.State {
	case huh.StateCompleted:
		if a.add.saving {
			return a, nil
		}
		return a.commit()
	case huh.StateAborted:
		return a.cancelSelection(), textinput.Blink
	}
	return a, cmd
}

// commit copies the form into the session and saves it in the background.
func (a App) commit() (tea.Model, tea.Cmd) {
	v := *a.add.vals
	sess := a.add.sess
	sess.SetName(v.name)
	sess.SetNotes(v.notes)
	sess.SetCategory(category.Parse(v.category))
	sess.SetDuration(v.duration)
	if err := sess.SetPlanned(v.planned); err != nil {
		a.recorder.Notify("Error", err.Error(), notify.Error)
		a.add.form = newDetailsForm(a.add.vals, a.deps.Location, a.width)
		return a, a.add.form.Init()
	}

	a.add.saving = true
	fresh := a.add.fresh
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		id, err := sess.Commit(context.Background())
		return commitDoneMsg{id: id, err: err, fresh: fresh.take()}
	})
}

func (a App) finishCommit(msg commitDoneMsg) (tea.Model, tea.Cmd) {
	a.add.saving = false
	if msg.err != nil {
		// fields are kept; reopen the form for another attempt
		a.add.form = newDetailsForm(a.add.vals, a.deps.Location, a.width)
		return a, a.add.form.Init()
	}

	a.add.form = nil
	*a.add.vals = detailValues{}
	a.add.input.SetValue("")
	a.add.lastTerm = ""
	a.board = a.board.WithoutTemp()
	if msg.fresh != nil {
		a.setDashboard(msg.fresh)
	}
	a.activeTab = tabSchedule
	return a, nil
}

func newDetailsForm(v *detailValues, loc *time.Location, width int) *huh.Form {
	opts := make([]huh.Option[string], 0, len(category.Categories()))
	for _, c := range category.Categories() {
		opts = append(opts, huh.NewOption(string(c), string(c)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(opts...).
				Value(&v.category),
			huh.NewInput().
				Title("Planned").
				Description(fmt.Sprintf("YYYY-MM-DD HH:MM in %s, empty for unscheduled", loc.String())).
				Value(&v.planned),
			huh.NewInput().
				Title("Duration (hours)").
				Value(&v.duration).
				Validate(func(s string) error {
					_, err := session.ParseDuration(s)
					return err
				}),
			huh.NewText().
				Title("Notes").
				Value(&v.notes),
		),
	).WithShowHelp(true)
	if width > 0 {
		form = form.WithWidth(min(width, 80))
	}
	return form
}

// selected location name for the add tab header, or "".
func (s addState) selectedLabel() string {
	c := s.sess.Selected()
	if c == nil {
		return ""
	}
	if c.Label != "" && c.Label != c.Name {
		return c.Name + " · " + c.Label
	}
	return c.Name
}
