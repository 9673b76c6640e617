// Package session runs the "add itinerary item" workflow: location search,
// candidate selection, validation and commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/tripdeck/internal/markers"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/search"
)

// State of an edit session.
type State int

const (
	StateEmpty State = iota
	StateSearching
	StateCandidateSelected
	StateValidating
	StateSaving
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateSearching:
		return "searching"
	case StateCandidateSelected:
		return "candidate-selected"
	case StateValidating:
		return "validating"
	case StateSaving:
		return "saving"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	msgTooShort      = "Please enter at least 2 characters to search."
	msgNameRequired  = "Item name is required."
	msgBadDuration   = "Duration must be a non-negative number of hours."
	msgNoLocation    = "Please search for and select a location."
	msgSaved         = "Itinerary item added successfully!"
	msgUnknownSaving = "An unknown error occurred while saving the item."
)

var errNoCreator = errors.New("no item store configured")

// Creator persists a new itinerary item and returns its ID.
type Creator interface {
	CreateItineraryItem(ctx context.Context, draft model.ItemDraft) (string, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(ctx context.Context, draft model.ItemDraft) (string, error)

// CreateItineraryItem implements Creator.
func (f CreatorFunc) CreateItineraryItem(ctx context.Context, draft model.ItemDraft) (string, error) {
	return f(ctx, draft)
}

// Reloader refetches the trip after a successful commit.
type Reloader func(ctx context.Context) error

// Options wires a session to its collaborators.
type Options struct {
	TripID   string
	Creator  Creator
	Notifier notify.Sink
	Reload   Reloader
	Location *time.Location // for parsing planned times
}

// Fields are the draft values typed by the user. Duration is kept as raw
// text and parsed during validation.
type Fields struct {
	Name      string
	Notes     string
	Category  model.Category
	PlannedAt *time.Time
	Duration  string
}

// Session is one open "add item" workflow. It is safe for concurrent use.
type Session struct {
	mu   sync.Mutex
	opts Options

	state    State
	outcome  State
	fields   Fields
	term     string
	results  []model.LocationCandidate
	selected *model.LocationCandidate
	temp     *model.MapMarker
	saving   bool

	seq    uint64
	cancel context.CancelFunc
}

// New opens a session.
func New(opts Options) *Session {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Session{opts: opts, fields: Fields{Category: model.CategoryOther}}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns StateCommitted or StateFailed after a commit attempt,
// StateEmpty before the first one.
func (s *Session) Outcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Saving reports whether a commit is in flight.
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Fields returns the current draft values.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// Term returns the most recent search term.
func (s *Session) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

// Results returns the displayed candidates.
func (s *Session) Results() []model.LocationCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LocationCandidate(nil), s.results...)
}

// Selected returns the selected candidate, or nil.
func (s *Session) Selected() *model.LocationCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	c := *s.selected
	return &c
}

// TempMarker returns the marker for the pending location, or nil.
func (s *Session) TempMarker() *model.MapMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.temp == nil {
		return nil
	}
	m := *s.temp
	return &m
}

// Focus returns the view centered on the selected location.
func (s *Session) Focus() (markers.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return markers.View{}, false
	}
	return markers.View{Center: s.selected.Position, Zoom: markers.CandidateZoom}, true
}

// BeginSearch records term as the latest search, cancels any in-flight one
// and returns a context and sequence number for the new search. ok is false
// when the term is too short; the displayed results are cleared either way.
func (s *Session) BeginSearch(parent context.Context, term string) (ctx context.Context, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.term = strings.TrimSpace(term)
	s.results = nil

	if len([]rune(s.term)) < search.MinTermLength {
		if s.selected == nil {
			s.state = StateEmpty
		}
		return parent, s.seq, false
	}

	ctx, s.cancel = context.WithCancel(parent)
	if s.selected == nil {
		s.state = StateSearching
	}
	return ctx, s.seq, true
}

// ApplyResults shows res if seq belongs to the latest search. Stale results
// are dropped and false is returned.
func (s *Session) ApplyResults(seq uint64, res search.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.results = append([]model.LocationCandidate(nil), res.Candidates...)
	return true
}

// Search runs a complete search through m and applies it. applied is false
// when a newer search started before this one finished.
func (s *Session) Search(ctx context.Context, m *search.Merger, term string) (res search.Result, applied bool) {
	sctx, seq, ok := s.BeginSearch(ctx, term)
	if !ok {
		s.opts.Notifier.Notify("Info", msgTooShort, notify.Info)
		return search.Result{Term: strings.TrimSpace(term), TooShort: true}, true
	}
	res = m.Search(sctx, term)
	return res, s.ApplyResults(seq, res)
}

// Select picks a candidate from the displayed results. The results are
// cleared, the name is prefilled and the temp marker placed.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.results {
		if c.ID != id {
			continue
		}
		cand := c
		temp := markers.TempMarker(cand, markers.CandidateZoom)
		s.selected = &cand
		s.temp = &temp
		s.results = nil
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.seq++
		s.fields.Name = cand.Name
		s.state = StateCandidateSelected
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
}

// ClearSelection drops the selected location and its temp marker.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.temp = nil
	s.state = StateEmpty
}

// SetName sets the item name.
func (s *Session) SetName(v string) { s.update(func(f *Fields) { f.Name = v }) }

// SetNotes sets the free-text notes.
func (s *Session) SetNotes(v string) { s.update(func(f *Fields) { f.Notes = v }) }

// SetCategory sets the category; empty means Other.
func (s *Session) SetCategory(c model.Category) {
	if c == "" {
		c = model.CategoryOther
	}
	s.update(func(f *Fields) { f.Category = c })
}

// SetPlannedAt sets or clears the planned time.
func (s *Session) SetPlannedAt(t *time.Time) {
	s.update(func(f *Fields) {
		if t == nil {
			f.PlannedAt = nil
			return
		}
		v := *t
		f.PlannedAt = &v
	})
}

// SetPlanned parses and sets the planned time. Empty clears it.
func (s *Session) SetPlanned(v string) error {
	t, err := ParsePlanned(v, s.opts.Location)
	if err != nil {
		return err
	}
	s.SetPlannedAt(t)
	return nil
}

// SetDuration sets the raw duration text.
func (s *Session) SetDuration(v string) { s.update(func(f *Fields) { f.Duration = v }) }

func (s *Session) update(fn func(*Fields)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.fields)
}

// Validate checks the draft without changing state.
func (s *Session) Validate() (model.ItemDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked()
}

func (s *Session) draftLocked() (model.ItemDraft, error) {
	var problems []FieldError

	name := strings.TrimSpace(s.fields.Name)
	if name == "" {
		problems = append(problems, FieldError{Field: FieldName, Message: msgNameRequired})
	}
	duration, err := ParseDuration(s.fields.Duration)
	if err != nil {
		problems = append(problems, FieldError{Field: FieldDuration, Message: msgBadDuration})
	}
	if s.selected == nil {
		problems = append(problems, FieldError{Field: FieldLocation, Message: msgNoLocation})
	}
	if len(problems) > 0 {
		return model.ItemDraft{}, &ValidationError{Problems: problems}
	}

	cat := s.fields.Category
	if cat == "" {
		cat = model.CategoryOther
	}
	return model.ItemDraft{
		TripID:        s.opts.TripID,
		Name:          name,
		Notes:         s.fields.Notes,
		Category:      cat,
		PlannedAt:     s.fields.PlannedAt,
		DurationHours: duration,
		Location:      s.selected.Position,
	}, nil
}

// Commit validates the draft and creates the item. A second call while the
// first is saving returns ErrCommitInProgress without side effects. On
// success the session resets and the reload runs; on failure the session
// returns to CandidateSelected with every field kept.
func (s *Session) Commit(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return "", ErrCommitInProgress
	}

	prev := s.state
	s.state = StateValidating
	draft, err := s.draftLocked()
	if err != nil {
		s.state = prev
		s.mu.Unlock()
		msg := err.Error()
		var ve *ValidationError
		if errors.As(err, &ve) {
			msg = ve.Messages()
		}
		s.opts.Notifier.Notify("Error", msg, notify.Error)
		return "", err
	}

	s.saving = true
	s.state = StateSaving
	creator := s.opts.Creator
	s.mu.Unlock()

	var id string
	if creator == nil {
		err = errNoCreator
	} else {
		id, err = creator.CreateItineraryItem(ctx, draft)
	}

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.state = StateCandidateSelected
		s.outcome = StateFailed
		s.mu.Unlock()
		s.opts.Notifier.Notify("Error Saving Item", failureMessage(err), notify.Error)
		return "", &CommitError{Err: err}
	}
	s.resetLocked()
	s.outcome = StateCommitted
	s.mu.Unlock()

	s.opts.Notifier.Notify("Success", msgSaved, notify.Success)
	if s.opts.Reload != nil {
		if rerr := s.opts.Reload(ctx); rerr != nil {
			s.opts.Notifier.Notify("Error Loading Data", failureMessage(rerr), notify.Error)
		}
	}
	return id, nil
}

// Close discards the session's draft, results and temp marker.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.state = StateEmpty
	s.fields = Fields{Category: model.CategoryOther}
	s.term = ""
	s.results = nil
	s.selected = nil
	s.temp = nil
}

func failureMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgUnknownSaving
}

// ParseDuration parses a duration in hours. Empty input means unspecified
// and returns nil.
func ParseDuration(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	h, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing duration %q: %w", v, err)
	}
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("duration %q must be a non-negative number", v)
	}
	return &h, nil
}

var plannedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParsePlanned parses a planned timestamp in loc. Empty input returns nil.
func ParsePlanned(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range plannedLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return &t, nil
		}
	}
	return nil, &ValidationError{Problems: []FieldError{{
		Field:   FieldPlannedAt,
		Message: fmt.Sprintf("Unrecognized date/time %q (use YYYY-MM-DD HH:MM).", v),
	}}}
}
