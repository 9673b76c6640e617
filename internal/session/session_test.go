package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/tripdeck/internal/gazetteer"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/notify"
	"github.com/theirongolddev/tripdeck/internal/search"
)

type fakeCreator struct {
	mu     sync.Mutex
	calls  int
	drafts []model.ItemDraft
	err    error
}

func (f *fakeCreator) CreateItineraryItem(_ context.Context, d model.ItemDraft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.drafts = append(f.drafts, d)
	if f.err != nil {
		return "", f.err
	}
	return "item-1", nil
}

func localMerger() *search.Merger {
	return search.NewMerger(gazetteer.Default(), nil, search.Options{})
}

// selectBudapest runs a search and picks the Budapest airport.
func selectBudapest(t *testing.T, s *Session) {
	t.Helper()
	if _, applied := s.Search(context.Background(), localMerger(), "budapest"); !applied {
		t.Fatal("search result not applied")
	}
	if err := s.Select("BUD"); err != nil {
		t.Fatalf("Select: %v", err)
	}
}

func TestCommitWithoutCandidate(t *testing.T) {
	creator := &fakeCreator{}
	rec := notify.NewRecorder(10)
	s := New(Options{TripID: "trip-1", Creator: creator, Notifier: rec})
	s.SetName("Dinner")

	_, err := s.Commit(context.Background())

	var ve *ValidationError
	if !errors.As(err, &ve) || !ve.Has(FieldLocation) {
		t.Fatalf("err = %v, want location validation error", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false")
	}
	if s.State() != StateEmpty {
		t.Errorf("state = %v, want unchanged empty", s.State())
	}
	if creator.calls != 0 {
		t.Errorf("creator called %d times", creator.calls)
	}
	if last, _ := rec.Last(); last.Severity != notify.Error || last.Message != msgNoLocation {
		t.Errorf("notification = %+v", last)
	}
	if s.Fields().Name != "Dinner" {
		t.Error("draft was discarded")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		duration string
		bad      []string
	}{
		{"valid", "Tour", "", nil},
		{"valid duration", "Tour", "1.5", nil},
		{"zero duration", "Tour", "0", nil},
		{"blank name", "   ", "", []string{FieldName}},
		{"negative duration", "Tour", "-1", []string{FieldDuration}},
		{"text duration", "Tour", "two", []string{FieldDuration}},
		{"both", "", "NaN", []string{FieldName, FieldDuration}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{})
			selectBudapest(t, s)
			s.SetName(tt.itemName)
			s.SetDuration(tt.duration)

			_, err := s.Validate()
			if len(tt.bad) == 0 {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(ve.Problems) != len(tt.bad) {
				t.Errorf("problems = %+v, want %v", ve.Problems, tt.bad)
			}
			for _, f := range tt.bad {
				if !ve.Has(f) {
					t.Errorf("missing problem for %s", f)
				}
			}
		})
	}
}

func TestCommitSuccess(t *testing.T) {
	creator := &fakeCreator{}
	rec := notify.NewRecorder(10)
	var reloads atomic.Int32
	s := New(Options{
		TripID:   "trip-1",
		Creator:  creator,
		Notifier: rec,
		Reload: func(context.Context) error {
			reloads.Add(1)
			return nil
		},
	})
	selectBudapest(t, s)
	if s.TempMarker() == nil {
		t.Fatal("no temp marker after select")
	}
	s.SetName("  Arrive  ")
	s.SetCategory(model.CategoryTransportation)
	s.SetDuration("2")
	if err := s.SetPlanned("2025-03-02 09:00"); err != nil {
		t.Fatalf("SetPlanned: %v", err)
	}

	id, err := s.Commit(context.Background())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if id != "item-1" {
		t.Errorf("id = %q", id)
	}

	d := creator.drafts[0]
	if d.TripID != "trip-1" || d.Name != "Arrive" || d.Category != model.CategoryTransportation {
		t.Errorf("draft = %+v", d)
	}
	if d.DurationHours == nil || *d.DurationHours != 2 {
		t.Errorf("duration = %v", d.DurationHours)
	}
	if d.Location.Lat != 47.4369 || d.PlannedAt == nil {
		t.Errorf("draft location/time = %+v %v", d.Location, d.PlannedAt)
	}

	if s.State() != StateEmpty || s.Outcome() != StateCommitted {
		t.Errorf("state = %v outcome = %v", s.State(), s.Outcome())
	}
	if s.TempMarker() != nil || s.Selected() != nil {
		t.Error("temp marker or selection survived commit")
	}
	if s.Fields().Name != "" {
		t.Error("fields not reset")
	}
	if reloads.Load() != 1 {
		t.Errorf("reloads = %d, want 1", reloads.Load())
	}
	if last, _ := rec.Last(); last.Severity != notify.Success {
		t.Errorf("last notification = %+v", last)
	}
}

func TestCommitFailureKeepsSelection(t *testing.T) {
	creator := &fakeCreator{err: errors.New("Trip is closed for changes")}
	rec := notify.NewRecorder(10)
	s := New(Options{Creator: creator, Notifier: rec, Reload: func(context.Context) error {
		t.Error("reload after failed commit")
		return nil
	}})
	selectBudapest(t, s)
	s.SetNotes("window seat")

	_, err := s.Commit(context.Background())
	if !errors.Is(err, ErrCommit) {
		t.Fatalf("err = %v, want ErrCommit", err)
	}
	if !errors.Is(err, creator.err) {
		t.Error("cause not wrapped")
	}
	if s.State() != StateCandidateSelected || s.Outcome() != StateFailed {
		t.Errorf("state = %v outcome = %v", s.State(), s.Outcome())
	}
	if s.Selected() == nil || s.TempMarker() == nil || s.Fields().Notes != "window seat" {
		t.Error("failed commit discarded user input")
	}
	last, _ := rec.Last()
	if last.Title != "Error Saving Item" || last.Message != "Trip is closed for changes" {
		t.Errorf("notification = %+v", last)
	}
	if s.Saving() {
		t.Error("saving flag left set")
	}
}

func TestCommitFailureGenericMessage(t *testing.T) {
	rec := notify.NewRecorder(10)
	s := New(Options{Creator: &fakeCreator{err: errors.New(" ")}, Notifier: rec})
	selectBudapest(t, s)
	_, _ = s.Commit(context.Background())
	if last, _ := rec.Last(); last.Message != msgUnknownSaving {
		t.Errorf("message = %q", last.Message)
	}
}

func TestCommitGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32
	creator := CreatorFunc(func(ctx context.Context, _ model.ItemDraft) (string, error) {
		calls.Add(1)
		close(entered)
		<-release
		return "slow", nil
	})
	s := New(Options{Creator: creator})
	selectBudapest(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Commit(context.Background())
		done <- err
	}()
	<-entered

	if !s.Saving() || s.State() != StateSaving {
		t.Fatalf("saving = %v state = %v", s.Saving(), s.State())
	}
	if _, err := s.Commit(context.Background()); !errors.Is(err, ErrCommitInProgress) {
		t.Errorf("second commit err = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("creator calls = %d, want 1", calls.Load())
	}
}

func TestCommitReloadFailureNotifies(t *testing.T) {
	rec := notify.NewRecorder(10)
	s := New(Options{Creator: &fakeCreator{}, Notifier: rec, Reload: func(context.Context) error {
		return errors.New("fetch failed")
	}})
	selectBudapest(t, s)
	if _, err := s.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	last, _ := rec.Last()
	if last.Title != "Error Loading Data" {
		t.Errorf("notification = %+v", last)
	}
}

func TestLastSearchWins(t *testing.T) {
	s := New(Options{})
	ctx1, seq1, ok := s.BeginSearch(context.Background(), "bud")
	if !ok {
		t.Fatal("first search rejected")
	}
	_, seq2, _ := s.BeginSearch(context.Background(), "vienna")

	if ctx1.Err() == nil {
		t.Error("superseded search context not canceled")
	}

	m := localMerger()
	late := m.Search(context.Background(), "bud")
	fresh := m.Search(context.Background(), "vienna")

	if !s.ApplyResults(seq2, fresh) {
		t.Fatal("latest results rejected")
	}
	if s.ApplyResults(seq1, late) {
		t.Error("stale results applied")
	}
	got := s.Results()
	if len(got) != 1 || got[0].ID != "VIE" {
		t.Errorf("results = %+v", got)
	}
	if s.State() != StateSearching || s.Term() != "vienna" {
		t.Errorf("state = %v term = %q", s.State(), s.Term())
	}
}

func TestSearchTooShortNotifies(t *testing.T) {
	rec := notify.NewRecorder(10)
	s := New(Options{Notifier: rec})
	res, _ := s.Search(context.Background(), localMerger(), " a ")
	if !res.TooShort || !res.Empty() {
		t.Errorf("res = %+v", res)
	}
	if last, _ := rec.Last(); last.Message != msgTooShort {
		t.Errorf("notification = %+v", last)
	}
	if s.State() != StateEmpty {
		t.Errorf("state = %v", s.State())
	}
}

func TestSelect(t *testing.T) {
	s := New(Options{})
	if err := s.Select("BUD"); !errors.Is(err, ErrUnknownCandidate) {
		t.Errorf("Select before search err = %v", err)
	}
	selectBudapest(t, s)

	if len(s.Results()) != 0 {
		t.Error("results not cleared on select")
	}
	if s.Fields().Name != "Budapest Ferenc Liszt International Airport" {
		t.Errorf("name = %q", s.Fields().Name)
	}
	temp := s.TempMarker()
	if temp.Key != model.TempMarkerKey || math.Abs(temp.Style.Scale-1.8) > 1e-9 {
		t.Errorf("temp = %+v", temp)
	}
	v, ok := s.Focus()
	if !ok || v.Zoom != 17 || v.Center.Lat != 47.4369 {
		t.Errorf("focus = %+v %v", v, ok)
	}

	// Typing again keeps the selection.
	s.BeginSearch(context.Background(), "vienna")
	if s.State() != StateCandidateSelected {
		t.Errorf("state after new search = %v", s.State())
	}

	s.ClearSelection()
	if s.Selected() != nil || s.TempMarker() != nil || s.State() != StateEmpty {
		t.Error("ClearSelection left state behind")
	}
}

func TestClose(t *testing.T) {
	s := New(Options{})
	selectBudapest(t, s)
	s.SetNotes("x")
	s.Close()
	if s.State() != StateEmpty || s.TempMarker() != nil || s.Fields().Notes != "" {
		t.Error("Close did not reset the session")
	}
}

func TestParsePlanned(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-02T09:00:00Z", "2025-03-02T09:00:00Z"},
		{"2025-03-02T09:30", "2025-03-02T09:30:00+01:00"},
		{"2025-03-02 18:05", "2025-03-02T18:05:00+01:00"},
		{"2025-03-02", "2025-03-02T00:00:00+01:00"},
	}
	for _, tt := range tests {
		got, err := ParsePlanned(tt.in, loc)
		if err != nil {
			t.Fatalf("ParsePlanned(%q): %v", tt.in, err)
		}
		if got.Format(time.RFC3339) != tt.want {
			t.Errorf("ParsePlanned(%q) = %s, want %s", tt.in, got.Format(time.RFC3339), tt.want)
		}
	}

	if got, err := ParsePlanned("  ", loc); got != nil || err != nil {
		t.Errorf("blank = %v, %v", got, err)
	}
	_, err := ParsePlanned("next tuesday", loc)
	var ve *ValidationError
	if !errors.As(err, &ve) || !ve.Has(FieldPlannedAt) {
		t.Errorf("err = %v", err)
	}
}
