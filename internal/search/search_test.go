package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tripdeck/internal/gazetteer"
	"github.com/theirongolddev/tripdeck/internal/model"
)

func failing(err error) Provider {
	return ProviderFunc(func(context.Context, string) ([]model.LocationCandidate, error) {
		return nil, err
	})
}

func returning(cands ...model.LocationCandidate) Provider {
	return ProviderFunc(func(context.Context, string) ([]model.LocationCandidate, error) {
		return cands, nil
	})
}

func TestSearchTooShort(t *testing.T) {
	m := NewMerger(gazetteer.Default(), failing(errors.New("should not be called")), Options{})
	for _, term := range []string{"", "a", "  b  ", "é"} {
		res := m.Search(context.Background(), term)
		if !res.TooShort || !res.Empty() || res.RemoteErr != nil {
			t.Errorf("Search(%q) = %+v, want empty too-short result", term, res)
		}
	}
}

func TestSearchRemoteFailureKeepsLocal(t *testing.T) {
	m := NewMerger(gazetteer.Default(), failing(errors.New("boom")), Options{})
	res := m.Search(context.Background(), "budapest")

	if len(res.Candidates) == 0 || res.Candidates[0].ID != "BUD" {
		t.Fatalf("candidates = %+v, want local BUD", res.Candidates)
	}
	if res.Synthetic {
		t.Error("local match should not be synthetic")
	}
	if !errors.Is(res.RemoteErr, ErrRemoteSearch) {
		t.Errorf("RemoteErr = %v, want ErrRemoteSearch", res.RemoteErr)
	}
}

func TestSearchSyntheticFallback(t *testing.T) {
	m := NewMerger(gazetteer.Default(), returning(), Options{})
	res := m.Search(context.Background(), "xyz123")

	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(res.Candidates))
	}
	c := res.Candidates[0]
	if !res.Synthetic || c.Source != model.SourceFallback {
		t.Errorf("result not marked synthetic: %+v", res)
	}
	if c.ID != "fallback-xyz123" || !strings.HasPrefix(c.Name, "xyz123") {
		t.Errorf("candidate = %+v", c)
	}
	if c.Position != DefaultFallback {
		t.Errorf("position = %+v", c.Position)
	}
}

func TestSearchSyntheticAfterRemoteError(t *testing.T) {
	m := NewMerger(nil, failing(errors.New("down")), Options{Fallback: model.Coordinate{Lat: 10, Lon: 20}})
	res := m.Search(context.Background(), "Nowhere Town")
	if len(res.Candidates) != 1 || res.Candidates[0].ID != "fallback-nowhere-town" {
		t.Fatalf("candidates = %+v", res.Candidates)
	}
	if res.Candidates[0].Position != (model.Coordinate{Lat: 10, Lon: 20}) {
		t.Errorf("fallback position = %+v", res.Candidates[0].Position)
	}
}

func TestSearchLocalWinsCollisions(t *testing.T) {
	remote := returning(
		model.LocationCandidate{ID: "BUD", Name: "Remote Budapest", Label: "remote", Position: model.Coordinate{Lat: 47.5, Lon: 19.0}},
		model.LocationCandidate{ID: "osm-1", Name: "Budapest Keleti", Position: model.Coordinate{Lat: 47.5, Lon: 19.08}},
		model.LocationCandidate{ID: "osm-1", Name: "Budapest Keleti again", Position: model.Coordinate{Lat: 47.5, Lon: 19.08}},
	)
	m := NewMerger(gazetteer.Default(), remote, Options{})
	res := m.Search(context.Background(), "budapest")

	if len(res.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(res.Candidates), res.Candidates)
	}
	if res.Candidates[0].Source != model.SourceLocal || res.Candidates[0].Name == "Remote Budapest" {
		t.Errorf("local entry replaced: %+v", res.Candidates[0])
	}
	if res.Candidates[1].ID != "osm-1" || res.Candidates[1].Label != "Budapest Keleti" {
		t.Errorf("remote entry = %+v", res.Candidates[1])
	}
	if res.LocalCount != 1 {
		t.Errorf("LocalCount = %d", res.LocalCount)
	}
}

func TestSearchNormalizesRemote(t *testing.T) {
	remote := returning(
		model.LocationCandidate{Label: "Somewhere St", Position: model.Coordinate{Lat: 1, Lon: 1}},
		model.LocationCandidate{ID: "bad", Name: "Bad", Position: model.Coordinate{Lat: 300}},
		model.LocationCandidate{ID: "blank", Position: model.Coordinate{Lat: 2, Lon: 2}},
	)
	res := NewMerger(nil, remote, Options{}).Search(context.Background(), "somewhere")
	if len(res.Candidates) != 1 {
		t.Fatalf("candidates = %+v", res.Candidates)
	}
	c := res.Candidates[0]
	if !strings.HasPrefix(c.ID, "remote-") || c.Name != "Somewhere St" || c.Source != model.SourceRemote {
		t.Errorf("candidate = %+v", c)
	}
}

func TestSearchCapsResults(t *testing.T) {
	var cands []model.LocationCandidate
	for i := 0; i < 20; i++ {
		cands = append(cands, model.LocationCandidate{ID: fmt.Sprint(i), Name: fmt.Sprint("place ", i), Position: model.Coordinate{Lat: 1, Lon: 1}})
	}
	res := NewMerger(nil, returning(cands...), Options{}).Search(context.Background(), "place")
	if len(res.Candidates) != DefaultLimit {
		t.Errorf("got %d candidates, want %d", len(res.Candidates), DefaultLimit)
	}

	res = NewMerger(nil, returning(cands...), Options{Limit: 3}).Search(context.Background(), "place")
	if len(res.Candidates) != 3 {
		t.Errorf("got %d candidates with limit 3", len(res.Candidates))
	}
}

func TestSearchTimeoutIsRemoteFailure(t *testing.T) {
	slow := ProviderFunc(func(ctx context.Context, _ string) ([]model.LocationCandidate, error) {
		time.Sleep(200 * time.Millisecond)
		return []model.LocationCandidate{{ID: "late", Name: "Late", Position: model.Coordinate{Lat: 1, Lon: 1}}}, nil
	})
	m := NewMerger(gazetteer.Default(), slow, Options{Timeout: 20 * time.Millisecond})
	res := m.Search(context.Background(), "vienna")

	if !errors.Is(res.RemoteErr, context.DeadlineExceeded) {
		t.Errorf("RemoteErr = %v, want deadline exceeded", res.RemoteErr)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].ID != "VIE" {
		t.Errorf("candidates = %+v", res.Candidates)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"xyz123":          "xyz123",
		"Nowhere Town":    "nowhere-town",
		"  café--bar  ":   "café-bar",
		"!!":              "",
		"Rue de l'Église": "rue-de-l-église",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSyntheticIDForSymbolOnlyTerms(t *testing.T) {
	m := NewMerger(nil, nil, Options{})
	a := m.Search(context.Background(), "!!").Candidates[0].ID
	b := m.Search(context.Background(), "??").Candidates[0].ID
	if a == "fallback-" || b == "fallback-" || !strings.HasPrefix(a, "fallback-") {
		t.Fatalf("ids = %q, %q", a, b)
	}
	if a == b {
		t.Errorf("different symbol terms share id %q", a)
	}
	if again := m.Search(context.Background(), "!!").Candidates[0].ID; again != a {
		t.Errorf("id not stable: %q then %q", a, again)
	}
}
