// Package gazetteer is the static local place lookup consulted before any
// remote search.
package gazetteer

import (
	"regexp"
	"strings"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// Entry is one known place. Code is a short identifier such as an IATA code
// and may be empty. Keywords match when the search term contains them.
type Entry struct {
	ID       string   `toml:"id"`
	Code     string   `toml:"code,omitempty"`
	Name     string   `toml:"name"`
	City     string   `toml:"city,omitempty"`
	Country  string   `toml:"country,omitempty"`
	Address  string   `toml:"address,omitempty"`
	Lat      float64  `toml:"lat"`
	Lon      float64  `toml:"lon"`
	Keywords []string `toml:"keywords,omitempty"`
}

// Candidate converts the entry to a local location candidate.
func (e Entry) Candidate() model.LocationCandidate {
	return model.LocationCandidate{
		ID:       e.ID,
		Name:     e.Name,
		Label:    e.label(),
		Position: model.Coordinate{Lat: e.Lat, Lon: e.Lon},
		Source:   model.SourceLocal,
	}
}

func (e Entry) label() string {
	if e.Address != "" {
		return e.Address
	}
	var parts []string
	if e.City != "" {
		parts = append(parts, e.City)
	}
	if e.Country != "" {
		parts = append(parts, e.Country)
	}
	label := strings.Join(parts, ", ")
	if e.Code != "" {
		if label == "" {
			return e.Code
		}
		label += " (" + e.Code + ")"
	}
	return label
}

func (e Entry) matches(term string) bool {
	for _, field := range []string{e.Code, e.Name, e.City} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	for _, kw := range e.Keywords {
		if kw != "" && strings.Contains(term, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Gazetteer is an ordered, read-only set of entries.
type Gazetteer struct {
	entries []Entry
}

// New builds a gazetteer. Entries with an empty ID or invalid coordinate are
// ignored; later duplicates of an ID are dropped.
func New(entries ...Entry) *Gazetteer {
	g := &Gazetteer{}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" || !(model.Coordinate{Lat: e.Lat, Lon: e.Lon}).Valid() {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		g.entries = append(g.entries, e)
	}
	return g
}

// Default returns the built-in gazetteer plus any extra entries.
func Default(extra ...Entry) *Gazetteer {
	all := make([]Entry, 0, len(builtin)+len(extra))
	all = append(all, builtin...)
	all = append(all, extra...)
	return New(all...)
}

// Len returns the number of entries.
func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.entries)
}

// Match returns the candidates whose code, name or city contains term
// (case-insensitive), plus entries with a keyword contained in term.
// Order follows the gazetteer.
func (g *Gazetteer) Match(term string) []model.LocationCandidate {
	term = strings.ToLower(strings.TrimSpace(term))
	if g == nil || term == "" {
		return nil
	}
	var out []model.LocationCandidate
	for _, e := range g.entries {
		if e.matches(term) {
			out = append(out, e.Candidate())
		}
	}
	return out
}

var codeLabel = regexp.MustCompile(`^\s*([A-Za-z]{3})\s*-\s*\S`)

// ExtractCode pulls a three-letter code out of a "BUD - Budapest" style
// label. A bare three-letter input is returned upper-cased.
func ExtractCode(s string) (string, bool) {
	if m := codeLabel.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1]), true
	}
	s = strings.TrimSpace(s)
	if len(s) == 3 && isLetters(s) {
		return strings.ToUpper(s), true
	}
	return "", false
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
