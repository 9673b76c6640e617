// Package search merges local gazetteer matches with a remote location
// provider.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/theirongolddev/tripdeck/internal/model"
)

// ErrRemoteSearch wraps every remote provider failure recorded in a Result.
var ErrRemoteSearch = errors.New("search: remote lookup failed")

const (
	// MinTermLength is the shortest trimmed term that is searched.
	MinTermLength = 2
	// DefaultLimit caps the number of candidates shown.
	DefaultLimit = 8
)

// DefaultFallback is where synthetic candidates are placed (Singapore).
var DefaultFallback = model.Coordinate{Lat: 1.3521, Lon: 103.8198}

// Provider is a remote location search.
type Provider interface {
	SearchLocations(ctx context.Context, term string) ([]model.LocationCandidate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, term string) ([]model.LocationCandidate, error)

// SearchLocations implements Provider.
func (f ProviderFunc) SearchLocations(ctx context.Context, term string) ([]model.LocationCandidate, error) {
	return f(ctx, term)
}

// Local is a synchronous local lookup such as the gazetteer.
type Local interface {
	Match(term string) []model.LocationCandidate
}

// Options tunes a Merger.
type Options struct {
	Limit         int
	Timeout       time.Duration // applied to each remote call; 0 means none
	Fallback      model.Coordinate
	FallbackLabel string
}

// Result is one merged search outcome.
type Result struct {
	Term       string
	Candidates []model.LocationCandidate
	TooShort   bool
	Synthetic  bool
	LocalCount int
	RemoteErr  error // wraps ErrRemoteSearch; never fatal
}

// Empty reports whether the result has no candidates.
func (r Result) Empty() bool { return len(r.Candidates) == 0 }

// Merger combines local and remote lookups.
type Merger struct {
	local  Local
	remote Provider
	opts   Options
}

// NewMerger returns a merger. Either source may be nil.
func NewMerger(local Local, remote Provider, opts Options) *Merger {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if !opts.Fallback.Valid() || opts.Fallback == (model.Coordinate{}) {
		opts.Fallback = DefaultFallback
	}
	if opts.FallbackLabel == "" {
		opts.FallbackLabel = "Approximate location"
	}
	return &Merger{local: local, remote: remote, opts: opts}
}

// Search runs a local match, then the remote provider, and merges the two
// with local entries winning identifier collisions. Remote failures fall
// back to the local set. An otherwise empty result gets one synthetic
// candidate built from the term.
func (m *Merger) Search(ctx context.Context, term string) Result {
	term = strings.TrimSpace(term)
	res := Result{Term: term}
	if utf8.RuneCountInString(term) < MinTermLength {
		res.TooShort = true
		return res
	}

	seen := make(map[string]struct{})
	if m.local != nil {
		for _, c := range m.local.Match(term) {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			c.Source = model.SourceLocal
			res.Candidates = append(res.Candidates, c)
		}
	}
	res.LocalCount = len(res.Candidates)

	if m.remote != nil {
		remote, err := m.callRemote(ctx, term)
		if err != nil {
			res.RemoteErr = err
		}
		for _, c := range remote {
			c, ok := normalize(c)
			if !ok {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			res.Candidates = append(res.Candidates, c)
		}
	}

	if len(res.Candidates) == 0 {
		res.Candidates = []model.LocationCandidate{m.synthetic(term)}
		res.Synthetic = true
	}
	if len(res.Candidates) > m.opts.Limit {
		res.Candidates = res.Candidates[:m.opts.Limit]
	}
	return res
}

type remoteResult struct {
	cands []model.LocationCandidate
	err   error
}

func (m *Merger) callRemote(ctx context.Context, term string) ([]model.LocationCandidate, error) {
	if m.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	done := make(chan remoteResult, 1)
	go func() {
		cands, err := m.remote.SearchLocations(ctx, term)
		done <- remoteResult{cands: cands, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrRemoteSearch, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemoteSearch, r.err)
		}
		return r.cands, nil
	}
}

// normalize fills in missing identifiers and labels and rejects candidates
// without a usable coordinate.
func normalize(c model.LocationCandidate) (model.LocationCandidate, bool) {
	if !c.Position.Valid() {
		return c, false
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Label = strings.TrimSpace(c.Label)
	if c.Name == "" && c.Label == "" {
		return c, false
	}
	if c.Name == "" {
		c.Name = c.Label
	}
	if c.Label == "" {
		c.Label = c.Name
	}
	if c.ID == "" {
		c.ID = "remote-" + uuid.NewString()
	}
	c.Source = model.SourceRemote
	return c, true
}

func (m *Merger) synthetic(term string) model.LocationCandidate {
	return model.LocationCandidate{
		ID:       "fallback-" + slug(term),
		Name:     term + " (Unverified Location)",
		Label:    m.opts.FallbackLabel,
		Position: m.opts.Fallback,
		Source:   model.SourceFallback,
	}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	if out := strings.TrimSuffix(b.String(), "-"); out != "" {
		return out
	}
	// Symbol-only terms get a stable name-based ID so different terms differ.
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s)).String()[:8]
}
