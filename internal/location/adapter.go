// Package location resolves free-text place queries into the canonical
// location persisted with a group: debounced candidate search against the
// external provider, user selection, then server validation at submit time.
package location

import (
	"context"
	"sync"
	"time"

	"github.com/groophq/groopsync/internal/debounce"
	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
)

const (
	// MinQueryLen is the shortest query worth sending to the provider.
	MinQueryLen = 3
	// MaxCandidates caps the suggestion list.
	MaxCandidates = 5
)

var (
	ErrNoSelection = errors.New("no location selected")
	ErrQueryShort  = errors.New("query too short")
)

// Provider is the external place-search service, reached directly from the
// client.
type Provider interface {
	SearchPlaces(ctx context.Context, query string) ([]*model.LocationCandidate, error)
}

// Validator exchanges a provisional place id for the canonical location. In
// production this is the backend's validate endpoint.
type Validator interface {
	ValidateLocation(ctx context.Context, placeID string) (*model.Location, error)
}

type Adapter struct {
	provider  Provider
	validator Validator
	search    *debounce.Debouncer

	mu         sync.Mutex
	candidates []*model.LocationCandidate
	selected   *model.LocationCandidate
}

func NewAdapter(provider Provider, validator Validator, searchDelay time.Duration) *Adapter {
	return &Adapter{
		provider:  provider,
		validator: validator,
		search:    debounce.New(searchDelay),
	}
}

// Search schedules a debounced candidate lookup. Queries under MinQueryLen
// clear the list without touching the provider. A response superseded by
// newer keystrokes is discarded.
func (a *Adapter) Search(ctx context.Context, query string) {
	if len(query) < MinQueryLen {
		a.search.Stop()
		a.mu.Lock()
		a.candidates = nil
		a.mu.Unlock()
		return
	}

	a.search.Trigger(func(seq uint64) {
		found, err := a.provider.SearchPlaces(ctx, query)
		if err != nil || a.search.Stale(seq) {
			return
		}
		if len(found) > MaxCandidates {
			found = found[:MaxCandidates]
		}
		a.mu.Lock()
		a.candidates = found
		a.mu.Unlock()
	})
}

func (a *Adapter) Candidates() []*model.LocationCandidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*model.LocationCandidate, len(a.candidates))
	copy(out, a.candidates)
	return out
}

// Select stores the chosen candidate as the provisional location and closes
// the suggestion list. The candidate stays unvalidated until Validate.
func (a *Adapter) Select(c *model.LocationCandidate) {
	a.mu.Lock()
	a.selected = c
	a.candidates = nil
	a.mu.Unlock()
}

func (a *Adapter) Selected() *model.LocationCandidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Validate runs at form submission, not at selection time: the provisional
// place id goes to the backend, which returns the trusted location object.
// Only that object may appear in a group payload. Failure blocks submission;
// no fallback location is fabricated.
func (a *Adapter) Validate(ctx context.Context) (*model.Location, error) {
	a.mu.Lock()
	selected := a.selected
	a.mu.Unlock()

	if selected == nil {
		return nil, ErrNoSelection
	}

	loc, err := a.validator.ValidateLocation(ctx, selected.PlaceID)
	if err != nil {
		return nil, errors.Wrap(err, "location validation failed")
	}
	return loc, nil
}

// Reset clears selection and candidates, e.g. when the form unmounts.
func (a *Adapter) Reset() {
	a.search.Stop()
	a.mu.Lock()
	a.candidates = nil
	a.selected = nil
	a.mu.Unlock()
}
