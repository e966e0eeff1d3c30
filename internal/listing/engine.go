// Package listing implements offset/limit list fetching for the browse and
// dashboard surfaces: debounced search, immediate filter toggles, append
// pagination with dedupe, and inferred has-more.
package listing

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/debounce"
	"github.com/groophq/groopsync/internal/model"
)

// Page sizes are fixed per listing surface.
const (
	PageSizeBrowse    = 9
	PageSizeDashboard = 6
)

type Fetcher interface {
	ListGroups(ctx context.Context, params api.ListGroupsParams) ([]*model.Group, error)
}

type Filters struct {
	Search       string
	ActivityType string
	SkillLevel   string
}

// NavState mirrors filter state into shareable navigation state. It is a
// write-only sink: the engine never reads it back, so mirroring cannot
// re-trigger a fetch loop. Reading nav state happens once, at mount, via
// Restore.
type NavState interface {
	SetQuery(values url.Values)
}

type Engine struct {
	fetcher  Fetcher
	pageSize int
	search   *debounce.Debouncer
	nav      NavState

	mu      sync.Mutex
	filters Filters
	offset  int
	hasMore bool
	groups  []*model.Group
	seen    map[string]struct{}
	gen     uint64
}

func NewEngine(fetcher Fetcher, pageSize int, searchDelay time.Duration) *Engine {
	return &Engine{
		fetcher:  fetcher,
		pageSize: pageSize,
		search:   debounce.New(searchDelay),
		seen:     make(map[string]struct{}),
	}
}

func (e *Engine) WithNavState(nav NavState) *Engine {
	e.nav = nav
	return e
}

func (e *Engine) Groups() []*model.Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*model.Group, len(e.groups))
	copy(out, e.groups)
	return out
}

func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

func (e *Engine) Filters() Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// Restore seeds the filters from navigation state at mount and issues the
// initial fetch. This is the one read of nav state.
func (e *Engine) Restore(ctx context.Context, values url.Values) error {
	e.mu.Lock()
	e.filters = Filters{
		Search:       values.Get("search"),
		ActivityType: values.Get("activity_type"),
		SkillLevel:   values.Get("skill_level"),
	}
	gen := e.reset()
	e.mu.Unlock()

	return e.load(ctx, gen, 0)
}

// SetSearch folds new search text into the effective query after the
// debounce pause. Typing "a", "ab", "abc" inside the window yields exactly
// one request, for "abc".
func (e *Engine) SetSearch(ctx context.Context, text string) {
	e.search.Trigger(func(uint64) {
		e.mu.Lock()
		e.filters.Search = text
		gen := e.reset()
		e.mu.Unlock()

		e.mirror()
		_ = e.load(ctx, gen, 0)
	})
}

// SetActivityType applies immediately, without debounce.
func (e *Engine) SetActivityType(ctx context.Context, activityType string) error {
	return e.setFilter(ctx, func(f *Filters) { f.ActivityType = activityType })
}

// SetSkillLevel applies immediately, without debounce.
func (e *Engine) SetSkillLevel(ctx context.Context, skillLevel string) error {
	return e.setFilter(ctx, func(f *Filters) { f.SkillLevel = skillLevel })
}

func (e *Engine) setFilter(ctx context.Context, apply func(*Filters)) error {
	// A pending debounced search is superseded by the filter change.
	e.search.Stop()

	e.mu.Lock()
	apply(&e.filters)
	gen := e.reset()
	e.mu.Unlock()

	e.mirror()
	return e.load(ctx, gen, 0)
}

// LoadMore advances the cursor by one page and appends, de-duplicating by
// group id: concurrent creations can shift items across page boundaries.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if !e.hasMore {
		e.mu.Unlock()
		return nil
	}
	gen := e.gen
	offset := e.offset + e.pageSize
	e.mu.Unlock()

	return e.load(ctx, gen, offset)
}

// Close cancels any pending debounced search and invalidates in-flight
// fetches so late responses cannot touch torn-down state.
func (e *Engine) Close() {
	e.search.Stop()
	e.mu.Lock()
	e.gen++
	e.mu.Unlock()
}

// reset clears the accumulated results and bumps the generation so any
// in-flight response for the previous query gets discarded. Caller holds mu.
func (e *Engine) reset() uint64 {
	e.offset = 0
	e.hasMore = false
	e.groups = nil
	e.seen = make(map[string]struct{})
	e.gen++
	return e.gen
}

func (e *Engine) load(ctx context.Context, gen uint64, offset int) error {
	e.mu.Lock()
	params := api.ListGroupsParams{
		Search:       e.filters.Search,
		ActivityType: e.filters.ActivityType,
		SkillLevel:   e.filters.SkillLevel,
		Offset:       offset,
		Limit:        e.pageSize,
	}
	e.mu.Unlock()

	page, err := e.fetcher.ListGroups(ctx, params)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Stale response: the query changed (or the view closed) while this
	// request was in flight.
	if e.gen != gen {
		return nil
	}

	for _, g := range page {
		if _, ok := e.seen[g.ID]; ok {
			continue
		}
		e.seen[g.ID] = struct{}{}
		e.groups = append(e.groups, g)
	}
	e.offset = offset
	// A full page is optimistically assumed to have more behind it.
	e.hasMore = len(page) == e.pageSize
	return nil
}

// mirror writes the effective filters to navigation state so a link to the
// filtered view reproduces it.
func (e *Engine) mirror() {
	if e.nav == nil {
		return
	}

	e.mu.Lock()
	f := e.filters
	e.mu.Unlock()

	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.ActivityType != "" {
		values.Set("activity_type", f.ActivityType)
	}
	if f.SkillLevel != "" {
		values.Set("skill_level", f.SkillLevel)
	}
	e.nav.SetQuery(values)
}
