// Package notify keeps the notification feed and the unread counter
// consistent across the header widget and detail views. The two signals are
// polled independently; the feed itself is only fetched on user action.
package notify

import (
	"context"
	"sync"

	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/model"
	"github.com/groophq/groopsync/pkg/logger"
	"go.uber.org/zap"
)

// BatchSize is both the first window and the growth step: each "load more"
// re-requests current_count + BatchSize items from the start. The cursor is a
// growing single-page window, not offset pagination.
const BatchSize = 50

type API interface {
	Notifications(ctx context.Context, limit int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
}

type Center struct {
	api API

	mu       sync.Mutex
	items    []*model.Notification
	unread   int
	hasMore  bool
	fetching bool
}

func NewCenter(a API) *Center {
	return &Center{api: a}
}

func (c *Center) Items() []*model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Notification, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

func (c *Center) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// RefreshUnread re-fetches the counter. Runs on the 30s poll loop and again
// on every dropdown open and notification click. A 401 means the session is
// gone: the counter resets to zero and no error is reported.
func (c *Center) RefreshUnread(ctx context.Context) error {
	count, err := c.api.UnreadCount(ctx)
	if api.IsUnauthorized(err) {
		c.mu.Lock()
		c.unread = 0
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.unread = count
	c.mu.Unlock()
	return nil
}

// Open fetches the feed fresh from the start, as happens each time the
// dropdown opens, and refreshes the counter alongside it.
func (c *Center) Open(ctx context.Context) error {
	if err := c.fetch(ctx, BatchSize); err != nil {
		return err
	}
	return c.RefreshUnread(ctx)
}

// LoadMore grows the window by one batch. Fired when the user scrolls near
// the bottom of the feed.
func (c *Center) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	limit := len(c.items) + BatchSize
	c.mu.Unlock()

	return c.fetch(ctx, limit)
}

// fetch replaces the window with up to limit items. The in-progress flag
// keeps the scroll handler and the open handler from overlapping; a call that
// loses the race is dropped, not queued.
func (c *Center) fetch(ctx context.Context, limit int) error {
	c.mu.Lock()
	if c.fetching {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.mu.Unlock()
	}()

	l := logger.FromContext(ctx)

	fetched, err := c.api.Notifications(ctx, limit)
	if err != nil {
		l.Warn("notification fetch failed", zap.Int("limit", limit), zap.Error(err))
		return err
	}

	// Server order is authoritative; the client never re-sorts. Dedupe by id
	// in case concurrent server-side inserts shifted the window.
	seen := make(map[string]struct{}, len(fetched))
	items := make([]*model.Notification, 0, len(fetched))
	for _, n := range fetched {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		items = append(items, n)
	}

	c.mu.Lock()
	c.items = items
	c.hasMore = len(fetched) >= limit
	c.mu.Unlock()

	return nil
}

// Click resolves a notification's navigation target and refreshes the
// counter: opening the referenced group may have just changed read state
// server-side. Read flags are never flipped locally — the next fetch reflects
// whatever the server did.
func (c *Center) Click(ctx context.Context, n *model.Notification) (string, error) {
	target := ""
	if n.GroupID != "" {
		target = "/groups/" + n.GroupID
	}
	return target, c.RefreshUnread(ctx)
}
