package notify

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func makeNotifications(n int) []*model.Notification {
	out := make([]*model.Notification, n)
	for i := range out {
		out[i] = &model.Notification{ID: "n" + strconv.Itoa(i)}
	}
	return out
}

func TestCenter_OpenRefreshesFeedAndCounter(t *testing.T) {
	a := &MockAPI{}
	a.On("Notifications", mock.Anything, BatchSize).Return(makeNotifications(3), nil).Once()
	a.On("UnreadCount", mock.Anything).Return(3, nil).Once()

	c := NewCenter(a)
	require.NoError(t, c.Open(context.Background()))

	assert.Len(t, c.Items(), 3)
	assert.Equal(t, 3, c.Unread())
	// A short page means the feed is exhausted.
	assert.False(t, c.HasMore())
	a.AssertExpectations(t)
}

func TestCenter_LoadMoreGrowsWindow(t *testing.T) {
	a := &MockAPI{}
	// First open returns a full batch, so more is assumed.
	a.On("Notifications", mock.Anything, BatchSize).Return(makeNotifications(BatchSize), nil).Once()
	a.On("UnreadCount", mock.Anything).Return(0, nil)
	// Load more re-requests from the start with a grown limit.
	a.On("Notifications", mock.Anything, 2*BatchSize).Return(makeNotifications(BatchSize+20), nil).Once()

	c := NewCenter(a)
	require.NoError(t, c.Open(context.Background()))
	require.True(t, c.HasMore())

	require.NoError(t, c.LoadMore(context.Background()))

	items := c.Items()
	assert.Len(t, items, BatchSize+20)
	assert.False(t, c.HasMore())

	// No duplicate ids across load-more calls.
	seen := map[string]bool{}
	for _, n := range items {
		assert.False(t, seen[n.ID], "duplicate notification id %s", n.ID)
		seen[n.ID] = true
	}
	a.AssertExpectations(t)
}

func TestCenter_LoadMoreAfterExhaustionIsNoop(t *testing.T) {
	a := &MockAPI{}
	a.On("Notifications", mock.Anything, BatchSize).Return(makeNotifications(2), nil).Once()
	a.On("UnreadCount", mock.Anything).Return(0, nil)

	c := NewCenter(a)
	require.NoError(t, c.Open(context.Background()))

	require.NoError(t, c.LoadMore(context.Background()))
	a.AssertNumberOfCalls(t, "Notifications", 1)
}

func TestCenter_DedupesShiftedWindow(t *testing.T) {
	a := &MockAPI{}
	dup := makeNotifications(3)
	dup = append(dup, &model.Notification{ID: "n1"})
	a.On("Notifications", mock.Anything, BatchSize).Return(dup, nil).Once()
	a.On("UnreadCount", mock.Anything).Return(0, nil)

	c := NewCenter(a)
	require.NoError(t, c.Open(context.Background()))

	assert.Len(t, c.Items(), 3)
}

func TestCenter_UnauthorizedResetsUnread(t *testing.T) {
	a := &MockAPI{}
	a.On("UnreadCount", mock.Anything).Return(5, nil).Once()
	a.On("UnreadCount", mock.Anything).Return(0, api.NewError(api.ErrorCodeUnauthorized, http.StatusUnauthorized, "unauthorized")).Once()

	c := NewCenter(a)
	require.NoError(t, c.RefreshUnread(context.Background()))
	require.Equal(t, 5, c.Unread())

	// Session expired: counter resets silently instead of erroring.
	require.NoError(t, c.RefreshUnread(context.Background()))
	assert.Equal(t, 0, c.Unread())
}

func TestCenter_RefreshUnreadPropagatesTransportErrors(t *testing.T) {
	a := &MockAPI{}
	a.On("UnreadCount", mock.Anything).Return(0, errors.New("connection refused"))

	c := NewCenter(a)
	assert.Error(t, c.RefreshUnread(context.Background()))
}

func TestCenter_ClickNavigatesAndRefreshesCounter(t *testing.T) {
	a := &MockAPI{}
	a.On("UnreadCount", mock.Anything).Return(2, nil).Once()

	c := NewCenter(a)
	target, err := c.Click(context.Background(), &model.Notification{ID: "n1", GroupID: "g1"})
	require.NoError(t, err)

	assert.Equal(t, "/groups/g1", target)
	assert.Equal(t, 2, c.Unread())
	a.AssertExpectations(t)
}

func TestCenter_ClickWithoutGroupHasNoTarget(t *testing.T) {
	a := &MockAPI{}
	a.On("UnreadCount", mock.Anything).Return(0, nil).Once()

	c := NewCenter(a)
	target, err := c.Click(context.Background(), &model.Notification{ID: "n1"})
	require.NoError(t, err)
	assert.Empty(t, target)
}

func TestCenter_InFlightGuard(t *testing.T) {
	a := &MockAPI{}
	release := make(chan struct{})
	started := make(chan struct{})
	a.On("Notifications", mock.Anything, BatchSize).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(makeNotifications(1), nil).Once()
	a.On("UnreadCount", mock.Anything).Return(0, nil)

	c := NewCenter(a)

	done := make(chan error, 1)
	go func() {
		done <- c.Open(context.Background())
	}()
	<-started

	// The scroll handler firing back-to-back with the open handler is
	// dropped, not queued.
	require.NoError(t, c.fetch(context.Background(), BatchSize))

	close(release)
	require.NoError(t, <-done)
	a.AssertNumberOfCalls(t, "Notifications", 1)
}
