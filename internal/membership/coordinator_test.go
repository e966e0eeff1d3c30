package membership

import (
	"context"
	"testing"
	"time"

	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func testGroup() *model.Group {
	return &model.Group{
		ID:                "g1",
		Title:             "morning run",
		OrganizerUsername: "olga",
		MaxMembers:        4,
		Members: []*model.Member{
			{Username: "anna", Status: model.MemberStatusApproved},
			{Username: "boris", Status: model.MemberStatusPending},
		},
	}
}

func loadedCoordinator(t *testing.T, api *MockAPI, username string, group *model.Group) *Coordinator {
	t.Helper()

	c := NewCoordinator(api, username).WithClock(fixedClock)
	c.ReplaceGroup(group)
	return c
}

func TestCoordinator_Join(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		setupMocks     func(*MockAPI)
		expectedError  bool
		errorCode      ErrorCode
		expectedStatus model.MembershipStatus
	}{
		{
			name:     "non-member joins, pending applied optimistically",
			username: "dmitry",
			setupMocks: func(a *MockAPI) {
				a.On("JoinGroup", mock.Anything, "g1").Return(nil)
			},
			expectedStatus: model.MembershipPending,
		},
		{
			name:     "failed join leaves status untouched",
			username: "dmitry",
			setupMocks: func(a *MockAPI) {
				a.On("JoinGroup", mock.Anything, "g1").Return(errors.New("group is full"))
			},
			expectedError:  true,
			errorCode:      ErrorCodeRemote,
			expectedStatus: model.MembershipNonMember,
		},
		{
			name:           "pending member cannot join again",
			username:       "boris",
			setupMocks:     func(a *MockAPI) {},
			expectedError:  true,
			errorCode:      ErrorCodeNotAllowed,
			expectedStatus: model.MembershipPending,
		},
		{
			name:           "organizer cannot join",
			username:       "olga",
			setupMocks:     func(a *MockAPI) {},
			expectedError:  true,
			errorCode:      ErrorCodeNotAllowed,
			expectedStatus: model.MembershipOrganizer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &MockAPI{}
			tt.setupMocks(api)

			c := loadedCoordinator(t, api, tt.username, testGroup())
			err := c.Join(context.Background())

			if tt.expectedError {
				require.Error(t, err)
				var mErr *Error
				require.True(t, errors.As(err, &mErr))
				assert.Equal(t, tt.errorCode, mErr.Code)
			} else {
				require.NoError(t, err)
				m := c.Group().FindMember(tt.username)
				require.NotNil(t, m)
				assert.Equal(t, testNow, m.JoinedAt)
				assert.Equal(t, testNow, m.UpdatedAt)
			}

			assert.Equal(t, tt.expectedStatus, c.Status())
			api.AssertExpectations(t)
		})
	}
}

func TestCoordinator_Leave(t *testing.T) {
	t.Run("declined confirmation sends nothing", func(t *testing.T) {
		api := &MockAPI{}
		c := loadedCoordinator(t, api, "anna", testGroup())

		err := c.Leave(context.Background(), func() bool { return false })

		var mErr *Error
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, ErrorCodeDeclined, mErr.Code)
		assert.Equal(t, model.MembershipApproved, c.Status())
		api.AssertNotCalled(t, "LeaveGroup", mock.Anything, mock.Anything)
	})

	t.Run("confirmed leave clears the group", func(t *testing.T) {
		api := &MockAPI{}
		api.On("LeaveGroup", mock.Anything, "g1").Return(nil)
		c := loadedCoordinator(t, api, "anna", testGroup())

		require.NoError(t, c.Leave(context.Background(), func() bool { return true }))
		assert.Nil(t, c.Group())
		assert.Equal(t, model.MembershipNonMember, c.Status())
	})

	t.Run("failed leave keeps membership", func(t *testing.T) {
		api := &MockAPI{}
		api.On("LeaveGroup", mock.Anything, "g1").Return(errors.New("server unavailable"))
		c := loadedCoordinator(t, api, "anna", testGroup())

		err := c.Leave(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, model.MembershipApproved, c.Status())
	})

	t.Run("pending member cannot leave", func(t *testing.T) {
		api := &MockAPI{}
		c := loadedCoordinator(t, api, "boris", testGroup())

		err := c.Leave(context.Background(), nil)
		var mErr *Error
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, ErrorCodeNotAllowed, mErr.Code)
	})
}

func TestCoordinator_ApproveReject(t *testing.T) {
	seedPending := func(t *testing.T, c *Coordinator, api *MockAPI) {
		t.Helper()
		api.On("PendingMembers", mock.Anything, "g1").Return([]*model.Member{
			{Username: "boris", Status: model.MemberStatusPending},
		}, nil).Once()
		require.NoError(t, c.RefreshPending(context.Background()))
	}

	t.Run("approve flips record and empties pending cache", func(t *testing.T) {
		api := &MockAPI{}
		api.On("ApproveMember", mock.Anything, "g1", "boris").Return(nil)
		c := loadedCoordinator(t, api, "olga", testGroup())
		seedPending(t, c, api)

		require.NoError(t, c.Approve(context.Background(), "boris"))

		m := c.Group().FindMember("boris")
		require.NotNil(t, m)
		assert.Equal(t, model.MemberStatusApproved, m.Status)
		assert.Equal(t, testNow, m.UpdatedAt)
		assert.Empty(t, c.Pending())
	})

	t.Run("reject removes record entirely", func(t *testing.T) {
		api := &MockAPI{}
		api.On("RejectMember", mock.Anything, "g1", "boris").Return(nil)
		c := loadedCoordinator(t, api, "olga", testGroup())
		seedPending(t, c, api)

		require.NoError(t, c.Reject(context.Background(), "boris"))

		assert.Nil(t, c.Group().FindMember("boris"))
		assert.Empty(t, c.Pending())
	})

	t.Run("failed approve keeps pending state", func(t *testing.T) {
		api := &MockAPI{}
		api.On("ApproveMember", mock.Anything, "g1", "boris").Return(errors.New("boom"))
		c := loadedCoordinator(t, api, "olga", testGroup())
		seedPending(t, c, api)

		require.Error(t, c.Approve(context.Background(), "boris"))
		assert.Equal(t, model.MemberStatusPending, c.Group().FindMember("boris").Status)
		assert.Len(t, c.Pending(), 1)
	})

	t.Run("approve rejects non-pending target", func(t *testing.T) {
		api := &MockAPI{}
		c := loadedCoordinator(t, api, "olga", testGroup())

		err := c.Approve(context.Background(), "anna")
		var mErr *Error
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, ErrorCodeNotAllowed, mErr.Code)
	})

	t.Run("non-organizer cannot approve", func(t *testing.T) {
		api := &MockAPI{}
		c := loadedCoordinator(t, api, "anna", testGroup())

		err := c.Approve(context.Background(), "boris")
		var mErr *Error
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, ErrorCodeNotAllowed, mErr.Code)
	})
}

func TestCoordinator_Remove(t *testing.T) {
	t.Run("removes approved member after confirmation", func(t *testing.T) {
		api := &MockAPI{}
		api.On("RemoveMember", mock.Anything, "g1", "anna").Return(nil)
		c := loadedCoordinator(t, api, "olga", testGroup())

		require.NoError(t, c.Remove(context.Background(), "anna", func() bool { return true }))
		assert.Nil(t, c.Group().FindMember("anna"))
	})

	t.Run("declined confirmation sends nothing", func(t *testing.T) {
		api := &MockAPI{}
		c := loadedCoordinator(t, api, "olga", testGroup())

		err := c.Remove(context.Background(), "anna", func() bool { return false })
		var mErr *Error
		require.True(t, errors.As(err, &mErr))
		assert.Equal(t, ErrorCodeDeclined, mErr.Code)
		assert.NotNil(t, c.Group().FindMember("anna"))
		api.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	})
}

// A reconciliation tick replaces the whole group object: an optimistic
// pending record absent from a stale server snapshot is overwritten. This is
// the documented eventual-consistency window, not a bug.
func TestCoordinator_PollReplaceOverwritesOptimistic(t *testing.T) {
	api := &MockAPI{}
	api.On("JoinGroup", mock.Anything, "g1").Return(nil)

	c := loadedCoordinator(t, api, "dmitry", testGroup())
	require.NoError(t, c.Join(context.Background()))
	require.Equal(t, model.MembershipPending, c.Status())

	// Stale snapshot: the server has not recorded the join yet.
	c.ReplaceGroup(testGroup())

	assert.Equal(t, model.MembershipNonMember, c.Status())
}

func TestCoordinator_InFlightFence(t *testing.T) {
	api := &MockAPI{}
	release := make(chan struct{})
	api.On("JoinGroup", mock.Anything, "g1").Run(func(mock.Arguments) {
		<-release
	}).Return(nil)

	c := loadedCoordinator(t, api, "dmitry", testGroup())

	done := make(chan error, 1)
	go func() {
		done <- c.Join(context.Background())
	}()

	// Wait until the first mutation holds the fence.
	require.Eventually(t, func() bool {
		err := c.Join(context.Background())
		var mErr *Error
		return errors.As(err, &mErr) && mErr.Code == ErrorCodeInFlight
	}, time.Second, 5*time.Millisecond)

	close(release)
	require.NoError(t, <-done)
}

func TestCoordinator_JoinThenApproveScenario(t *testing.T) {
	group := &model.Group{
		ID:                "g1",
		OrganizerUsername: "olga",
		MaxMembers:        4,
	}

	// User A joins.
	userAPI := &MockAPI{}
	userAPI.On("JoinGroup", mock.Anything, "g1").Return(nil)
	userC := loadedCoordinator(t, userAPI, "a", group)

	require.NoError(t, userC.Join(context.Background()))
	assert.Equal(t, 0, userC.Group().ApprovedCount())
	assert.Len(t, userC.Group().PendingMembers(), 1)
	assert.Equal(t, "a", userC.Group().PendingMembers()[0].Username)

	// The organizer's next poll sees A pending and approves.
	orgAPI := &MockAPI{}
	orgAPI.On("PendingMembers", mock.Anything, "g1").Return([]*model.Member{
		{Username: "a", Status: model.MemberStatusPending},
	}, nil).Once()
	orgAPI.On("ApproveMember", mock.Anything, "g1", "a").Return(nil)

	orgC := loadedCoordinator(t, orgAPI, "olga", &model.Group{
		ID:                "g1",
		OrganizerUsername: "olga",
		MaxMembers:        4,
		Members: []*model.Member{
			{Username: "a", Status: model.MemberStatusPending},
		},
	})
	require.NoError(t, orgC.RefreshPending(context.Background()))
	require.Len(t, orgC.Pending(), 1)

	require.NoError(t, orgC.Approve(context.Background(), "a"))
	assert.Equal(t, 1, orgC.Group().ApprovedCount())
	assert.Empty(t, orgC.Pending())
}

func TestCoordinator_Load(t *testing.T) {
	api := &MockAPI{}
	api.On("GetGroup", mock.Anything, "g1").Return(testGroup(), nil)
	api.On("PendingMembers", mock.Anything, "g1").Return([]*model.Member{
		{Username: "boris", Status: model.MemberStatusPending},
	}, nil)

	c := NewCoordinator(api, "olga")
	require.NoError(t, c.Load(context.Background(), "g1"))

	assert.Equal(t, model.MembershipOrganizer, c.Status())
	assert.Len(t, c.Pending(), 1)
	api.AssertExpectations(t)
}
