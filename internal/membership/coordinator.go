// Package membership owns the authoritative client-side view of "my
// relationship to this group" and the join/leave/approve/reject/remove
// mutation protocol, including optimistic local updates.
package membership

import (
	"context"
	"sync"
	"time"

	"github.com/groophq/groopsync/internal/model"
	"github.com/groophq/groopsync/pkg/logger"
	"go.uber.org/zap"
)

// API is the slice of the backend client the coordinator consumes.
type API interface {
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	JoinGroup(ctx context.Context, id string) error
	LeaveGroup(ctx context.Context, id string) error
	PendingMembers(ctx context.Context, id string) ([]*model.Member, error)
	ApproveMember(ctx context.Context, groupID, username string) error
	RejectMember(ctx context.Context, groupID, username string) error
	RemoveMember(ctx context.Context, groupID, username string) error
}

// Confirm gates a destructive mutation. Returning false aborts before any
// request is sent.
type Confirm func() bool

type Coordinator struct {
	api      API
	username string

	mu       sync.Mutex
	group    *model.Group
	pending  []*model.Member
	inFlight bool

	now func() time.Time
}

func NewCoordinator(api API, username string) *Coordinator {
	return &Coordinator{
		api:      api,
		username: username,
		now:      time.Now,
	}
}

func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// Load fetches the group and, for the organizer, the pending-member list.
// Views call it on mount; afterwards freshness comes from poll replaces.
func (c *Coordinator) Load(ctx context.Context, groupID string) error {
	group, err := c.api.GetGroup(ctx, groupID)
	if err != nil {
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.mu.Lock()
	c.group = group
	c.mu.Unlock()

	if model.MembershipStatusFor(group, c.username) == model.MembershipOrganizer {
		return c.RefreshPending(ctx)
	}
	return nil
}

func (c *Coordinator) Group() *model.Group {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group
}

func (c *Coordinator) Pending() []*model.Member {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Member, len(c.pending))
	copy(out, c.pending)
	return out
}

// Status derives the current user's relationship from local state. Exactly
// one of organizer/approved/pending/non_member holds.
func (c *Coordinator) Status() model.MembershipStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.MembershipStatusFor(c.group, c.username)
}

// Join requests membership. Valid only from non_member. On success a pending
// record for the current user is applied locally at once, without waiting for
// the next poll tick. On failure local state is untouched.
func (c *Coordinator) Join(ctx context.Context) error {
	l := logger.FromContext(ctx)

	group, err := c.begin(model.MembershipNonMember)
	if err != nil {
		return err
	}
	defer c.end()

	l.Info("joining group", zap.String("group_id", group.ID), zap.String("username", c.username))

	if err := c.api.JoinGroup(ctx, group.ID); err != nil {
		l.Warn("join failed", zap.String("group_id", group.ID), zap.Error(err))
		return NewError(ErrorCodeRemote, err.Error())
	}

	now := c.now()
	c.mu.Lock()
	if c.group != nil && c.group.FindMember(c.username) == nil {
		c.group.Members = append(c.group.Members, &model.Member{
			Username:  c.username,
			Status:    model.MemberStatusPending,
			JoinedAt:  now,
			UpdatedAt: now,
		})
	}
	c.mu.Unlock()

	return nil
}

// Leave drops an approved membership. Valid only for an approved
// non-organizer, and only after confirm accepts: leaving is destructive. On
// success the local group is cleared — the caller's view is no longer
// authorized to assume membership semantics and must navigate away.
func (c *Coordinator) Leave(ctx context.Context, confirm Confirm) error {
	l := logger.FromContext(ctx)

	group, err := c.begin(model.MembershipApproved)
	if err != nil {
		return err
	}
	defer c.end()

	if confirm != nil && !confirm() {
		return NewError(ErrorCodeDeclined, "leave cancelled")
	}

	l.Info("leaving group", zap.String("group_id", group.ID), zap.String("username", c.username))

	if err := c.api.LeaveGroup(ctx, group.ID); err != nil {
		l.Warn("leave failed", zap.String("group_id", group.ID), zap.Error(err))
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.mu.Lock()
	c.group = nil
	c.pending = nil
	c.mu.Unlock()

	return nil
}

// Approve transitions a pending member to approved. Organizer only. The
// local record flips immediately and the subject leaves the pending cache.
func (c *Coordinator) Approve(ctx context.Context, username string) error {
	l := logger.FromContext(ctx)

	group, err := c.beginOrganizerAction(username, true)
	if err != nil {
		return err
	}
	defer c.end()

	l.Info("approving member", zap.String("group_id", group.ID), zap.String("member", username))

	if err := c.api.ApproveMember(ctx, group.ID, username); err != nil {
		l.Warn("approve failed", zap.String("member", username), zap.Error(err))
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.mu.Lock()
	if c.group != nil {
		if m := c.group.FindMember(username); m != nil {
			m.Status = model.MemberStatusApproved
			m.UpdatedAt = c.now()
		}
	}
	c.mu.Unlock()
	c.dropPending(username)

	return nil
}

// Reject removes a pending member entirely; rejection is not a tombstoned
// state. Organizer only.
func (c *Coordinator) Reject(ctx context.Context, username string) error {
	l := logger.FromContext(ctx)

	group, err := c.beginOrganizerAction(username, true)
	if err != nil {
		return err
	}
	defer c.end()

	l.Info("rejecting member", zap.String("group_id", group.ID), zap.String("member", username))

	if err := c.api.RejectMember(ctx, group.ID, username); err != nil {
		l.Warn("reject failed", zap.String("member", username), zap.Error(err))
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.dropMember(username)
	c.dropPending(username)

	return nil
}

// Remove evicts any member, pending or approved. Organizer only, confirmed.
func (c *Coordinator) Remove(ctx context.Context, username string, confirm Confirm) error {
	l := logger.FromContext(ctx)

	group, err := c.beginOrganizerAction(username, false)
	if err != nil {
		return err
	}
	defer c.end()

	if confirm != nil && !confirm() {
		return NewError(ErrorCodeDeclined, "remove cancelled")
	}

	l.Info("removing member", zap.String("group_id", group.ID), zap.String("member", username))

	if err := c.api.RemoveMember(ctx, group.ID, username); err != nil {
		l.Warn("remove failed", zap.String("member", username), zap.Error(err))
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.dropMember(username)
	c.dropPending(username)

	return nil
}

// ReplaceGroup is the poll-merge policy: a reconciliation tick replaces the
// whole group object. An optimistic record the server has not caught up with
// yet gets overwritten — the accepted eventual-consistency trade-off, not a
// bug to patch around.
func (c *Coordinator) ReplaceGroup(group *model.Group) {
	c.mu.Lock()
	c.group = group
	c.mu.Unlock()
}

// RefreshPending replaces the organizer's pending cache from the server. It
// runs on its own poll loop, not synchronized with the group poll.
func (c *Coordinator) RefreshPending(ctx context.Context) error {
	c.mu.Lock()
	group := c.group
	c.mu.Unlock()
	if group == nil {
		return nil
	}

	pending, err := c.api.PendingMembers(ctx, group.ID)
	if err != nil {
		return NewError(ErrorCodeRemote, err.Error())
	}

	c.mu.Lock()
	c.pending = pending
	c.mu.Unlock()
	return nil
}

// begin validates the caller's own status and takes the in-flight fence.
func (c *Coordinator) begin(required model.MembershipStatus) (*model.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, NewError(ErrorCodeInFlight, "another mutation is still in flight")
	}
	if c.group == nil {
		return nil, NewError(ErrorCodeNotAllowed, "no group loaded")
	}
	if status := model.MembershipStatusFor(c.group, c.username); status != required {
		return nil, NewError(ErrorCodeNotAllowed, "operation not allowed from status "+string(status))
	}

	c.inFlight = true
	return c.group, nil
}

// beginOrganizerAction validates an organizer mutation against a target
// member. pendingOnly restricts the target to pending records.
func (c *Coordinator) beginOrganizerAction(username string, pendingOnly bool) (*model.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, NewError(ErrorCodeInFlight, "another mutation is still in flight")
	}
	if c.group == nil {
		return nil, NewError(ErrorCodeNotAllowed, "no group loaded")
	}
	if model.MembershipStatusFor(c.group, c.username) != model.MembershipOrganizer {
		return nil, NewError(ErrorCodeNotAllowed, "only the organizer may manage members")
	}

	target := c.group.FindMember(username)
	if target == nil {
		target = findIn(c.pending, username)
	}
	if target == nil {
		return nil, NewError(ErrorCodeNotAllowed, "no membership record for "+username)
	}
	if pendingOnly && target.Status != model.MemberStatusPending {
		return nil, NewError(ErrorCodeNotAllowed, username+" is not pending")
	}

	c.inFlight = true
	return c.group, nil
}

func (c *Coordinator) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *Coordinator) dropMember(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.group == nil {
		return
	}
	members := c.group.Members[:0]
	for _, m := range c.group.Members {
		if m.Username != username {
			members = append(members, m)
		}
	}
	c.group.Members = members
}

func (c *Coordinator) dropPending(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := c.pending[:0]
	for _, m := range c.pending {
		if m.Username != username {
			pending = append(pending, m)
		}
	}
	c.pending = pending
}

func findIn(members []*model.Member, username string) *model.Member {
	for _, m := range members {
		if m.Username == username {
			return m
		}
	}
	return nil
}
