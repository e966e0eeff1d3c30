package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/groophq/groopsync/internal/model"
)

// SortCreatedDesc is the default listing order.
const SortCreatedDesc = "created_desc"

type ListGroupsParams struct {
	Search       string
	ActivityType string
	SkillLevel   string
	Offset       int
	Limit        int
	Sort         string
}

func (c *Client) ListGroups(ctx context.Context, params ListGroupsParams) ([]*model.Group, error) {
	if params.Sort == "" {
		params.Sort = SortCreatedDesc
	}

	query := url.Values{}
	query.Set("search", params.Search)
	query.Set("activity_type", params.ActivityType)
	query.Set("skill_level", params.SkillLevel)
	query.Set("offset", strconv.Itoa(params.Offset))
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("sort", params.Sort)

	var groups []*model.Group
	if err := c.do(ctx, http.MethodGet, "/groups", query, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+id, nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) CreateGroup(ctx context.Context, group *model.Group) (*model.Group, error) {
	var created model.Group
	if err := c.do(ctx, http.MethodPost, "/api/groups", nil, group, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id string, group *model.Group) (*model.Group, error) {
	var updated model.Group
	if err := c.do(ctx, http.MethodPut, "/api/groups/"+id, nil, group, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) JoinGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/groups/"+id+"/join", nil, nil, nil)
}

func (c *Client) LeaveGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/groups/"+id+"/leave", nil, nil, nil)
}

// PendingMembers is organizer-only; the server enforces authorization.
func (c *Client) PendingMembers(ctx context.Context, id string) ([]*model.Member, error) {
	var members []*model.Member
	if err := c.do(ctx, http.MethodGet, "/api/groups/"+id+"/pending-members", nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) ApproveMember(ctx context.Context, groupID, username string) error {
	return c.memberAction(ctx, groupID, username, "approve")
}

func (c *Client) RejectMember(ctx context.Context, groupID, username string) error {
	return c.memberAction(ctx, groupID, username, "reject")
}

func (c *Client) RemoveMember(ctx context.Context, groupID, username string) error {
	return c.memberAction(ctx, groupID, username, "remove")
}

func (c *Client) memberAction(ctx context.Context, groupID, username, action string) error {
	path := "/api/groups/" + groupID + "/members/" + username + "/" + action
	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}
