package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/groophq/groopsync/internal/model"
)

func (c *Client) Notifications(ctx context.Context, limit int) ([]*model.Notification, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var notifications []*model.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", query, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}
