package api

import (
	"context"
	"net/http"

	"github.com/groophq/groopsync/internal/model"
)

// ProbeSession hits the dashboard endpoint to discover whether a browser
// session exists. A 401 is the normal signed-out answer, not a failure.
func (c *Client) ProbeSession(ctx context.Context) (*model.Profile, error) {
	var res struct {
		Profile *model.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &res); err != nil {
		return nil, err
	}
	return res.Profile, nil
}

func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) AdminMessage(ctx context.Context) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/adminmessage", nil, nil, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
