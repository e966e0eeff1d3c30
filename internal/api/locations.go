package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/groophq/groopsync/internal/model"
)

// ValidateLocation exchanges a provider place id for the canonical location
// object the backend will actually persist. Group payloads must carry only
// validated locations, never raw client-side candidates.
func (c *Client) ValidateLocation(ctx context.Context, placeID string) (*model.Location, error) {
	query := url.Values{}
	query.Set("place_id", placeID)

	var loc model.Location
	if err := c.do(ctx, http.MethodGet, "/api/locations/validate", query, nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
