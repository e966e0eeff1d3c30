package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
)

const placesEndpoint = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// PlacesProvider talks to the Google Places text-search API with the key
// from VITE_GOOGLE_MAPS_API_KEY.
type PlacesProvider struct {
	key  string
	http *http.Client
}

func NewPlacesProvider(key string) *PlacesProvider {
	return &PlacesProvider{
		key: key,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *PlacesProvider) WithHTTPClient(h *http.Client) *PlacesProvider {
	p.http = h
	return p
}

func (p *PlacesProvider) SearchPlaces(ctx context.Context, query string) ([]*model.LocationCandidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("key", p.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, placesEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build places request")
	}

	res, err := p.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "place search failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("place search returned %s", res.Status)
	}

	var payload struct {
		Results []struct {
			Name             string `json:"name"`
			FormattedAddress string `json:"formatted_address"`
			PlaceID          string `json:"place_id"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode places response")
	}

	candidates := make([]*model.LocationCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		candidates = append(candidates, &model.LocationCandidate{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			PlaceID:          r.PlaceID,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
		})
	}
	return candidates, nil
}
