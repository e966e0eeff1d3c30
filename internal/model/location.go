package model

// LocationCandidate is a lightweight suggestion from the external place
// provider. Candidates are provisional: they must pass server validation
// before they may appear in a group payload.
type LocationCandidate struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	PlaceID          string  `json:"place_id"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// Location is the canonical, server-validated place persisted with a group.
type Location struct {
	Name             string  `json:"name" validate:"required"`
	FormattedAddress string  `json:"formatted_address"`
	PlaceID          string  `json:"place_id" validate:"required"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}
