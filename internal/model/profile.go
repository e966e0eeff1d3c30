package model

import "time"

type Profile struct {
	Username  string    `json:"username" validate:"required"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats is the cosmetic platform counters block shown on the landing page.
type Stats struct {
	Groups  int `json:"groups"`
	Users   int `json:"users"`
	Matches int `json:"matches"`
}
