package model

import "time"

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
)

type Member struct {
	Username  string       `json:"username" validate:"required"`
	Status    MemberStatus `json:"status" validate:"required"`
	JoinedAt  time.Time    `json:"joined_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Group struct {
	ID                string    `json:"id"`
	Title             string    `json:"title" validate:"required"`
	Description       string    `json:"description"`
	OrganizerUsername string    `json:"organizer_username"`
	ScheduledAt       time.Time `json:"scheduled_at" validate:"required"`
	MaxMembers        int       `json:"max_members" validate:"required,gte=2"`
	Cost              float64   `json:"cost" validate:"gte=0"`
	ActivityType      string    `json:"activity_type" validate:"required"`
	SkillLevel        string    `json:"skill_level"`
	Location          *Location `json:"location" validate:"required"`
	Members           []*Member `json:"members"`
	CreatedAt         time.Time `json:"created_at"`
}

// FindMember returns the membership record for username, or nil. The
// organizer is implicit and usually has no record (see MembershipStatusFor).
func (g *Group) FindMember(username string) *Member {
	for _, m := range g.Members {
		if m.Username == username {
			return m
		}
	}
	return nil
}

// ApprovedCount counts explicit approved records only; the organizer is not
// included unless the server lists them in Members.
func (g *Group) ApprovedCount() int {
	n := 0
	for _, m := range g.Members {
		if m.Status == MemberStatusApproved {
			n++
		}
	}
	return n
}

// PendingMembers returns the members awaiting organizer approval.
func (g *Group) PendingMembers() []*Member {
	var pending []*Member
	for _, m := range g.Members {
		if m.Status == MemberStatusPending {
			pending = append(pending, m)
		}
	}
	return pending
}
