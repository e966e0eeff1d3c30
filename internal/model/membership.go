package model

type MembershipStatus string

const (
	MembershipOrganizer MembershipStatus = "organizer"
	MembershipApproved  MembershipStatus = "approved"
	MembershipPending   MembershipStatus = "pending"
	MembershipNonMember MembershipStatus = "non_member"
)

// MembershipStatusFor derives the current user's relationship to a group.
// Exactly one status holds for any (group, user) pair. The organizer check
// runs first: the organizer is implicitly approved and may or may not also
// appear in Members, so their record (if any) is never consulted.
func MembershipStatusFor(g *Group, username string) MembershipStatus {
	if username == "" || g == nil {
		return MembershipNonMember
	}
	if g.OrganizerUsername == username {
		return MembershipOrganizer
	}
	if m := g.FindMember(username); m != nil {
		switch m.Status {
		case MemberStatusApproved:
			return MembershipApproved
		case MemberStatusPending:
			return MembershipPending
		}
	}
	return MembershipNonMember
}
