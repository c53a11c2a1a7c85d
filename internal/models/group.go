package models

// Group is a reading circle. A group owns at most one active hatm at a
// time; completed hatms are kept for history.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group.
	Name string

	// InviteCode is the 8-character uppercase code new members join with.
	InviteCode string

	// CreatorID is the user who created the group.
	CreatorID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is the join relationship between a user and a group.
// Membership is unique per (group, user) pair.
type Member struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// GroupID is the group joined.
	GroupID string

	// UserID is the joining user.
	UserID string

	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64
}
