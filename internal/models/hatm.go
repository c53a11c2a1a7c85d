package models

// HatmStatus is the lifecycle state of a hatm.
type HatmStatus string

const (
	HatmPending   HatmStatus = "pending"
	HatmActive    HatmStatus = "active"
	HatmCompleted HatmStatus = "completed"
)

// Hatm is one collective reading of the 30 juz by a group.
//
// Lifecycle: pending (at creation) -> active (explicit start, sets
// StartedAt and EndsAt) -> completed (explicit finish, or the expiry
// sweep once EndsAt has passed). Completed is terminal.
type Hatm struct {
	// ID is the unique identifier for the hatm (UUID format).
	ID string

	// GroupID is the owning group.
	GroupID string

	// DurationDays is the configured reading window, 1-30.
	DurationDays int

	// ParticipantsCount is the configured number of reader slots, 1-30.
	ParticipantsCount int

	// Status is the lifecycle state.
	Status HatmStatus

	// StartedAt is set on the pending -> active transition.
	StartedAt int64

	// EndsAt is StartedAt + DurationDays, set at the same transition.
	EndsAt int64

	// CreatedAt is the Unix timestamp when the hatm was created.
	CreatedAt int64
}
