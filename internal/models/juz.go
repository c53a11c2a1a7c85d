package models

// TotalJuz is the number of portions in one complete reading.
const TotalJuz = 30

// JuzStatus is the state of one assigned portion. Debt is assigned by
// the service when a hatm expires with the portion unread; clients only
// ever read it back.
type JuzStatus string

const (
	JuzPending   JuzStatus = "pending"
	JuzCompleted JuzStatus = "completed"
	JuzDebt      JuzStatus = "debt"
)

// JuzAssignment binds one juz number to a reader slot within a hatm.
// All 30 assignments exist from hatm creation; UserID is empty while
// the slot is still waiting for a member to join.
//
// The status is the single source of truth. The legacy is_debt boolean
// on the wire is derived from it at the serialization boundary and is
// never stored.
type JuzAssignment struct {
	// ID is the unique identifier for the assignment (UUID format).
	ID string

	// HatmID is the owning hatm.
	HatmID string

	// UserID is the assigned reader, empty if unassigned.
	UserID string

	// JuzNumber is the portion number, 1-30, unique within a hatm.
	JuzNumber int

	// Status is the reading state of this portion.
	Status JuzStatus

	// CompletedAt is set only when Status becomes JuzCompleted.
	CompletedAt int64
}
