// Package api defines the JSON wire types of the hatm HTTP contract.
// Both the server handlers and the Go client speak these shapes, so the
// field names here are the contract: changing a tag is a breaking change.
package api

import "github.com/hatmapp/hatm/internal/models"

// User is the authenticated account as returned by /api/users/me.
type User struct {
	ID         string `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
}

// Group is the summary shape returned by list/create/join endpoints.
type Group struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	InviteCode    string `json:"invite_code"`
	CreatorID     string `json:"creator_id"`
	CreatedAt     int64  `json:"created_at"`
	MembersCount  int    `json:"members_count"`
	HasActiveHatm bool   `json:"has_active_hatm"`
}

// Member is one group membership with denormalized profile fields.
type Member struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	JoinedAt  int64  `json:"joined_at"`
}

// GroupDetail is the full group view: members plus the active hatm, if any.
type GroupDetail struct {
	Group
	Members    []Member `json:"members"`
	ActiveHatm *Hatm    `json:"active_hatm"`
}

// Hatm is the wire shape of a hatm. StartedAt and EndsAt are zero until
// the hatm is started.
type Hatm struct {
	ID                string            `json:"id"`
	GroupID           string            `json:"group_id"`
	DurationDays      int               `json:"duration_days"`
	ParticipantsCount int               `json:"participants_count"`
	Status            models.HatmStatus `json:"status"`
	StartedAt         int64             `json:"started_at,omitempty"`
	EndsAt            int64             `json:"ends_at,omitempty"`
	CreatedAt         int64             `json:"created_at"`
}

// HatmDetail is a hatm together with its 30 juz assignments.
type HatmDetail struct {
	Hatm
	JuzAssignments []Juz `json:"juz_assignments"`
}

// Juz is one assignment with denormalized reader profile fields.
//
// IsDebt duplicates Status for older consumers. Status is authoritative:
// servers always write IsDebt as Status == debt, and well-behaved clients
// derive debt display from Status via Debt rather than reading the flag.
type Juz struct {
	ID          string           `json:"id"`
	JuzNumber   int              `json:"juz_number"`
	Status      models.JuzStatus `json:"status"`
	UserID      string           `json:"user_id,omitempty"`
	Username    string           `json:"username,omitempty"`
	FirstName   string           `json:"first_name,omitempty"`
	CompletedAt int64            `json:"completed_at,omitempty"`
	IsDebt      bool             `json:"is_debt"`
}

// Debt reports whether the portion is in debt, trusting Status.
func (j Juz) Debt() bool {
	return j.Status == models.JuzDebt
}

// Consistent reports whether the redundant IsDebt flag agrees with
// Status. Every snapshot a compliant server emits satisfies this.
func (j Juz) Consistent() bool {
	return j.IsDebt == (j.Status == models.JuzDebt)
}

// HatmProgress is the derived progress aggregate for one hatm.
// ProgressPercent is round(100 * completed / 30).
type HatmProgress struct {
	TotalJuzs       int   `json:"total_juzs"`
	CompletedJuzs   int   `json:"completed_juzs"`
	PendingJuzs     int   `json:"pending_juzs"`
	DebtJuzs        int   `json:"debt_juzs"`
	ProgressPercent int   `json:"progress_percent"`
	JuzAssignments  []Juz `json:"juz_assignments"`
}

// UserJuzStats summarizes every assignment a user holds across hatms.
type UserJuzStats struct {
	TotalAssigned int   `json:"total_assigned"`
	Completed     int   `json:"completed"`
	Pending       int   `json:"pending"`
	Debts         int   `json:"debts"`
	Juzs          []Juz `json:"juzs"`
}

// UserDebts lists a user's outstanding debt portions.
type UserDebts struct {
	Debts      []Juz `json:"debts"`
	TotalDebts int   `json:"total_debts"`
}

// CreateGroupRequest is the body of POST /api/groups.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// JoinGroupRequest is the body of POST /api/groups/join.
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=8,alphanum"`
}

// CreateHatmRequest is the body of POST /api/groups/{id}/hatms.
type CreateHatmRequest struct {
	DurationDays      int `json:"duration_days" validate:"required,min=1,max=30"`
	ParticipantsCount int `json:"participants_count" validate:"required,min=1,max=30"`
}

// Error is the uniform error envelope for every non-2xx response.
type Error struct {
	Detail string `json:"detail"`
}
