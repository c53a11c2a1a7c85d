// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/hatmapp/hatm/internal/models"
)

// Store defines the persistence interface for the hatm service. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Getters return (nil, nil) when the entity does not exist; the service
// layer translates that into domain errors.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated by
	// the store if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by internal ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByTelegramID retrieves a user by Telegram account ID.
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Missing users
	// are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// UpdateUser updates a user's profile fields.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a new group.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// GetGroupByInviteCode retrieves a group by its (uppercase) invite code.
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByUser retrieves every group the user is a member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember persists a new membership.
	AddMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves the membership for a (group, user) pair.
	GetMember(ctx context.Context, groupID, userID string) (*models.Member, error)

	// ListMembers retrieves a group's memberships in join order.
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	// CountMembers returns the number of members in a group.
	CountMembers(ctx context.Context, groupID string) (int, error)

	// CreateHatm persists a hatm together with its juz assignments in
	// one transaction.
	CreateHatm(ctx context.Context, hatm *models.Hatm, assignments []*models.JuzAssignment) error

	// GetHatm retrieves a hatm by ID.
	GetHatm(ctx context.Context, id string) (*models.Hatm, error)

	// GetActiveHatm retrieves the group's active hatm, if any.
	GetActiveHatm(ctx context.Context, groupID string) (*models.Hatm, error)

	// ListHatmsByGroup retrieves a group's hatms, newest first.
	ListHatmsByGroup(ctx context.Context, groupID string) ([]*models.Hatm, error)

	// UpdateHatm updates a hatm's status and timestamps.
	UpdateHatm(ctx context.Context, hatm *models.Hatm) error

	// GetJuz retrieves a juz assignment by ID.
	GetJuz(ctx context.Context, id string) (*models.JuzAssignment, error)

	// ListJuzByHatm retrieves a hatm's assignments ordered by juz number.
	ListJuzByHatm(ctx context.Context, hatmID string) ([]*models.JuzAssignment, error)

	// ListJuzByUser retrieves every assignment held by a user, ordered
	// by juz number.
	ListJuzByUser(ctx context.Context, userID string) ([]*models.JuzAssignment, error)

	// UpdateJuz updates an assignment's owner, status and completion time.
	UpdateJuz(ctx context.Context, juz *models.JuzAssignment) error

	// MarkPendingAsDebt flips every pending assignment of a hatm to
	// debt. Used by the expiry sweep.
	MarkPendingAsDebt(ctx context.Context, hatmID string) error

	// Close releases any resources held by the store.
	Close() error
}
