// Package models defines the core domain entities for the hatm service.
//
// Entities are created through the service layer and persisted via
// storage.Store. Wire types (including the denormalized progress
// aggregates) live in pkg/api.
//
// Timestamps are Unix seconds; a zero timestamp means "not set".
package models

// User is a Telegram account known to the service. Users are created
// lazily the first time a valid init-data payload for them is seen.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// TelegramID is the numeric Telegram account ID (unique).
	TelegramID int64

	// Username is the Telegram @username, empty if the account has none.
	Username string

	// FirstName is the display name from the Telegram profile.
	FirstName string

	// CreatedAt is the Unix timestamp when the user was first seen.
	CreatedAt int64
}
