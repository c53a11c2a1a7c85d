// Package service implements the hatm domain workflows over a
// storage.Store. Handlers map the sentinel errors below onto HTTP
// status codes; their messages are the `detail` strings clients see.
package service

import "errors"

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrHatmNotFound  = errors.New("hatm not found")
	ErrJuzNotFound   = errors.New("juz not found")

	ErrNotMember  = errors.New("you are not a member of this group")
	ErrNotYourJuz = errors.New("this juz is not assigned to you")

	ErrInvalidInviteCode = errors.New("invalid invite code")

	ErrActiveHatmExists = errors.New("group already has an active hatm")
	ErrHatmNotPending   = errors.New("hatm has already been started or completed")
	ErrHatmNotStarted   = errors.New("hatm has not been started")
	ErrHatmCompleted    = errors.New("hatm is already completed")
	ErrNoMembers        = errors.New("group has no members")
)
