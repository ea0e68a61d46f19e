package domain

import "errors"

var (
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteNotActive covers both revoked and consumed invites; the
	// candidate-facing error does not distinguish the two causes.
	ErrInviteNotActive = errors.New("invite not active")
	ErrInviteExpired   = errors.New("invite expired")
	ErrInviteMaxUses   = errors.New("invite max uses exceeded")

	ErrInvalidInterview = errors.New("invalid_interview")
	ErrInvalidMaxUses   = errors.New("invalid_max_uses")
	ErrInvalidExpiry    = errors.New("invalid_expiry_days")
)
