package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired covers both wall-clock expiry and logical expiry
	// via deactivation by a later redemption of the same invite.
	ErrSessionExpired = errors.New("session expired")
)
