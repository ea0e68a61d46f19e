package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// CreateInviteRequest creates an invite for one interview. Zero MaxUses
// or ExpiryDays fall back to the deployment's invite policy defaults.
type CreateInviteRequest struct {
	InterviewID snowflake.ID
	OrgID       snowflake.ID
	MaxUses     int
	ExpiryDays  int
}

type Service interface {
	Create(ctx context.Context, req CreateInviteRequest) (*Invite, error)
	Get(ctx context.Context, id snowflake.ID) (*Invite, error)
	ListByInterview(ctx context.Context, interviewID snowflake.ID) ([]*Invite, error)

	// Revoke and Consume are terminal transitions independent of expiry.
	// Both fail with ErrInviteNotActive when the invite already sits in a
	// terminal state.
	Revoke(ctx context.Context, id snowflake.ID, revokedBy string) (*Invite, error)
	Consume(ctx context.Context, id snowflake.ID) (*Invite, error)

	// Delete soft-deletes an invite. Rare admin path.
	Delete(ctx context.Context, id snowflake.ID) error
}
