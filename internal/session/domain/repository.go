package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *CandidateSession) error
	FindByJTI(ctx context.Context, db *gorm.DB, jti string) (*CandidateSession, error)

	// DeactivateByInvite clears every active session for an invite,
	// idempotent over zero rows.
	DeactivateByInvite(ctx context.Context, db *gorm.DB, inviteID snowflake.ID) (int64, error)

	CountActiveByInvite(ctx context.Context, db *gorm.DB, inviteID snowflake.ID) (int64, error)
	UpdateLastActivity(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
