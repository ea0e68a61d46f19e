package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invite *Invite) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invite, error)
	FindByShortCode(ctx context.Context, db *gorm.DB, shortCode string) (*Invite, error)
	ListByInterview(ctx context.Context, db *gorm.DB, interviewID snowflake.ID) ([]*Invite, error)

	// ConsumeUse is the quota gate: a single compare-and-increment that
	// only touches a row while it is active and below max_uses. It
	// reports whether a use was taken.
	ConsumeUse(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)

	// MarkRevoked and MarkConsumed only move invites out of the active
	// state; both report whether a row changed.
	MarkRevoked(ctx context.Context, db *gorm.DB, id snowflake.ID, revokedBy string, at time.Time) (bool, error)
	MarkConsumed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)

	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
