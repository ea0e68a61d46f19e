// Package domain contains the invite model: a quota- and time-bounded
// grant that lets an anonymous candidate redeem a short code for a
// session on one specific interview.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type InviteStatus string

const (
	InviteStatusActive   InviteStatus = "active"
	InviteStatusRevoked  InviteStatus = "revoked"
	InviteStatusConsumed InviteStatus = "consumed"
)

// Invite binds a short code to one interview with a usage quota and an
// absolute expiry that is never extended.
type Invite struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	InterviewID snowflake.ID   `gorm:"column:interview_id;not null;index" json:"interview_id"`
	OrgID       snowflake.ID   `gorm:"column:org_id;not null;index" json:"org_id"`
	ShortCode   string         `gorm:"column:short_code;type:text;not null;uniqueIndex:ux_invites_short_code" json:"short_code"`
	Status      InviteStatus   `gorm:"type:text;not null" json:"status"`
	MaxUses     int            `gorm:"column:max_uses;not null" json:"max_uses"`
	UseCount    int            `gorm:"column:use_count;not null" json:"use_count"`
	ExpiresAt   time.Time      `gorm:"column:expires_at;not null;index" json:"expires_at"`
	RevokedAt   *time.Time     `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	RevokedBy   *string        `gorm:"column:revoked_by;type:text" json:"revoked_by,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invite) TableName() string { return "invites" }

func (i Invite) ExpiredAt(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

func (i Invite) Exhausted() bool {
	return i.UseCount >= i.MaxUses
}
