// Package domain contains the candidate session model. A session is the
// live, time-boxed grant of interview access produced by redeeming an
// invite; its jti is the sole correlation key between a signed token and
// server state.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CandidateSession is one redemption's grant. At most one session per
// invite is active at any instant.
type CandidateSession struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	InviteID       snowflake.ID `gorm:"column:invite_id;not null;index" json:"invite_id"`
	InterviewID    snowflake.ID `gorm:"column:interview_id;not null;index" json:"interview_id"`
	JTI            string       `gorm:"column:jti;type:text;not null;uniqueIndex:ux_candidate_sessions_jti" json:"jti"`
	IsActive       bool         `gorm:"column:is_active;not null" json:"is_active"`
	IPAddress      string       `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	UserAgent      string       `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	StartedAt      time.Time    `gorm:"column:started_at;not null" json:"started_at"`
	LastActivityAt time.Time    `gorm:"column:last_activity_at;not null" json:"last_activity_at"`
	ExpiresAt      time.Time    `gorm:"column:expires_at;not null;index" json:"expires_at"`
}

// TableName sets the database table name.
func (CandidateSession) TableName() string { return "candidate_sessions" }

func (s CandidateSession) ExpiredAt(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
