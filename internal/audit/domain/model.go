// Package domain contains the append-only audit event model. Events are
// written once and only ever queried; no update or delete path exists.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type EventType string

const (
	EventInviteCreated      EventType = "invite.created"
	EventInviteRedeemed     EventType = "invite.redeemed"
	EventInviteRevoked      EventType = "invite.revoked"
	EventInviteConsumed     EventType = "invite.consumed"
	EventInviteDeleted      EventType = "invite.deleted"
	EventInterviewStarted   EventType = "interview.started"
	EventInterviewCompleted EventType = "interview.completed"
)

// AuditEvent is one immutable access-trail record for an interview.
type AuditEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	InterviewID snowflake.ID      `gorm:"column:interview_id;not null;index" json:"interview_id"`
	InviteID    *snowflake.ID     `gorm:"column:invite_id;index" json:"invite_id,omitempty"`
	SessionID   *snowflake.ID     `gorm:"column:session_id" json:"session_id,omitempty"`
	EventType   EventType         `gorm:"column:event_type;type:text;not null" json:"event_type"`
	IPAddress   *string           `gorm:"column:ip_address;type:text" json:"ip_address,omitempty"`
	UserAgent   *string           `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AuditEvent) TableName() string { return "audit_events" }
