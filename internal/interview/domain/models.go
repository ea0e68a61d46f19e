// Package domain contains persistence models for the interview service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InterviewStatus is the interview lifecycle state. Transitions only move
// forward: pending -> in_progress -> completed.
type InterviewStatus string

const (
	InterviewStatusPending    InterviewStatus = "pending"
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
)

// Interview represents one AI-led interview for a single applicant.
type Interview struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"column:org_id;not null;index" json:"org_id"`
	JobID       snowflake.ID    `gorm:"column:job_id;not null;index" json:"job_id"`
	ApplicantID snowflake.ID    `gorm:"column:applicant_id;not null;index" json:"applicant_id"`
	AgentID     snowflake.ID    `gorm:"column:agent_id;not null" json:"agent_id"`
	Status      InterviewStatus `gorm:"type:text;not null" json:"status"`
	StartedAt   *time.Time      `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Interview) TableName() string { return "interviews" }

// Agent is the AI interviewer persona attached to an interview.
type Agent struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"column:org_id;not null;index" json:"org_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Persona   string       `gorm:"type:text" json:"persona"`
	VoiceID   string       `gorm:"column:voice_id;type:text" json:"voice_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Agent) TableName() string { return "agents" }

// Job is the position an interview screens for.
type Job struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"column:org_id;not null;index" json:"org_id"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Location    string       `gorm:"type:text" json:"location"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Job) TableName() string { return "jobs" }

// Applicant is the candidate matched to an interview.
type Applicant struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"column:org_id;not null;index" json:"org_id"`
	FullName  string       `gorm:"column:full_name;type:text;not null" json:"full_name"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	Phone     string       `gorm:"type:text" json:"phone"`
	ResumeURL string       `gorm:"column:resume_url;type:text" json:"resume_url"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Applicant) TableName() string { return "applicants" }

// InterviewQuestion is one ordered prompt in an interview script.
type InterviewQuestion struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InterviewID snowflake.ID `gorm:"column:interview_id;not null;index" json:"interview_id"`
	Position    int          `gorm:"not null" json:"position"`
	Prompt      string       `gorm:"type:text;not null" json:"prompt"`
	Answer      *string      `gorm:"type:text" json:"answer,omitempty"`
	AnsweredAt  *time.Time   `gorm:"column:answered_at" json:"answered_at,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InterviewQuestion) TableName() string { return "interview_questions" }
