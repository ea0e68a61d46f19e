package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/pkg/db/pagination"
)

var (
	ErrInvalidInterview = errors.New("invalid_interview")
	ErrInvalidEventType = errors.New("invalid_event_type")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)

// Entry is the write-side input; server-assigned fields (id, timestamp)
// are filled by the service.
type Entry struct {
	InterviewID snowflake.ID
	InviteID    *snowflake.ID
	SessionID   *snowflake.ID
	EventType   EventType
	IPAddress   string
	UserAgent   string
	Metadata    map[string]any
}

type ListRequest struct {
	pagination.Pagination
	InterviewID snowflake.ID
	EventType   string
}

type ListResponse struct {
	pagination.PageInfo
	Events []AuditEvent `json:"events"`
}

type Service interface {
	Record(ctx context.Context, entry Entry) error
	ListByInterview(ctx context.Context, req ListRequest) (ListResponse, error)
}

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	InterviewID snowflake.ID
	EventType   string
	Cursor      *AuditCursor
	Limit       int
}
