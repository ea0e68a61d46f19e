package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Bundle is the read-only snapshot a candidate client needs to bootstrap
// the interview UI in one call.
type Bundle struct {
	Interview *Interview           `json:"interview"`
	Agent     *Agent               `json:"agent"`
	Job       *Job                 `json:"job"`
	Applicant *Applicant           `json:"applicant"`
	Questions []*InterviewQuestion `json:"questions"`
}

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Interview, error)
	Exists(ctx context.Context, id snowflake.ID) (bool, error)
	Bundle(ctx context.Context, id snowflake.ID) (*Bundle, error)
	ListQuestions(ctx context.Context, interviewID snowflake.ID) ([]*InterviewQuestion, error)

	// Start and Complete move the interview forward. Backward and skip
	// transitions fail with ErrInvalidTransition.
	Start(ctx context.Context, id snowflake.ID) (*Interview, error)
	Complete(ctx context.Context, id snowflake.ID) (*Interview, error)

	RecordAnswer(ctx context.Context, interviewID, questionID snowflake.ID, answer string) (*InterviewQuestion, error)
}
