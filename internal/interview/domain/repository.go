package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Interview, error)
	FindAgent(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Agent, error)
	FindJob(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Job, error)
	FindApplicant(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Applicant, error)
	ListQuestions(ctx context.Context, db *gorm.DB, interviewID snowflake.ID) ([]*InterviewQuestion, error)

	// Transition updates status only when the interview is currently in
	// the expected state, reporting whether a row changed.
	Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to InterviewStatus, stamp string, at time.Time) (bool, error)

	UpdateAnswer(ctx context.Context, db *gorm.DB, interviewID, questionID snowflake.ID, answer string, at time.Time) (bool, error)
}
