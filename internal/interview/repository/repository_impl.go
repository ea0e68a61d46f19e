package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/interview/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Interview, error) {
	var interview domain.Interview
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, job_id, applicant_id, agent_id, status, started_at, completed_at, created_at, updated_at
		 FROM interviews WHERE id = ?`,
		id,
	).Scan(&interview).Error
	if err != nil {
		return nil, err
	}
	if interview.ID == 0 {
		return nil, nil
	}
	return &interview, nil
}

func (r *repo) FindAgent(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Agent, error) {
	var agent domain.Agent
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, persona, voice_id, created_at FROM agents WHERE id = ?`,
		id,
	).Scan(&agent).Error
	if err != nil {
		return nil, err
	}
	if agent.ID == 0 {
		return nil, nil
	}
	return &agent, nil
}

func (r *repo) FindJob(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Job, error) {
	var job domain.Job
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, title, description, location, created_at FROM jobs WHERE id = ?`,
		id,
	).Scan(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *repo) FindApplicant(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Applicant, error) {
	var applicant domain.Applicant
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, full_name, email, phone, resume_url, created_at FROM applicants WHERE id = ?`,
		id,
	).Scan(&applicant).Error
	if err != nil {
		return nil, err
	}
	if applicant.ID == 0 {
		return nil, nil
	}
	return &applicant, nil
}

func (r *repo) ListQuestions(ctx context.Context, db *gorm.DB, interviewID snowflake.ID) ([]*domain.InterviewQuestion, error) {
	var questions []*domain.InterviewQuestion
	err := db.WithContext(ctx).
		Model(&domain.InterviewQuestion{}).
		Where("interview_id = ?", interviewID).
		Order("position asc, id asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *repo) Transition(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.InterviewStatus, stamp string, at time.Time) (bool, error) {
	if stamp != "started_at" && stamp != "completed_at" {
		return false, fmt.Errorf("unknown transition stamp column %q", stamp)
	}
	// The WHERE clause is the state machine: a row only moves when it is
	// still in the expected source state.
	res := db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE interviews SET status = ?, %s = ?, updated_at = ? WHERE id = ? AND status = ?`, stamp),
		to,
		at,
		at,
		id,
		from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) UpdateAnswer(ctx context.Context, db *gorm.DB, interviewID, questionID snowflake.ID, answer string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE interview_questions SET answer = ?, answered_at = ? WHERE id = ? AND interview_id = ?`,
		answer,
		at,
		questionID,
		interviewID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
