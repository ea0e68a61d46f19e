package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/interview/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("interview.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Interview, error) {
	interview, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, domain.ErrNotFound
	}
	return interview, nil
}

func (s *Service) Exists(ctx context.Context, id snowflake.ID) (bool, error) {
	if id == 0 {
		return false, nil
	}
	interview, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return false, err
	}
	return interview != nil, nil
}

func (s *Service) Bundle(ctx context.Context, id snowflake.ID) (*domain.Bundle, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	agent, err := s.repo.FindAgent(ctx, s.db, interview.AgentID)
	if err != nil {
		return nil, err
	}
	job, err := s.repo.FindJob(ctx, s.db, interview.JobID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.repo.FindApplicant(ctx, s.db, interview.ApplicantID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, s.db, interview.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Bundle{
		Interview: interview,
		Agent:     agent,
		Job:       job,
		Applicant: applicant,
		Questions: questions,
	}, nil
}

func (s *Service) ListQuestions(ctx context.Context, interviewID snowflake.ID) ([]*domain.InterviewQuestion, error) {
	if _, err := s.Get(ctx, interviewID); err != nil {
		return nil, err
	}
	return s.repo.ListQuestions(ctx, s.db, interviewID)
}

func (s *Service) Start(ctx context.Context, id snowflake.ID) (*domain.Interview, error) {
	return s.transition(ctx, id,
		domain.InterviewStatusPending,
		domain.InterviewStatusInProgress,
		"started_at",
		auditdomain.EventInterviewStarted,
	)
}

func (s *Service) Complete(ctx context.Context, id snowflake.ID) (*domain.Interview, error) {
	return s.transition(ctx, id,
		domain.InterviewStatusInProgress,
		domain.InterviewStatusCompleted,
		"completed_at",
		auditdomain.EventInterviewCompleted,
	)
}

func (s *Service) transition(ctx context.Context, id snowflake.ID, from, to domain.InterviewStatus, stamp string, event auditdomain.EventType) (*domain.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	moved, err := s.repo.Transition(ctx, s.db, id, from, to, stamp, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		InterviewID: interview.ID,
		EventType:   event,
	}); err != nil {
		s.log.Warn("failed to record interview transition audit event",
			zap.String("interview_id", interview.ID.String()),
			zap.String("event", string(event)),
			zap.Error(err),
		)
	}

	return s.Get(ctx, id)
}

func (s *Service) RecordAnswer(ctx context.Context, interviewID, questionID snowflake.ID, answer string) (*domain.InterviewQuestion, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, domain.ErrInvalidAnswer
	}

	interview, err := s.Get(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != domain.InterviewStatusInProgress {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.repo.UpdateAnswer(ctx, s.db, interviewID, questionID, answer, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrQuestionNotFound
	}

	questions, err := s.repo.ListQuestions(ctx, s.db, interviewID)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return nil, domain.ErrQuestionNotFound
}
