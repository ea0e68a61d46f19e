package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	"github.com/candorhq/candor/internal/invite/domain"
	"github.com/candorhq/candor/internal/token"
	"github.com/candorhq/candor/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// shortCodeRetries bounds insert attempts when the generated code hits
// the unique index. A collision is an implementation artifact, never a
// caller error.
const shortCodeRetries = 5

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	GenID        *snowflake.Node
	Policy       *config.InvitePolicyHolder
	Codec        *token.Codec
	Repo         domain.Repository
	InterviewSvc interviewdomain.Service
	AuditSvc     auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	genID        *snowflake.Node
	policy       *config.InvitePolicyHolder
	codec        *token.Codec
	repo         domain.Repository
	interviewSvc interviewdomain.Service
	auditSvc     auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invite.service"),
		clock:        p.Clock,
		genID:        p.GenID,
		policy:       p.Policy,
		codec:        p.Codec,
		repo:         p.Repo,
		interviewSvc: p.InterviewSvc,
		auditSvc:     p.AuditSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInviteRequest) (*domain.Invite, error) {
	if req.InterviewID == 0 {
		return nil, domain.ErrInvalidInterview
	}
	if req.MaxUses < 0 {
		return nil, domain.ErrInvalidMaxUses
	}
	if req.ExpiryDays < 0 {
		return nil, domain.ErrInvalidExpiry
	}

	exists, err := s.interviewSvc.Exists(ctx, req.InterviewID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrInvalidInterview
	}

	policy := s.policy.Get()
	maxUses := req.MaxUses
	if maxUses == 0 {
		maxUses = policy.DefaultMaxUses
	}
	expiryDays := req.ExpiryDays
	if expiryDays == 0 {
		expiryDays = policy.InviteExpiryDays
	}

	now := s.clock.Now()
	invite := &domain.Invite{
		InterviewID: req.InterviewID,
		OrgID:       req.OrgID,
		Status:      domain.InviteStatusActive,
		MaxUses:     maxUses,
		UseCount:    0,
		ExpiresAt:   now.AddDate(0, 0, expiryDays),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	inserted := false
	for attempt := 0; attempt < shortCodeRetries; attempt++ {
		code, err := s.codec.NewShortCode()
		if err != nil {
			return nil, err
		}
		invite.ID = s.genID.Generate()
		invite.ShortCode = code

		insertErr := s.repo.Insert(ctx, s.db, invite)
		if insertErr == nil {
			inserted = true
			break
		}
		if !db.IsDuplicateKeyErr(insertErr) {
			return nil, insertErr
		}
		s.log.Warn("short code collision, regenerating",
			zap.String("interview_id", req.InterviewID.String()),
			zap.Int("attempt", attempt+1),
		)
	}
	if !inserted {
		return nil, fmt.Errorf("create invite: exhausted %d short code attempts", shortCodeRetries)
	}

	inviteID := invite.ID
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		InterviewID: invite.InterviewID,
		InviteID:    &inviteID,
		EventType:   auditdomain.EventInviteCreated,
		Metadata: map[string]any{
			"max_uses":   invite.MaxUses,
			"expires_at": invite.ExpiresAt,
		},
	}); err != nil {
		s.log.Warn("failed to record invite creation audit event",
			zap.String("invite_id", inviteID.String()),
			zap.Error(err),
		)
	}

	return invite, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	invite, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, domain.ErrInviteNotFound
	}
	return invite, nil
}

func (s *Service) ListByInterview(ctx context.Context, interviewID snowflake.ID) ([]*domain.Invite, error) {
	if interviewID == 0 {
		return nil, domain.ErrInvalidInterview
	}
	return s.repo.ListByInterview(ctx, s.db, interviewID)
}

func (s *Service) Revoke(ctx context.Context, id snowflake.ID, revokedBy string) (*domain.Invite, error) {
	invite, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.MarkRevoked(ctx, s.db, id, strings.TrimSpace(revokedBy), s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.ErrInviteNotActive
	}

	s.recordLifecycle(ctx, invite, auditdomain.EventInviteRevoked, map[string]any{"revoked_by": revokedBy})
	return s.Get(ctx, id)
}

func (s *Service) Consume(ctx context.Context, id snowflake.ID) (*domain.Invite, error) {
	invite, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.MarkConsumed(ctx, s.db, id, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, domain.ErrInviteNotActive
	}

	s.recordLifecycle(ctx, invite, auditdomain.EventInviteConsumed, nil)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	invite, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.SoftDelete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrInviteNotFound
	}

	s.recordLifecycle(ctx, invite, auditdomain.EventInviteDeleted, nil)
	return nil
}

func (s *Service) recordLifecycle(ctx context.Context, invite *domain.Invite, event auditdomain.EventType, metadata map[string]any) {
	inviteID := invite.ID
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		InterviewID: invite.InterviewID,
		InviteID:    &inviteID,
		EventType:   event,
		Metadata:    metadata,
	}); err != nil {
		s.log.Warn("failed to record invite lifecycle audit event",
			zap.String("invite_id", inviteID.String()),
			zap.String("event", string(event)),
			zap.Error(err),
		)
	}
}
