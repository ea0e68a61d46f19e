package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	"github.com/candorhq/candor/internal/observability/metrics"
	"github.com/candorhq/candor/internal/session/domain"
	"github.com/candorhq/candor/internal/token"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	GenID        *snowflake.Node
	Policy       *config.InvitePolicyHolder
	Codec        *token.Codec
	Repo         domain.Repository
	InviteRepo   invitedomain.Repository
	InterviewSvc interviewdomain.Service
	AuditSvc     auditdomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	genID        *snowflake.Node
	policy       *config.InvitePolicyHolder
	codec        *token.Codec
	repo         domain.Repository
	inviteRepo   invitedomain.Repository
	interviewSvc interviewdomain.Service
	auditSvc     auditdomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("session.service"),
		clock:        p.Clock,
		genID:        p.GenID,
		policy:       p.Policy,
		codec:        p.Codec,
		repo:         p.Repo,
		inviteRepo:   p.InviteRepo,
		interviewSvc: p.InterviewSvc,
		auditSvc:     p.AuditSvc,
		metrics:      p.Metrics,
	}
}

// Redeem exchanges a short code for a fresh session and signed token.
// The invite checks, quota increment, old-session deactivation and
// session insert all run inside one transaction. The quota increment
// goes first: it takes the invite row lock, so a racing redemption
// parks on it, and once it resumes every later statement runs against
// the winner's committed rows. Two racing redemptions can never both
// take the last quota slot, and at most one session per invite stays
// active even when both redemptions win a slot.
func (s *Service) Redeem(ctx context.Context, req domain.RedeemRequest) (*domain.RedeemResult, error) {
	shortCode := strings.TrimSpace(req.ShortCode)
	if shortCode == "" {
		return nil, invitedomain.ErrInviteNotFound
	}

	now := s.clock.Now()
	sessionTTL := s.policy.Get().SessionTTL()

	var invite *invitedomain.Invite
	var session *domain.CandidateSession

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.inviteRepo.FindByShortCode(ctx, tx, shortCode)
		if err != nil {
			return err
		}
		if found == nil {
			return invitedomain.ErrInviteNotFound
		}
		invite = found

		if invite.Status != invitedomain.InviteStatusActive {
			return invitedomain.ErrInviteNotActive
		}
		if invite.ExpiredAt(now) {
			return invitedomain.ErrInviteExpired
		}
		if invite.Exhausted() {
			return invitedomain.ErrInviteMaxUses
		}

		taken, err := s.inviteRepo.ConsumeUse(ctx, tx, invite.ID, now)
		if err != nil {
			return err
		}
		if !taken {
			// A concurrent redemption or revocation got here first.
			// Re-read to report the right cause.
			current, err := s.inviteRepo.FindByID(ctx, tx, invite.ID)
			if err != nil {
				return err
			}
			if current != nil && current.Status != invitedomain.InviteStatusActive {
				return invitedomain.ErrInviteNotActive
			}
			return invitedomain.ErrInviteMaxUses
		}
		invite.UseCount++

		if _, err := s.repo.DeactivateByInvite(ctx, tx, invite.ID); err != nil {
			return err
		}

		session = &domain.CandidateSession{
			ID:             s.genID.Generate(),
			InviteID:       invite.ID,
			InterviewID:    invite.InterviewID,
			JTI:            uuid.NewString(),
			IsActive:       true,
			IPAddress:      strings.TrimSpace(req.IPAddress),
			UserAgent:      strings.TrimSpace(req.UserAgent),
			StartedAt:      now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(sessionTTL),
		}
		if err := s.repo.Insert(ctx, tx, session); err != nil {
			return err
		}

		return nil
	})
	if txErr != nil {
		s.metrics.RedemptionObserved(redemptionOutcome(txErr))
		return nil, txErr
	}
	s.metrics.RedemptionObserved("success")

	minted, err := s.codec.Mint(token.MintRequest{
		InviteID:       invite.ID,
		InterviewID:    invite.InterviewID,
		OrganizationID: invite.OrgID,
		JTI:            session.JTI,
		ExpiresAt:      session.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	inviteID := invite.ID
	sessionID := session.ID
	if err := s.auditSvc.Record(ctx, auditdomain.Entry{
		InterviewID: invite.InterviewID,
		InviteID:    &inviteID,
		SessionID:   &sessionID,
		EventType:   auditdomain.EventInviteRedeemed,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Metadata: map[string]any{
			"use_count": invite.UseCount,
			"max_uses":  invite.MaxUses,
		},
	}); err != nil {
		s.log.Warn("failed to record redemption audit event",
			zap.String("invite_id", inviteID.String()),
			zap.Error(err),
		)
	}

	bundle, err := s.interviewSvc.Bundle(ctx, invite.InterviewID)
	if err != nil {
		return nil, err
	}

	return &domain.RedeemResult{
		Token:   minted,
		Session: session,
		Bundle:  bundle,
	}, nil
}

// Validate looks up the session behind a signature-verified jti. The
// last-activity refresh is best effort: a failed write is logged and
// dropped, never surfaced.
func (s *Service) Validate(ctx context.Context, jti string) (*domain.CandidateSession, error) {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		s.metrics.ValidationObserved("not_found")
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.repo.FindByJTI(ctx, s.db, jti)
	if err != nil {
		return nil, err
	}
	if session == nil {
		s.metrics.ValidationObserved("not_found")
		return nil, domain.ErrSessionNotFound
	}

	now := s.clock.Now()
	if !session.IsActive || session.ExpiredAt(now) {
		s.metrics.ValidationObserved("expired")
		return nil, domain.ErrSessionExpired
	}

	if err := s.repo.UpdateLastActivity(ctx, s.db, session.ID, now); err != nil {
		s.log.Warn("failed to refresh session activity",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	} else {
		session.LastActivityAt = now
	}

	s.metrics.ValidationObserved("success")
	return session, nil
}

func redemptionOutcome(err error) string {
	switch {
	case errors.Is(err, invitedomain.ErrInviteNotFound):
		return "not_found"
	case errors.Is(err, invitedomain.ErrInviteNotActive):
		return "not_active"
	case errors.Is(err, invitedomain.ErrInviteExpired):
		return "expired"
	case errors.Is(err, invitedomain.ErrInviteMaxUses):
		return "max_uses"
	default:
		return "error"
	}
}
