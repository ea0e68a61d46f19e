package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	auditrepository "github.com/candorhq/candor/internal/audit/repository"
	auditservice "github.com/candorhq/candor/internal/audit/service"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	interviewrepository "github.com/candorhq/candor/internal/interview/repository"
	interviewservice "github.com/candorhq/candor/internal/interview/service"
	"github.com/candorhq/candor/internal/invite/domain"
	"github.com/candorhq/candor/internal/invite/repository"
	"github.com/candorhq/candor/internal/token"
	"github.com/candorhq/candor/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	db          *gorm.DB
	clk         *clock.FakeClock
	node        *snowflake.Node
	svc         domain.Service
	auditSvc    auditdomain.Service
	interviewID snowflake.ID
	orgID       snowflake.ID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&interviewdomain.Interview{},
		&domain.Invite{},
		&auditdomain.AuditEvent{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	log := zap.NewNop()

	codec, err := token.NewCodec("invite-test-secret", clk)
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    dbConn,
		Log:   log,
		Clock: clk,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	interviewSvc := interviewservice.New(interviewservice.Params{
		DB:       dbConn,
		Log:      log,
		Clock:    clk,
		Repo:     interviewrepository.Provide(),
		AuditSvc: auditSvc,
	})
	svc := New(Params{
		DB:    dbConn,
		Log:   log,
		Clock: clk,
		GenID: node,
		Policy: config.NewStaticInvitePolicyHolder(config.InvitePolicy{
			DefaultMaxUses:    3,
			InviteExpiryDays:  7,
			SessionTTLMinutes: 120,
		}),
		Codec:        codec,
		Repo:         repository.Provide(),
		InterviewSvc: interviewSvc,
		AuditSvc:     auditSvc,
	})

	h := &harness{
		db:       dbConn,
		clk:      clk,
		node:     node,
		svc:      svc,
		auditSvc: auditSvc,
		orgID:    node.Generate(),
	}

	interview := interviewdomain.Interview{
		ID:          node.Generate(),
		OrgID:       h.orgID,
		JobID:       node.Generate(),
		ApplicantID: node.Generate(),
		AgentID:     node.Generate(),
		Status:      interviewdomain.InterviewStatusPending,
	}
	if err := dbConn.Create(&interview).Error; err != nil {
		t.Fatalf("failed to seed interview: %v", err)
	}
	h.interviewID = interview.ID
	return h
}

func (h *harness) create(t *testing.T, req domain.CreateInviteRequest) *domain.Invite {
	t.Helper()

	if req.InterviewID == 0 {
		req.InterviewID = h.interviewID
	}
	if req.OrgID == 0 {
		req.OrgID = h.orgID
	}
	invite, err := h.svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	return invite
}

func TestCreateAppliesPolicyDefaults(t *testing.T) {
	h := newHarness(t)

	invite := h.create(t, domain.CreateInviteRequest{})
	if invite.MaxUses != 3 {
		t.Fatalf("expected default max uses 3, got %d", invite.MaxUses)
	}
	if invite.Status != domain.InviteStatusActive {
		t.Fatalf("expected active status, got %s", invite.Status)
	}
	if len(invite.ShortCode) != token.ShortCodeLength {
		t.Fatalf("expected %d-character short code, got %q", token.ShortCodeLength, invite.ShortCode)
	}
	if want := h.clk.Now().AddDate(0, 0, 7); !invite.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, invite.ExpiresAt)
	}

	events, err := h.auditSvc.ListByInterview(context.Background(), auditdomain.ListRequest{
		InterviewID: h.interviewID,
		EventType:   string(auditdomain.EventInviteCreated),
	})
	if err != nil {
		t.Fatalf("failed to list audit events: %v", err)
	}
	if len(events.Events) != 1 {
		t.Fatalf("expected one creation audit event, got %d", len(events.Events))
	}
}

func TestCreateHonorsExplicitLimits(t *testing.T) {
	h := newHarness(t)

	invite := h.create(t, domain.CreateInviteRequest{MaxUses: 1, ExpiryDays: 2})
	if invite.MaxUses != 1 {
		t.Fatalf("expected max uses 1, got %d", invite.MaxUses)
	}
	if want := h.clk.Now().AddDate(0, 0, 2); !invite.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, invite.ExpiresAt)
	}
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)

	if _, err := h.svc.Create(context.Background(), domain.CreateInviteRequest{}); err != domain.ErrInvalidInterview {
		t.Fatalf("expected ErrInvalidInterview for zero interview id, got %v", err)
	}
	if _, err := h.svc.Create(context.Background(), domain.CreateInviteRequest{
		InterviewID: h.node.Generate(),
	}); err != domain.ErrInvalidInterview {
		t.Fatalf("expected ErrInvalidInterview for unknown interview, got %v", err)
	}
	if _, err := h.svc.Create(context.Background(), domain.CreateInviteRequest{
		InterviewID: h.interviewID,
		MaxUses:     -1,
	}); err != domain.ErrInvalidMaxUses {
		t.Fatalf("expected ErrInvalidMaxUses, got %v", err)
	}
	if _, err := h.svc.Create(context.Background(), domain.CreateInviteRequest{
		InterviewID: h.interviewID,
		ExpiryDays:  -1,
	}); err != domain.ErrInvalidExpiry {
		t.Fatalf("expected ErrInvalidExpiry, got %v", err)
	}
}

func TestShortCodesUnique(t *testing.T) {
	h := newHarness(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		invite := h.create(t, domain.CreateInviteRequest{})
		if _, dup := seen[invite.ShortCode]; dup {
			t.Fatalf("duplicate short code %q", invite.ShortCode)
		}
		seen[invite.ShortCode] = struct{}{}
	}
}

func TestRevokeLifecycle(t *testing.T) {
	h := newHarness(t)
	invite := h.create(t, domain.CreateInviteRequest{})

	revoked, err := h.svc.Revoke(context.Background(), invite.ID, "ops@candor.dev")
	if err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}
	if revoked.Status != domain.InviteStatusRevoked {
		t.Fatalf("expected revoked status, got %s", revoked.Status)
	}
	if revoked.RevokedAt == nil || revoked.RevokedBy == nil || *revoked.RevokedBy != "ops@candor.dev" {
		t.Fatalf("expected revocation metadata, got %+v", revoked)
	}

	// A second revoke hits a terminal state.
	if _, err := h.svc.Revoke(context.Background(), invite.ID, "ops@candor.dev"); err != domain.ErrInviteNotActive {
		t.Fatalf("expected ErrInviteNotActive, got %v", err)
	}
}

func TestConsumeLifecycle(t *testing.T) {
	h := newHarness(t)
	invite := h.create(t, domain.CreateInviteRequest{})

	consumed, err := h.svc.Consume(context.Background(), invite.ID)
	if err != nil {
		t.Fatalf("failed to consume: %v", err)
	}
	if consumed.Status != domain.InviteStatusConsumed {
		t.Fatalf("expected consumed status, got %s", consumed.Status)
	}

	if _, err := h.svc.Consume(context.Background(), invite.ID); err != domain.ErrInviteNotActive {
		t.Fatalf("expected ErrInviteNotActive, got %v", err)
	}
	if _, err := h.svc.Revoke(context.Background(), invite.ID, "ops@candor.dev"); err != domain.ErrInviteNotActive {
		t.Fatalf("expected ErrInviteNotActive after consume, got %v", err)
	}
}

func TestDeleteHidesInvite(t *testing.T) {
	h := newHarness(t)
	invite := h.create(t, domain.CreateInviteRequest{})

	if err := h.svc.Delete(context.Background(), invite.ID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := h.svc.Get(context.Background(), invite.ID); err != domain.ErrInviteNotFound {
		t.Fatalf("expected ErrInviteNotFound after delete, got %v", err)
	}
	if err := h.svc.Delete(context.Background(), invite.ID); err != domain.ErrInviteNotFound {
		t.Fatalf("expected ErrInviteNotFound on double delete, got %v", err)
	}
}

func TestListByInterviewNewestFirst(t *testing.T) {
	h := newHarness(t)

	first := h.create(t, domain.CreateInviteRequest{})
	h.clk.Advance(time.Minute)
	second := h.create(t, domain.CreateInviteRequest{})

	invites, err := h.svc.ListByInterview(context.Background(), h.interviewID)
	if err != nil {
		t.Fatalf("failed to list invites: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("expected 2 invites, got %d", len(invites))
	}
	if invites[0].ID != second.ID || invites[1].ID != first.ID {
		t.Fatal("expected newest invite first")
	}
}
