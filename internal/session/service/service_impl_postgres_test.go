package service

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	inviterepository "github.com/candorhq/candor/internal/invite/repository"
	"github.com/candorhq/candor/internal/session/domain"
	"github.com/candorhq/candor/internal/session/repository"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The sqlite test pool runs every transaction on one connection, so it
// never produces the statement-snapshot interleavings a server database
// can. These tests replay the redemption invariants against a real
// postgres when CANDOR_TEST_POSTGRES_DSN is set.
func newPostgresFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv("CANDOR_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CANDOR_TEST_POSTGRES_DSN not set")
	}

	dbConn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	return newFixtureOn(t, dbConn)
}

func TestRedeemQuotaConcurrentPostgres(t *testing.T) {
	f := newPostgresFixture(t)
	invite := f.createInvite(t, 2)

	const attempts = 6
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = f.sessionSvc.Redeem(context.Background(), domain.RedeemRequest{ShortCode: invite.ShortCode})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch err {
		case nil:
			succeeded++
		case invitedomain.ErrInviteMaxUses:
		default:
			t.Fatalf("unexpected redemption error: %v", err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("expected exactly 2 successful redemptions, got %d", succeeded)
	}

	updated, err := f.inviteSvc.Get(context.Background(), invite.ID)
	if err != nil {
		t.Fatalf("failed to reload invite: %v", err)
	}
	if updated.UseCount != 2 {
		t.Fatalf("expected use count 2 after race, got %d", updated.UseCount)
	}
	if count := f.activeSessions(t, invite.ID); count != 1 {
		t.Fatalf("expected one active session after race, got %d", count)
	}
}

// Replays the redemption statement order across two explicit
// transactions: the second parks on the invite row lock taken by the
// quota increment, so by the time it deactivates old sessions the
// first transaction's session is committed and visible.
func TestRedeemInterleavedTransactionsKeepOneSession(t *testing.T) {
	f := newPostgresFixture(t)
	invite := f.createInvite(t, 2)

	ctx := context.Background()
	inviteRepo := inviterepository.Provide()
	sessionRepo := repository.Provide()
	now := f.clk.Now()

	newSession := func() *domain.CandidateSession {
		return &domain.CandidateSession{
			ID:             f.node.Generate(),
			InviteID:       invite.ID,
			InterviewID:    f.interviewID,
			JTI:            uuid.NewString(),
			IsActive:       true,
			StartedAt:      now,
			LastActivityAt: now,
			ExpiresAt:      now.Add(2 * time.Hour),
		}
	}

	tx1 := f.db.Begin()
	if tx1.Error != nil {
		t.Fatalf("failed to begin tx1: %v", tx1.Error)
	}
	if taken, err := inviteRepo.ConsumeUse(ctx, tx1, invite.ID, now); err != nil || !taken {
		t.Fatalf("first quota slot should be taken (taken=%v, err=%v)", taken, err)
	}

	rival := newSession()
	rivalStarted := make(chan struct{})
	rivalDone := make(chan error, 1)
	go func() {
		tx2 := f.db.Begin()
		if tx2.Error != nil {
			rivalDone <- tx2.Error
			return
		}
		defer tx2.Rollback()
		close(rivalStarted)

		// Parks on the invite row lock until tx1 commits.
		taken, err := inviteRepo.ConsumeUse(ctx, tx2, invite.ID, now)
		if err != nil {
			rivalDone <- err
			return
		}
		if !taken {
			rivalDone <- invitedomain.ErrInviteMaxUses
			return
		}
		if _, err := sessionRepo.DeactivateByInvite(ctx, tx2, invite.ID); err != nil {
			rivalDone <- err
			return
		}
		if err := sessionRepo.Insert(ctx, tx2, rival); err != nil {
			rivalDone <- err
			return
		}
		rivalDone <- tx2.Commit().Error
	}()

	<-rivalStarted
	// Let the rival reach the row lock before tx1 finishes its work.
	time.Sleep(200 * time.Millisecond)

	if _, err := sessionRepo.DeactivateByInvite(ctx, tx1, invite.ID); err != nil {
		t.Fatalf("failed to deactivate in tx1: %v", err)
	}
	winner := newSession()
	if err := sessionRepo.Insert(ctx, tx1, winner); err != nil {
		t.Fatalf("failed to insert first session: %v", err)
	}
	if err := tx1.Commit().Error; err != nil {
		t.Fatalf("failed to commit tx1: %v", err)
	}

	if err := <-rivalDone; err != nil {
		t.Fatalf("rival transaction failed: %v", err)
	}

	if count := f.activeSessions(t, invite.ID); count != 1 {
		t.Fatalf("expected one active session after interleave, got %d", count)
	}
	latest, err := sessionRepo.FindByJTI(ctx, f.db, rival.JTI)
	if err != nil {
		t.Fatalf("failed to load rival session: %v", err)
	}
	if latest == nil || !latest.IsActive {
		t.Fatal("latest session should be the active one")
	}
	first, err := sessionRepo.FindByJTI(ctx, f.db, winner.JTI)
	if err != nil {
		t.Fatalf("failed to load first session: %v", err)
	}
	if first == nil || first.IsActive {
		t.Fatal("first session should have been deactivated by the rival")
	}

	updated, err := inviteRepo.FindByID(ctx, f.db, invite.ID)
	if err != nil {
		t.Fatalf("failed to reload invite: %v", err)
	}
	if updated.UseCount != 2 {
		t.Fatalf("expected use count 2, got %d", updated.UseCount)
	}
}
