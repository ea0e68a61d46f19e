package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/invite/domain"
	"github.com/candorhq/candor/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepoTest(t *testing.T) (*gorm.DB, domain.Repository, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Invite{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return dbConn, Provide(), node
}

func seedInvite(t *testing.T, dbConn *gorm.DB, repo domain.Repository, node *snowflake.Node, maxUses int) *domain.Invite {
	t.Helper()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	invite := &domain.Invite{
		ID:          node.Generate(),
		InterviewID: node.Generate(),
		OrgID:       node.Generate(),
		ShortCode:   "code" + node.Generate().String(),
		Status:      domain.InviteStatusActive,
		MaxUses:     maxUses,
		ExpiresAt:   now.AddDate(0, 0, 7),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Insert(context.Background(), dbConn, invite))
	return invite
}

func TestConsumeUseStopsAtQuota(t *testing.T) {
	dbConn, repo, node := newRepoTest(t)
	invite := seedInvite(t, dbConn, repo, node, 2)
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		taken, err := repo.ConsumeUse(context.Background(), dbConn, invite.ID, at)
		require.NoError(t, err)
		require.True(t, taken, "slot %d should be taken", i+1)
	}

	taken, err := repo.ConsumeUse(context.Background(), dbConn, invite.ID, at)
	require.NoError(t, err)
	require.False(t, taken, "quota slots must never exceed max uses")

	reloaded, err := repo.FindByID(context.Background(), dbConn, invite.ID)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.UseCount)
}

func TestConsumeUseIgnoresInactiveInvite(t *testing.T) {
	dbConn, repo, node := newRepoTest(t)
	invite := seedInvite(t, dbConn, repo, node, 5)
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	moved, err := repo.MarkRevoked(context.Background(), dbConn, invite.ID, "ops@candor.dev", at)
	require.NoError(t, err)
	require.True(t, moved)

	taken, err := repo.ConsumeUse(context.Background(), dbConn, invite.ID, at)
	require.NoError(t, err)
	require.False(t, taken, "revoked invites take no further uses")
}

func TestMarkTransitionsAreTerminal(t *testing.T) {
	dbConn, repo, node := newRepoTest(t)
	invite := seedInvite(t, dbConn, repo, node, 3)
	at := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	moved, err := repo.MarkConsumed(context.Background(), dbConn, invite.ID, at)
	require.NoError(t, err)
	require.True(t, moved)

	// No path leads out of a terminal state.
	moved, err = repo.MarkRevoked(context.Background(), dbConn, invite.ID, "ops@candor.dev", at)
	require.NoError(t, err)
	require.False(t, moved)

	moved, err = repo.MarkConsumed(context.Background(), dbConn, invite.ID, at)
	require.NoError(t, err)
	require.False(t, moved)
}

func TestSoftDeleteHidesRow(t *testing.T) {
	dbConn, repo, node := newRepoTest(t)
	invite := seedInvite(t, dbConn, repo, node, 3)

	deleted, err := repo.SoftDelete(context.Background(), dbConn, invite.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	found, err := repo.FindByID(context.Background(), dbConn, invite.ID)
	require.NoError(t, err)
	require.Nil(t, found)

	byCode, err := repo.FindByShortCode(context.Background(), dbConn, invite.ShortCode)
	require.NoError(t, err)
	require.Nil(t, byCode)

	deleted, err = repo.SoftDelete(context.Background(), dbConn, invite.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}
