package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/invite/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invite *domain.Invite) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invites (
			id, interview_id, org_id, short_code, status, max_uses, use_count,
			expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invite.ID,
		invite.InterviewID,
		invite.OrgID,
		invite.ShortCode,
		invite.Status,
		invite.MaxUses,
		invite.UseCount,
		invite.ExpiresAt,
		invite.CreatedAt,
		invite.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invite, error) {
	var invite domain.Invite
	err := db.WithContext(ctx).Raw(
		`SELECT id, interview_id, org_id, short_code, status, max_uses, use_count,
		        expires_at, revoked_at, revoked_by, created_at, updated_at
		 FROM invites WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	if invite.ID == 0 {
		return nil, nil
	}
	return &invite, nil
}

func (r *repo) FindByShortCode(ctx context.Context, db *gorm.DB, shortCode string) (*domain.Invite, error) {
	var invite domain.Invite
	err := db.WithContext(ctx).Raw(
		`SELECT id, interview_id, org_id, short_code, status, max_uses, use_count,
		        expires_at, revoked_at, revoked_by, created_at, updated_at
		 FROM invites WHERE short_code = ? AND deleted_at IS NULL`,
		shortCode,
	).Scan(&invite).Error
	if err != nil {
		return nil, err
	}
	if invite.ID == 0 {
		return nil, nil
	}
	return &invite, nil
}

func (r *repo) ListByInterview(ctx context.Context, db *gorm.DB, interviewID snowflake.ID) ([]*domain.Invite, error) {
	var invites []*domain.Invite
	err := db.WithContext(ctx).
		Model(&domain.Invite{}).
		Where("interview_id = ?", interviewID).
		Order("created_at desc, id desc").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *repo) ConsumeUse(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	// Quota enforcement lives in this WHERE clause: two racing
	// redemptions cannot both take the last slot.
	res := db.WithContext(ctx).Exec(
		`UPDATE invites SET use_count = use_count + 1, updated_at = ?
		 WHERE id = ? AND status = ? AND use_count < max_uses AND deleted_at IS NULL`,
		at,
		id,
		domain.InviteStatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkRevoked(ctx context.Context, db *gorm.DB, id snowflake.ID, revokedBy string, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invites SET status = ?, revoked_at = ?, revoked_by = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		domain.InviteStatusRevoked,
		at,
		revokedBy,
		at,
		id,
		domain.InviteStatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkConsumed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invites SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		domain.InviteStatusConsumed,
		at,
		id,
		domain.InviteStatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE invites SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
