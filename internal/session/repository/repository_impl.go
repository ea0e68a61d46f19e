package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/candorhq/candor/internal/session/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.CandidateSession) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO candidate_sessions (
			id, invite_id, interview_id, jti, is_active, ip_address, user_agent,
			started_at, last_activity_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.InviteID,
		session.InterviewID,
		session.JTI,
		session.IsActive,
		session.IPAddress,
		session.UserAgent,
		session.StartedAt,
		session.LastActivityAt,
		session.ExpiresAt,
	).Error
}

func (r *repo) FindByJTI(ctx context.Context, db *gorm.DB, jti string) (*domain.CandidateSession, error) {
	var session domain.CandidateSession
	err := db.WithContext(ctx).Raw(
		`SELECT id, invite_id, interview_id, jti, is_active, ip_address, user_agent,
		        started_at, last_activity_at, expires_at
		 FROM candidate_sessions WHERE jti = ?`,
		jti,
	).Scan(&session).Error
	if err != nil {
		return nil, err
	}
	if session.ID == 0 {
		return nil, nil
	}
	return &session, nil
}

func (r *repo) DeactivateByInvite(ctx context.Context, db *gorm.DB, inviteID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE candidate_sessions SET is_active = ? WHERE invite_id = ? AND is_active = ?`,
		false,
		inviteID,
		true,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repo) CountActiveByInvite(ctx context.Context, db *gorm.DB, inviteID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.CandidateSession{}).
		Where("invite_id = ? AND is_active = ?", inviteID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) UpdateLastActivity(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE candidate_sessions SET last_activity_at = ? WHERE id = ?`,
		at,
		id,
	).Error
}
