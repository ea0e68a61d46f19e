// Package migration creates the core tables on startup so the service is
// usable out of the box for local and self-hosted deployments.
package migration

import (
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	sessiondomain "github.com/candorhq/candor/internal/session/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&interviewdomain.Interview{},
		&interviewdomain.Agent{},
		&interviewdomain.Job{},
		&interviewdomain.Applicant{},
		&interviewdomain.InterviewQuestion{},
		&invitedomain.Invite{},
		&sessiondomain.CandidateSession{},
		&auditdomain.AuditEvent{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)
