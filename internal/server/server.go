package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/candorhq/candor/internal/audit"
	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	"github.com/candorhq/candor/internal/clock"
	"github.com/candorhq/candor/internal/config"
	"github.com/candorhq/candor/internal/interview"
	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	"github.com/candorhq/candor/internal/invite"
	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	obsmetrics "github.com/candorhq/candor/internal/observability/metrics"
	"github.com/candorhq/candor/internal/session"
	sessiondomain "github.com/candorhq/candor/internal/session/domain"
	"github.com/candorhq/candor/internal/token"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	token.Module,
	audit.Module,
	interview.Module,
	invite.Module,
	session.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	codec         *token.Codec
	inviteSvc     invitedomain.Service
	sessionSvc    sessiondomain.Service
	interviewSvc  interviewdomain.Service
	auditSvc      auditdomain.Service
	redeemLimiter *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Clock        clock.Clock
	Codec        *token.Codec
	InviteSvc    invitedomain.Service
	SessionSvc   sessiondomain.Service
	InterviewSvc interviewdomain.Service
	AuditSvc     auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		codec:         p.Codec,
		inviteSvc:     p.InviteSvc,
		sessionSvc:    p.SessionSvc,
		interviewSvc:  p.InterviewSvc,
		auditSvc:      p.AuditSvc,
		redeemLimiter: newRateLimiter(p.Clock, 10, time.Minute),
	}

	svc.registerAdminRoutes()
	svc.registerCandidateRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerAdminRoutes wires the staff-facing surface. Staff
// authentication is handled by the deployment's gateway; no role model
// lives here.
func (s *Server) registerAdminRoutes() {
	api := s.engine.Group("/api")

	api.POST("/interviews/:id/invites", s.CreateInvite)
	api.GET("/interviews/:id/invites", s.ListInvites)
	api.GET("/interviews/:id/audit-events", s.ListAuditEvents)

	api.GET("/invites/:id", s.GetInvite)
	api.POST("/invites/:id/revoke", s.RevokeInvite)
	api.POST("/invites/:id/consume", s.ConsumeInvite)
	api.DELETE("/invites/:id", s.DeleteInvite)
}

// registerCandidateRoutes wires the anonymous candidate surface. Every
// route past /redeem requires a signature-verified token whose jti still
// maps to a live session.
func (s *Server) registerCandidateRoutes() {
	candidate := s.engine.Group("/candidate")

	candidate.POST("/redeem", s.RedeemInvite)

	authed := candidate.Group("", s.CandidateAuthRequired())
	{
		authed.GET("/session", s.CurrentSession)
		authed.POST("/interview/start", s.StartInterview)
		authed.POST("/interview/complete", s.CompleteInterview)
		authed.POST("/questions/:id/answer", s.AnswerQuestion)
	}
}
