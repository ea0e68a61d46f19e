package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contextSessionKey     = "candidate_session"
	contextInterviewIDKey = "interview_id"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// CandidateAuthRequired verifies the bearer token's signature first, then
// re-derives all authority from the stored session row via the jti. A
// forged jti cannot pass the signature check; a replayed jti from a
// deactivated session cannot pass validation.
func (s *Server) CandidateAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.codec.Verify(parts[1])
		if err != nil {
			AbortWithError(c, err)
			return
		}

		session, err := s.sessionSvc.Validate(c.Request.Context(), claims.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextSessionKey, session)
		c.Set(contextInterviewIDKey, session.InterviewID)
		c.Next()
	}
}
