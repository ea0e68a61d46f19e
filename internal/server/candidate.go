package server

import (
	"net/http"
	"strings"

	interviewdomain "github.com/candorhq/candor/internal/interview/domain"
	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	sessiondomain "github.com/candorhq/candor/internal/session/domain"
	"github.com/candorhq/candor/internal/token"
	"github.com/gin-gonic/gin"
)

type redeemRequest struct {
	Code string `json:"code"`
}

func (s *Server) RedeemInvite(c *gin.Context) {
	if !s.redeemLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrRateLimited)
		return
	}

	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	code := strings.TrimSpace(req.Code)
	if len(code) != token.ShortCodeLength {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	result, err := s.sessionSvc.Redeem(c.Request.Context(), sessiondomain.RedeemRequest{
		ShortCode: code,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     result.Token,
		"session":   sessionView(result.Session),
		"interview": result.Bundle.Interview,
		"agent":     result.Bundle.Agent,
		"job":       result.Bundle.Job,
		"applicant": result.Bundle.Applicant,
		"questions": result.Bundle.Questions,
	})
}

func (s *Server) CurrentSession(c *gin.Context) {
	session := s.sessionFromContext(c)
	if session == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, sessionView(session))
}

func (s *Server) StartInterview(c *gin.Context) {
	session := s.sessionFromContext(c)
	if session == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	interview, err := s.interviewSvc.Start(c.Request.Context(), session.InterviewID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

func (s *Server) CompleteInterview(c *gin.Context) {
	session := s.sessionFromContext(c)
	if session == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	interview, err := s.interviewSvc.Complete(c.Request.Context(), session.InterviewID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Server) AnswerQuestion(c *gin.Context) {
	session := s.sessionFromContext(c)
	if session == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	questionID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, interviewdomain.ErrQuestionNotFound)
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	question, err := s.interviewSvc.RecordAnswer(c.Request.Context(), session.InterviewID, questionID, req.Answer)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (s *Server) sessionFromContext(c *gin.Context) *sessiondomain.CandidateSession {
	value, ok := c.Get(contextSessionKey)
	if !ok {
		return nil
	}
	session, ok := value.(*sessiondomain.CandidateSession)
	if !ok {
		return nil
	}
	return session
}

// sessionView exposes session metadata without repeating the token.
func sessionView(session *sessiondomain.CandidateSession) gin.H {
	return gin.H{
		"jti":        session.JTI,
		"started_at": session.StartedAt,
		"expires_at": session.ExpiresAt,
	}
}
