package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	invitedomain "github.com/candorhq/candor/internal/invite/domain"
	"github.com/gin-gonic/gin"
)

type createInviteRequest struct {
	OrgID      string `json:"org_id"`
	MaxUses    int    `json:"max_uses"`
	ExpiryDays int    `json:"expiry_days"`
}

type revokeInviteRequest struct {
	RevokedBy string `json:"revoked_by"`
}

func (s *Server) CreateInvite(c *gin.Context) {
	interviewID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInvalidInterview)
		return
	}

	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var orgID snowflake.ID
	if raw := strings.TrimSpace(req.OrgID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		orgID = parsed
	}

	created, err := s.inviteSvc.Create(c.Request.Context(), invitedomain.CreateInviteRequest{
		InterviewID: interviewID,
		OrgID:       orgID,
		MaxUses:     req.MaxUses,
		ExpiryDays:  req.ExpiryDays,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) ListInvites(c *gin.Context) {
	interviewID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInvalidInterview)
		return
	}

	invites, err := s.inviteSvc.ListByInterview(c.Request.Context(), interviewID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invites})
}

func (s *Server) GetInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	invite, err := s.inviteSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

func (s *Server) RevokeInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	var req revokeInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	invite, err := s.inviteSvc.Revoke(c.Request.Context(), id, req.RevokedBy)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

func (s *Server) ConsumeInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	invite, err := s.inviteSvc.Consume(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invite)
}

func (s *Server) DeleteInvite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, invitedomain.ErrInviteNotFound)
		return
	}

	if err := s.inviteSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, false
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
