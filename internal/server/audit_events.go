package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/candorhq/candor/internal/audit/domain"
	"github.com/candorhq/candor/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type listAuditEventsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	EventType string `form:"event_type"`
}

func (s *Server) ListAuditEvents(c *gin.Context) {
	interviewID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, auditdomain.ErrInvalidInterview)
		return
	}

	var query listAuditEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.auditSvc.ListByInterview(c.Request.Context(), auditdomain.ListRequest{
		Pagination: pagination.Pagination{
			PageToken: strings.TrimSpace(query.PageToken),
			PageSize:  query.PageSize,
		},
		InterviewID: interviewID,
		EventType:   strings.TrimSpace(query.EventType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Events, "page_info": resp.PageInfo})
}
