package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/service"
)

// handleListIssues returns all issues, newest first.
func (s *Server) handleListIssues(c *gin.Context) {
	issues, err := s.svc.ListIssues(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issues": issues})
}

// handleGetIssue returns one issue with its attachments.
func (s *Server) handleGetIssue(c *gin.Context) {
	issue, err := s.svc.GetIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"issue": issue})
}

// handleCreateIssue records a new issue. Issues stay local; no Azure
// call is made.
func (s *Server) handleCreateIssue(c *gin.Context) {
	var req service.CreateIssueInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	issue, err := s.svc.CreateIssue(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrDuplicateNumber) {
			status = http.StatusConflict
		}
		s.respondError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"issue": issue})
}
