package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/service"
)

// handleListFailures returns all failures, newest first.
func (s *Server) handleListFailures(c *gin.Context) {
	failures, err := s.svc.ListFailures(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"failures": failures})
}

// handleGetFailure returns one failure with its attachments.
func (s *Server) handleGetFailure(c *gin.Context) {
	failure, err := s.svc.GetFailure(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"failure": failure})
}

// handleCreateFailure records a new failure. Failures stay local; no
// Azure call is made.
func (s *Server) handleCreateFailure(c *gin.Context) {
	var req service.CreateFailureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	failure, err := s.svc.CreateFailure(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrDuplicateNumber) {
			status = http.StatusConflict
		}
		s.respondError(c, status, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"failure": failure})
}
