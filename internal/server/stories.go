package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/service"
)

// handleListStories returns all stories, newest first.
func (s *Server) handleListStories(c *gin.Context) {
	stories, err := s.svc.ListStories(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"stories": stories})
}

// handleGetStory returns one story with its attachments.
func (s *Server) handleGetStory(c *gin.Context) {
	story, err := s.svc.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"story": story})
}

// handleCreateStory saves a story locally and mirrors it to Azure
// DevOps. The response always carries the saved story; the sync block
// tells whether the mirror happened.
func (s *Server) handleCreateStory(c *gin.Context) {
	var req service.CreateStoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	result, err := s.svc.CreateStory(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"story": result.Story, "sync": result.Sync})
}

type storyStatusRequest struct {
	Status string `json:"status"`
}

// handleUpdateStoryStatus moves a story through its lifecycle.
func (s *Server) handleUpdateStoryStatus(c *gin.Context) {
	var req storyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.svc.UpdateStoryStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": req.Status})
}
