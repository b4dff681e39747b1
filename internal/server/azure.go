package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/azure"
)

// azureStatus maps synchronizer errors to HTTP statuses. Missing
// credentials are the caller's problem; everything remote is a gateway
// failure.
func azureStatus(err error) int {
	if errors.Is(err, azure.ErrCredentialsMissing) {
		return http.StatusBadRequest
	}
	var notFound *azure.ProjectNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// handleAzureProjects lists the organization's team projects.
func (s *Server) handleAzureProjects(c *gin.Context) {
	projects, err := s.azure.Projects(c.Request.Context())
	if err != nil {
		s.respondError(c, azureStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleAzureWorkItems queries work items of one type in a project. The
// type defaults to User Story.
func (s *Server) handleAzureWorkItems(c *gin.Context) {
	workItemType := c.DefaultQuery("type", "User Story")
	items, err := s.azure.WorkItems(c.Request.Context(), c.Param("id"), workItemType)
	if err != nil {
		s.respondError(c, azureStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"work_items": items})
}

// handleAzureUserStories is the fixed-type variant of the work item
// query, kept as its own route for the frontend.
func (s *Server) handleAzureUserStories(c *gin.Context) {
	items, err := s.azure.WorkItems(c.Request.Context(), c.Param("id"), "User Story")
	if err != nil {
		s.respondError(c, azureStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"work_items": items})
}

type createWorkItemRequest struct {
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Fields      []azure.Field `json:"fields"`
	Comment     string        `json:"comment"`
}

// handleCreateWorkItem creates a work item directly, outside the story
// workflow. Field order in the request is preserved in the patch
// document.
func (s *Server) handleCreateWorkItem(c *gin.Context) {
	var req createWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if req.Type == "" {
		req.Type = "User Story"
	}

	item, err := s.azure.CreateWorkItem(c.Request.Context(), c.Param("id"), req.Type, req.Title, req.Description, req.Fields, req.Comment)
	if err != nil {
		s.respondError(c, azureStatus(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"work_item": item})
}

// handleTestConnection checks that the configured credentials can reach
// the organization.
func (s *Server) handleTestConnection(c *gin.Context) {
	projects, err := s.azure.Projects(c.Request.Context())
	if err != nil {
		c.JSON(azureStatus(err), gin.H{"connected": false, "error": err.Error()})
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"connected": true, "projects": len(projects)})
}
