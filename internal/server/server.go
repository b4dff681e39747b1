// Package server exposes the HTTP API: local CRUD for stories, issues
// and failures, the Azure DevOps read endpoints, settings, users and the
// audit log, plus the static frontend bundle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/azure"
	"azurebridge/internal/service"
	"azurebridge/internal/storage/sqlite"
)

// AzureClient is the remote surface of the explicit azure endpoints.
// The azure package client implements it; tests supply fakes.
type AzureClient interface {
	Projects(ctx context.Context) ([]azure.Project, error)
	WorkItems(ctx context.Context, project, workItemType string) ([]azure.WorkItem, error)
	CreateWorkItem(ctx context.Context, project, workItemType, title, description string, extra []azure.Field, comment string) (azure.WorkItem, error)
}

// Server provides the HTTP handlers of the integration backend.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	svc       *service.Service
	azure     AzureClient
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, svc *service.Service, azureClient AzureClient, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		store:     store,
		svc:       svc,
		azure:     azureClient,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		stories := api.Group("/stories")
		{
			stories.GET("", s.handleListStories)
			stories.POST("", s.handleCreateStory)
			stories.GET(":id", s.handleGetStory)
			stories.PUT(":id/status", s.handleUpdateStoryStatus)
		}

		issues := api.Group("/issues")
		{
			issues.GET("", s.handleListIssues)
			issues.POST("", s.handleCreateIssue)
			issues.GET(":id", s.handleGetIssue)
		}

		failures := api.Group("/failures")
		{
			failures.GET("", s.handleListFailures)
			failures.POST("", s.handleCreateFailure)
			failures.GET(":id", s.handleGetFailure)
		}

		az := api.Group("/azure")
		{
			az.GET("/projects", s.handleAzureProjects)
			az.GET("/projects/:id/workitems", s.handleAzureWorkItems)
			az.GET("/projects/:id/userstories", s.handleAzureUserStories)
			az.POST("/projects/:id/workitems", s.handleCreateWorkItem)
			az.GET("/test-connection", s.handleTestConnection)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", s.handleListSettings)
			settings.POST("", s.handleCreateSetting)
			settings.PUT(":id", s.handleUpdateSetting)
		}

		api.POST("/auth/login", s.handleLogin)
		api.POST("/auth/register", s.handleRegister)
		api.GET("/users", s.handleListUsers)
		api.GET("/profiles", s.handleListProfiles)

		api.GET("/logs", s.handleListLogs)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a numeric path parameter with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// storeStatus maps store lookup errors to HTTP statuses.
func storeStatus(err error) int {
	if errors.Is(err, sqlite.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
