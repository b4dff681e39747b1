// Package service implements the application workflows: it composes
// documents from structured form input, persists records through the
// sqlite store and mirrors saved stories to Azure DevOps on a
// best-effort basis.
package service

import (
	"context"
	"errors"
	"log/slog"

	"azurebridge/internal/azure"
	"azurebridge/internal/compose"
	"azurebridge/internal/models"
)

// Validation failures surfaced to the HTTP layer.
var (
	// ErrDuplicateNumber means the business number is already taken.
	ErrDuplicateNumber = errors.New("number already in use")
	// ErrLinkedStoryNotFound means the referenced user story does not exist.
	ErrLinkedStoryNotFound = errors.New("linked user story not found")
	// ErrLinkedIssueNotFound means the referenced issue does not exist.
	ErrLinkedIssueNotFound = errors.New("linked issue not found")
)

// Store is the persistence surface the workflows need.
type Store interface {
	CreateStory(ctx context.Context, story models.UserStory) (models.UserStory, error)
	GetStory(ctx context.Context, id string) (models.UserStory, error)
	ListStories(ctx context.Context) ([]models.UserStory, error)
	UpdateStoryStatus(ctx context.Context, id, status string) error

	CreateIssue(ctx context.Context, issue models.Issue) (models.Issue, error)
	GetIssue(ctx context.Context, id string) (models.Issue, error)
	FindIssueByNumber(ctx context.Context, number string) (models.Issue, error)
	ListIssues(ctx context.Context) ([]models.Issue, error)

	CreateFailure(ctx context.Context, f models.Failure) (models.Failure, error)
	GetFailure(ctx context.Context, id string) (models.Failure, error)
	FindFailureByNumber(ctx context.Context, number string) (models.Failure, error)
	ListFailures(ctx context.Context) ([]models.Failure, error)

	AddLog(ctx context.Context, entry models.LogEntry) error
}

// Mirror is the remote side of the story workflow. The azure client
// implements it; tests supply fakes.
type Mirror interface {
	Projects(ctx context.Context) ([]azure.Project, error)
	CreateWorkItem(ctx context.Context, project, workItemType, title, description string, extra []azure.Field, comment string) (azure.WorkItem, error)
}

// Service wires the store, the composer and the Azure mirror together.
type Service struct {
	store  Store
	mirror Mirror
	logger *slog.Logger
}

// New creates the application service.
func New(store Store, mirror Mirror, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, mirror: mirror, logger: logger}
}

func fileRefs(attachments []models.Attachment) []compose.FileRef {
	if len(attachments) == 0 {
		return nil
	}
	refs := make([]compose.FileRef, len(attachments))
	for i, a := range attachments {
		refs[i] = compose.FileRef{Name: a.FileName, Size: a.Size, Type: a.ContentType}
	}
	return refs
}

// audit writes an audit row. A failed write is reported through the
// logger and otherwise ignored so it never breaks the operation.
func (s *Service) audit(ctx context.Context, entry models.LogEntry) {
	if err := s.store.AddLog(ctx, entry); err != nil {
		s.logger.Error("audit log write failed",
			slog.String("action", entry.Action),
			slog.String("entity", entry.Entity),
			slog.String("error", err.Error()))
	}
}
