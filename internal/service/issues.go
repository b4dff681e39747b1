package service

import (
	"context"
	"database/sql"
	"errors"

	"azurebridge/internal/compose"
	"azurebridge/internal/models"
)

// CreateIssueInput carries the issue form. The description persisted
// locally is composed from the structured sections.
type CreateIssueInput struct {
	IssueNumber    string              `json:"issue_number"`
	Title          string              `json:"title"`
	Type           string              `json:"type"`
	Priority       string              `json:"priority"`
	Environment    string              `json:"environment"`
	OccurrenceType int                 `json:"occurrence_type"`
	UserStoryID    string              `json:"user_story_id"`
	CreatedBy      string              `json:"created_by"`
	Scenarios      []compose.Scenario  `json:"scenarios"`
	Observations   string              `json:"observations"`
	Attachments    []models.Attachment `json:"attachments"`
}

// CreateIssue validates number uniqueness and the optional story link,
// composes the issue document and persists the record. Issues are local
// only, nothing is sent to Azure.
func (s *Service) CreateIssue(ctx context.Context, in CreateIssueInput) (models.Issue, error) {
	if in.IssueNumber != "" {
		_, err := s.store.FindIssueByNumber(ctx, in.IssueNumber)
		if err == nil {
			return models.Issue{}, ErrDuplicateNumber
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Issue{}, err
		}
	}
	if in.UserStoryID != "" {
		if _, err := s.store.GetStory(ctx, in.UserStoryID); err != nil {
			return models.Issue{}, ErrLinkedStoryNotFound
		}
	}

	document := compose.IssueDocument(compose.IssueReport{
		Type:           in.Type,
		Priority:       in.Priority,
		Environment:    in.Environment,
		OccurrenceType: in.OccurrenceType,
		Scenarios:      in.Scenarios,
		Observations:   in.Observations,
		Attachments:    fileRefs(in.Attachments),
	}, compose.Markdown)

	issue := models.Issue{
		IssueNumber:    in.IssueNumber,
		Title:          in.Title,
		Description:    document,
		Type:           in.Type,
		Priority:       in.Priority,
		OccurrenceType: in.OccurrenceType,
		Environment:    in.Environment,
		UserStoryID:    in.UserStoryID,
		CreatedBy:      in.CreatedBy,
		Attachments:    in.Attachments,
	}

	created, err := s.store.CreateIssue(ctx, issue)
	if err != nil {
		return models.Issue{}, err
	}

	s.audit(ctx, models.LogEntry{
		Action:   "create",
		Entity:   "issue",
		EntityID: created.ID,
		UserID:   in.CreatedBy,
		Level:    models.LogLevelInfo,
	})
	return created, nil
}

// GetIssue returns one issue with its attachments.
func (s *Service) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	return s.store.GetIssue(ctx, id)
}

// ListIssues returns all issues newest first.
func (s *Service) ListIssues(ctx context.Context) ([]models.Issue, error) {
	return s.store.ListIssues(ctx)
}
