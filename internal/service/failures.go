package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"azurebridge/internal/compose"
	"azurebridge/internal/models"
)

// CreateFailureInput carries the failure form. The description persisted
// locally is composed from the structured sections.
type CreateFailureInput struct {
	FailureNumber string              `json:"failure_number"`
	Title         string              `json:"title"`
	Severity      string              `json:"severity"`
	Activity      string              `json:"activity"`
	OccurredAt    time.Time           `json:"occurred_at"`
	Environment   string              `json:"environment"`
	IssueID       string              `json:"issue_id"`
	UserStoryID   string              `json:"user_story_id"`
	CreatedBy     string              `json:"created_by"`
	Scenarios     []compose.Scenario  `json:"scenarios"`
	Observations  string              `json:"observations"`
	Attachments   []models.Attachment `json:"attachments"`
}

// CreateFailure validates number uniqueness and the optional issue and
// story links, composes the failure document and persists the record.
// Failures are local only, nothing is sent to Azure.
func (s *Service) CreateFailure(ctx context.Context, in CreateFailureInput) (models.Failure, error) {
	if in.FailureNumber != "" {
		_, err := s.store.FindFailureByNumber(ctx, in.FailureNumber)
		if err == nil {
			return models.Failure{}, ErrDuplicateNumber
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Failure{}, err
		}
	}
	if in.IssueID != "" {
		if _, err := s.store.GetIssue(ctx, in.IssueID); err != nil {
			return models.Failure{}, ErrLinkedIssueNotFound
		}
	}
	if in.UserStoryID != "" {
		if _, err := s.store.GetStory(ctx, in.UserStoryID); err != nil {
			return models.Failure{}, ErrLinkedStoryNotFound
		}
	}

	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}

	document := compose.FailureDocument(compose.FailureReport{
		Number:       in.FailureNumber,
		OccurredAt:   in.OccurredAt,
		Environment:  in.Environment,
		Severity:     in.Severity,
		Scenarios:    in.Scenarios,
		Observations: in.Observations,
		ReportedBy:   in.CreatedBy,
		Attachments:  fileRefs(in.Attachments),
	}, compose.Markdown)

	failure := models.Failure{
		FailureNumber: in.FailureNumber,
		Title:         in.Title,
		Description:   document,
		Severity:      in.Severity,
		Activity:      in.Activity,
		OccurredAt:    in.OccurredAt,
		Environment:   in.Environment,
		IssueID:       in.IssueID,
		UserStoryID:   in.UserStoryID,
		CreatedBy:     in.CreatedBy,
		Attachments:   in.Attachments,
	}

	created, err := s.store.CreateFailure(ctx, failure)
	if err != nil {
		return models.Failure{}, err
	}

	s.audit(ctx, models.LogEntry{
		Action:   "create",
		Entity:   "failure",
		EntityID: created.ID,
		UserID:   in.CreatedBy,
		Level:    models.LogLevelInfo,
	})
	return created, nil
}

// GetFailure returns one failure with its attachments.
func (s *Service) GetFailure(ctx context.Context, id string) (models.Failure, error) {
	return s.store.GetFailure(ctx, id)
}

// ListFailures returns all failures newest first.
func (s *Service) ListFailures(ctx context.Context) ([]models.Failure, error) {
	return s.store.ListFailures(ctx)
}
