package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"azurebridge/internal/models"
)

// CreateFailure persists a new failure report. Failure numbers are unique.
func (s *Store) CreateFailure(ctx context.Context, f models.Failure) (models.Failure, error) {
	if strings.TrimSpace(f.Title) == "" {
		return models.Failure{}, fmt.Errorf("failure title must not be empty")
	}
	if _, ok := models.ValidSeverities[f.Severity]; !ok {
		f.Severity = models.SeverityMedium
	}
	if f.Status == "" {
		f.Status = models.FailureStatusReported
	}

	f.ID = newID()
	var issueID, storyID any
	if f.IssueID != "" {
		issueID = f.IssueID
	}
	if f.UserStoryID != "" {
		storyID = f.UserStoryID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO failures(id, failure_number, title, description, severity, status, activity, occurred_at, environment, issue_id, user_story_id, created_by)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, strings.TrimSpace(f.FailureNumber), strings.TrimSpace(f.Title), f.Description,
		f.Severity, f.Status, f.Activity, f.OccurredAt, f.Environment, issueID, storyID, f.CreatedBy)
	if err != nil {
		return models.Failure{}, fmt.Errorf("insert failure: %w", err)
	}

	for _, a := range f.Attachments {
		if err := s.addAttachment(ctx, f.ID, a, f.CreatedBy); err != nil {
			return models.Failure{}, err
		}
	}

	return s.GetFailure(ctx, f.ID)
}

// GetFailure fetches a failure with its attachments.
func (s *Store) GetFailure(ctx context.Context, id string) (models.Failure, error) {
	var f models.Failure
	var issueID, storyID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, failure_number, title, description, severity, status, activity, occurred_at, environment, issue_id, user_story_id, created_at, updated_at, created_by
        FROM failures WHERE id = ?`, id).
		Scan(&f.ID, &f.FailureNumber, &f.Title, &f.Description, &f.Severity, &f.Status, &f.Activity, &f.OccurredAt, &f.Environment, &issueID, &storyID, &f.CreatedAt, &f.UpdatedAt, &f.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failure{}, fmt.Errorf("failure %w", ErrNotFound)
	}
	if err != nil {
		return models.Failure{}, fmt.Errorf("get failure: %w", err)
	}
	f.IssueID = issueID.String
	f.UserStoryID = storyID.String

	f.Attachments, err = s.ListAttachments(ctx, f.ID)
	if err != nil {
		return models.Failure{}, err
	}
	return f, nil
}

// FindFailureByNumber looks a failure up by its business number.
func (s *Store) FindFailureByNumber(ctx context.Context, number string) (models.Failure, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM failures WHERE failure_number = ?`, number).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Failure{}, err
	}
	if err != nil {
		return models.Failure{}, fmt.Errorf("find failure: %w", err)
	}
	return s.GetFailure(ctx, id)
}

// ListFailures returns all failures newest first, without attachments.
func (s *Store) ListFailures(ctx context.Context) ([]models.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, failure_number, title, description, severity, status, activity, occurred_at, environment, issue_id, user_story_id, created_at, updated_at, created_by
        FROM failures ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	var failures []models.Failure
	for rows.Next() {
		var f models.Failure
		var issueID, storyID sql.NullString
		if err := rows.Scan(&f.ID, &f.FailureNumber, &f.Title, &f.Description, &f.Severity, &f.Status, &f.Activity, &f.OccurredAt, &f.Environment, &issueID, &storyID, &f.CreatedAt, &f.UpdatedAt, &f.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		f.IssueID = issueID.String
		f.UserStoryID = storyID.String
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
