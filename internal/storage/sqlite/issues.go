package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"azurebridge/internal/models"
)

// CreateIssue persists a new issue. Issue numbers are unique.
func (s *Store) CreateIssue(ctx context.Context, issue models.Issue) (models.Issue, error) {
	if strings.TrimSpace(issue.Title) == "" {
		return models.Issue{}, fmt.Errorf("issue title must not be empty")
	}
	if _, ok := models.ValidIssueTypes[issue.Type]; !ok {
		issue.Type = models.IssueTypeBug
	}
	if _, ok := models.ValidPriorities[issue.Priority]; !ok {
		issue.Priority = models.PriorityMedium
	}
	if issue.Status == "" {
		issue.Status = models.IssueStatusOpen
	}

	issue.ID = newID()
	var storyID any
	if issue.UserStoryID != "" {
		storyID = issue.UserStoryID
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO issues(id, issue_number, title, description, type, priority, status, occurrence_type, environment, user_story_id, created_by)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ID, strings.TrimSpace(issue.IssueNumber), strings.TrimSpace(issue.Title), issue.Description,
		issue.Type, issue.Priority, issue.Status, issue.OccurrenceType, issue.Environment, storyID, issue.CreatedBy)
	if err != nil {
		return models.Issue{}, fmt.Errorf("insert issue: %w", err)
	}

	for _, a := range issue.Attachments {
		if err := s.addAttachment(ctx, issue.ID, a, issue.CreatedBy); err != nil {
			return models.Issue{}, err
		}
	}

	return s.GetIssue(ctx, issue.ID)
}

// GetIssue fetches an issue with its attachments.
func (s *Store) GetIssue(ctx context.Context, id string) (models.Issue, error) {
	var is models.Issue
	var storyID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, issue_number, title, description, type, priority, status, occurrence_type, environment, user_story_id, created_at, updated_at, created_by
        FROM issues WHERE id = ?`, id).
		Scan(&is.ID, &is.IssueNumber, &is.Title, &is.Description, &is.Type, &is.Priority, &is.Status, &is.OccurrenceType, &is.Environment, &storyID, &is.CreatedAt, &is.UpdatedAt, &is.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Issue{}, fmt.Errorf("issue %w", ErrNotFound)
	}
	if err != nil {
		return models.Issue{}, fmt.Errorf("get issue: %w", err)
	}
	is.UserStoryID = storyID.String

	is.Attachments, err = s.ListAttachments(ctx, is.ID)
	if err != nil {
		return models.Issue{}, err
	}
	return is, nil
}

// FindIssueByNumber looks an issue up by its business number. Returns
// sql.ErrNoRows wrapped when no row matches.
func (s *Store) FindIssueByNumber(ctx context.Context, number string) (models.Issue, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM issues WHERE issue_number = ?`, number).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Issue{}, err
	}
	if err != nil {
		return models.Issue{}, fmt.Errorf("find issue: %w", err)
	}
	return s.GetIssue(ctx, id)
}

// ListIssues returns all issues newest first, without attachments.
func (s *Store) ListIssues(ctx context.Context) ([]models.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, issue_number, title, description, type, priority, status, occurrence_type, environment, user_story_id, created_at, updated_at, created_by
        FROM issues ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	var issues []models.Issue
	for rows.Next() {
		var is models.Issue
		var storyID sql.NullString
		if err := rows.Scan(&is.ID, &is.IssueNumber, &is.Title, &is.Description, &is.Type, &is.Priority, &is.Status, &is.OccurrenceType, &is.Environment, &storyID, &is.CreatedAt, &is.UpdatedAt, &is.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		is.UserStoryID = storyID.String
		issues = append(issues, is)
	}
	return issues, rows.Err()
}
