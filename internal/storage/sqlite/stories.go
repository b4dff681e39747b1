package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"azurebridge/internal/models"
)

// CreateStory persists a new user story and its attachment manifests.
func (s *Store) CreateStory(ctx context.Context, story models.UserStory) (models.UserStory, error) {
	if strings.TrimSpace(story.Title) == "" {
		return models.UserStory{}, fmt.Errorf("story title must not be empty")
	}
	if _, ok := models.ValidPriorities[story.Priority]; !ok {
		story.Priority = models.PriorityMedium
	}
	if _, ok := models.ValidStoryStatuses[story.Status]; !ok {
		story.Status = models.StoryStatusNew
	}

	story.ID = newID()
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_stories(id, demand_number, title, acceptance_criteria, description, status, priority, created_by)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		story.ID, strings.TrimSpace(story.DemandNumber), strings.TrimSpace(story.Title),
		story.AcceptanceCriteria, story.Description, story.Status, story.Priority, story.CreatedBy)
	if err != nil {
		return models.UserStory{}, fmt.Errorf("insert story: %w", err)
	}

	for _, a := range story.Attachments {
		if err := s.addAttachment(ctx, story.ID, a, story.CreatedBy); err != nil {
			return models.UserStory{}, err
		}
	}

	return s.GetStory(ctx, story.ID)
}

// GetStory fetches a story with its attachments.
func (s *Store) GetStory(ctx context.Context, id string) (models.UserStory, error) {
	var st models.UserStory
	err := s.db.QueryRowContext(ctx, `SELECT id, demand_number, title, acceptance_criteria, description, status, priority, created_at, updated_at, created_by
        FROM user_stories WHERE id = ?`, id).
		Scan(&st.ID, &st.DemandNumber, &st.Title, &st.AcceptanceCriteria, &st.Description, &st.Status, &st.Priority, &st.CreatedAt, &st.UpdatedAt, &st.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStory{}, fmt.Errorf("story %w", ErrNotFound)
	}
	if err != nil {
		return models.UserStory{}, fmt.Errorf("get story: %w", err)
	}

	st.Attachments, err = s.ListAttachments(ctx, st.ID)
	if err != nil {
		return models.UserStory{}, err
	}
	return st, nil
}

// ListStories returns all stories newest first, without attachments.
func (s *Store) ListStories(ctx context.Context) ([]models.UserStory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, demand_number, title, acceptance_criteria, description, status, priority, created_at, updated_at, created_by
        FROM user_stories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []models.UserStory
	for rows.Next() {
		var st models.UserStory
		if err := rows.Scan(&st.ID, &st.DemandNumber, &st.Title, &st.AcceptanceCriteria, &st.Description, &st.Status, &st.Priority, &st.CreatedAt, &st.UpdatedAt, &st.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

// UpdateStoryStatus moves a story through its lifecycle.
func (s *Store) UpdateStoryStatus(ctx context.Context, id, status string) error {
	if _, ok := models.ValidStoryStatuses[status]; !ok {
		return fmt.Errorf("invalid story status %q", status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE user_stories SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("story %w", ErrNotFound)
	}
	return nil
}

func (s *Store) addAttachment(ctx context.Context, ownerID string, a models.Attachment, createdBy string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO attachments(id, owner_id, file_name, content_type, size, created_by)
        VALUES(?, ?, ?, ?, ?, ?)`, newID(), ownerID, a.FileName, a.ContentType, a.Size, createdBy)
	if err != nil {
		return fmt.Errorf("insert attachment: %w", err)
	}
	return nil
}

// ListAttachments returns the attachment manifests of a record.
func (s *Store) ListAttachments(ctx context.Context, ownerID string) ([]models.Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, owner_id, file_name, content_type, size, created_at, created_by
        FROM attachments WHERE owner_id = ? ORDER BY created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.FileName, &a.ContentType, &a.Size, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
