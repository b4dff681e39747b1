package service

import (
	"context"

	"azurebridge/internal/compose"
	"azurebridge/internal/models"
)

// CreateStoryInput carries the story form: identification plus the
// structured sections the composer renders.
type CreateStoryInput struct {
	DemandNumber string              `json:"demand_number"`
	Title        string              `json:"title"`
	Priority     string              `json:"priority"`
	CreatedBy    string              `json:"created_by"`
	Record       compose.Record      `json:"record"`
	Attachments  []models.Attachment `json:"attachments"`
}

// StoryResult is the saved story together with the mirror outcome.
type StoryResult struct {
	Story models.UserStory `json:"story"`
	Sync  SyncOutcome      `json:"sync"`
}

// CreateStory renders the story document, saves it locally and then
// mirrors it to Azure DevOps. The local save decides success; the mirror
// is best-effort and its outcome is reported alongside the story.
func (s *Service) CreateStory(ctx context.Context, in CreateStoryInput) (StoryResult, error) {
	document := compose.UserStoryDocument(in.Record, compose.HTML, false)

	story := models.UserStory{
		DemandNumber:       in.DemandNumber,
		Title:              in.Title,
		AcceptanceCriteria: in.Record.AcceptanceCriteria,
		Description:        document,
		Priority:           in.Priority,
		CreatedBy:          in.CreatedBy,
		Attachments:        in.Attachments,
	}

	saved, err := s.store.CreateStory(ctx, story)
	if err != nil {
		return StoryResult{}, err
	}

	s.audit(ctx, models.LogEntry{
		Action:   "create",
		Entity:   "user_story",
		EntityID: saved.ID,
		UserID:   in.CreatedBy,
		Level:    models.LogLevelInfo,
	})

	return StoryResult{Story: saved, Sync: s.mirrorStory(ctx, saved, document)}, nil
}

// GetStory returns one story with its attachments.
func (s *Service) GetStory(ctx context.Context, id string) (models.UserStory, error) {
	return s.store.GetStory(ctx, id)
}

// ListStories returns all stories newest first.
func (s *Service) ListStories(ctx context.Context) ([]models.UserStory, error) {
	return s.store.ListStories(ctx)
}

// UpdateStoryStatus moves a story through its lifecycle.
func (s *Service) UpdateStoryStatus(ctx context.Context, id, status string) error {
	if err := s.store.UpdateStoryStatus(ctx, id, status); err != nil {
		return err
	}
	s.audit(ctx, models.LogEntry{
		Action:   "status_change",
		Entity:   "user_story",
		EntityID: id,
		Details:  status,
		Level:    models.LogLevelInfo,
	})
	return nil
}
