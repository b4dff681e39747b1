package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"azurebridge/internal/azure"
	"azurebridge/internal/models"
)

const (
	storyWorkItemType = "User Story"

	// The remote description field stays a short marker; the full
	// document travels in the discussion comment and the acceptance
	// criteria in their dedicated field.
	storyMirrorDescription = "História criada pela Integração Azure"
)

// SyncOutcome records what happened to the best-effort Azure mirror of a
// local save. It is informational: a failed sync never fails the save.
type SyncOutcome struct {
	Attempted  bool   `json:"attempted"`
	Synced     bool   `json:"synced"`
	Project    string `json:"project,omitempty"`
	WorkItemID int    `json:"work_item_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// mirrorStory pushes a freshly saved story to Azure DevOps. The demand
// number selects the target project when it matches a project id or
// name; otherwise the first project of the organization is used.
func (s *Service) mirrorStory(ctx context.Context, story models.UserStory, document string) SyncOutcome {
	projects, err := s.mirror.Projects(ctx)
	if err != nil {
		return s.syncFailed(ctx, story, err)
	}
	if len(projects) == 0 {
		return s.syncFailed(ctx, story, errors.New("organization has no projects"))
	}

	target := projects[0]
	for _, p := range projects {
		if strings.EqualFold(p.ID, story.DemandNumber) || strings.EqualFold(p.Name, story.DemandNumber) {
			target = p
			break
		}
	}

	extra := []azure.Field{
		{Name: "Microsoft.VSTS.Common.Priority", Value: models.AzurePriority(story.Priority)},
		{Name: "System.AreaPath", Value: target.Name},
		{Name: "System.IterationPath", Value: target.Name},
		{Name: "Microsoft.VSTS.Common.AcceptanceCriteria", Value: story.AcceptanceCriteria},
	}

	item, err := s.mirror.CreateWorkItem(ctx, target.Name, storyWorkItemType, story.Title, storyMirrorDescription, extra, document)
	if err != nil {
		return s.syncFailed(ctx, story, err)
	}

	s.logger.Info("story mirrored to azure",
		slog.String("story", story.ID),
		slog.String("project", target.Name),
		slog.Int("work_item", item.ID))
	s.audit(ctx, models.LogEntry{
		Action:   "azure_sync",
		Entity:   "user_story",
		EntityID: story.ID,
		Details:  "work item created in " + target.Name,
		Level:    models.LogLevelSuccess,
	})

	return SyncOutcome{Attempted: true, Synced: true, Project: target.Name, WorkItemID: item.ID}
}

// syncFailed records a mirror failure in the server log and the audit
// table. The outcome carries the error text for the API response, but
// the save itself already succeeded and stays that way.
func (s *Service) syncFailed(ctx context.Context, story models.UserStory, err error) SyncOutcome {
	s.logger.Warn("azure mirror failed",
		slog.String("story", story.ID),
		slog.String("error", err.Error()))
	s.audit(ctx, models.LogEntry{
		Action:   "azure_sync",
		Entity:   "user_story",
		EntityID: story.ID,
		Details:  err.Error(),
		Level:    models.LogLevelError,
	})
	return SyncOutcome{Attempted: true, Error: err.Error()}
}
