package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"azurebridge/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_SeedsProfilesAndAzureSettings(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("got %d profiles, want 3", len(profiles))
	}

	settings, err := store.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings failed: %v", err)
	}
	byKey := map[string]models.Setting{}
	for _, s := range settings {
		byKey[s.Key] = s
	}
	for _, key := range []string{"Azure_Token", "Organizacao", "Versao_API"} {
		s, ok := byKey[key]
		if !ok {
			t.Errorf("seeded setting %s missing", key)
			continue
		}
		if s.IsActive {
			t.Errorf("seeded setting %s should start inactive", key)
		}
	}
	if !byKey["Azure_Token"].IsSecret {
		t.Errorf("token setting should be secret")
	}
}

func TestGetSettingsByKeys_OnlyActiveValues(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreateSetting(ctx, models.Setting{Key: "Extra", Value: "x", IsActive: true})
	if err != nil {
		t.Fatalf("CreateSetting failed: %v", err)
	}

	// The seeded azure keys are inactive, so they stay absent.
	values, err := store.GetSettingsByKeys(ctx, "Azure_Token", "Extra", "Nope")
	if err != nil {
		t.Fatalf("GetSettingsByKeys failed: %v", err)
	}
	if len(values) != 1 || values["Extra"] != "x" {
		t.Errorf("values = %v, want only Extra", values)
	}

	if _, err := store.UpdateSetting(ctx, created.ID, models.Setting{Value: "y", IsActive: false}); err != nil {
		t.Fatalf("UpdateSetting failed: %v", err)
	}
	values, err = store.GetSettingsByKeys(ctx, "Extra")
	if err != nil {
		t.Fatalf("GetSettingsByKeys failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("deactivated setting should disappear, got %v", values)
	}
}

func TestCreateStory_RoundtripWithAttachments(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreateStory(ctx, models.UserStory{
		DemandNumber: "DEM-1",
		Title:        "Exportar",
		Priority:     models.PriorityHigh,
		CreatedBy:    "ana",
		Attachments: []models.Attachment{
			{FileName: "tela.png", ContentType: "image/png", Size: 2048},
		},
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`).MatchString(created.ID) {
		t.Errorf("story id %q is not GUID shaped", created.ID)
	}
	if created.Status != models.StoryStatusNew {
		t.Errorf("default status = %q, want new", created.Status)
	}
	if len(created.Attachments) != 1 || created.Attachments[0].FileName != "tela.png" {
		t.Errorf("attachments = %+v", created.Attachments)
	}

	if err := store.UpdateStoryStatus(ctx, created.ID, models.StoryStatusTesting); err != nil {
		t.Fatalf("UpdateStoryStatus failed: %v", err)
	}
	got, err := store.GetStory(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStory failed: %v", err)
	}
	if got.Status != models.StoryStatusTesting {
		t.Errorf("status = %q, want testing", got.Status)
	}

	if err := store.UpdateStoryStatus(ctx, created.ID, "bogus"); err == nil {
		t.Errorf("invalid status should be rejected")
	}
}

func TestGetStory_NotFoundSentinel(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetStory(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateIssue_UniqueNumber(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	issue := models.Issue{IssueNumber: "ISS-1", Title: "Primeira"}
	if _, err := store.CreateIssue(ctx, issue); err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}
	if _, err := store.CreateIssue(ctx, issue); err == nil {
		t.Errorf("duplicate issue number should fail")
	}

	found, err := store.FindIssueByNumber(ctx, "ISS-1")
	if err != nil {
		t.Fatalf("FindIssueByNumber failed: %v", err)
	}
	if found.Title != "Primeira" {
		t.Errorf("found title = %q", found.Title)
	}

	if _, err := store.FindIssueByNumber(ctx, "ISS-404"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("miss should surface sql.ErrNoRows, got %v", err)
	}
}

func TestCreateFailure_LinksAndLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	story, err := store.CreateStory(ctx, models.UserStory{DemandNumber: "DEM-2", Title: "Base"})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	issue, err := store.CreateIssue(ctx, models.Issue{IssueNumber: "ISS-9", Title: "Origem", UserStoryID: story.ID})
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}

	failure, err := store.CreateFailure(ctx, models.Failure{
		FailureNumber: "FLH-1",
		Title:         "Fila parada",
		Severity:      models.SeverityCritical,
		IssueID:       issue.ID,
		UserStoryID:   story.ID,
	})
	if err != nil {
		t.Fatalf("CreateFailure failed: %v", err)
	}
	if failure.IssueID != issue.ID || failure.UserStoryID != story.ID {
		t.Errorf("links not persisted: %+v", failure)
	}
	if failure.Status != models.FailureStatusReported {
		t.Errorf("default status = %q, want reported", failure.Status)
	}
}

func TestUsers_CreateAndLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	profile, err := store.GetProfileByName(ctx, "Usuário")
	if err != nil {
		t.Fatalf("GetProfileByName failed: %v", err)
	}

	created, err := store.CreateUser(ctx, models.User{
		Name:      "Ana Lima",
		Nickname:  "ana",
		Email:     "Ana@Example.com",
		Password:  "digest",
		ProfileID: profile.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.Email != "ana@example.com" {
		t.Errorf("email should be normalized, got %q", created.Email)
	}
	if created.Profile == nil || created.Profile.Name != "Usuário" {
		t.Errorf("profile not joined: %+v", created.Profile)
	}

	// Lookup is case-insensitive through the same normalization.
	got, err := store.GetUserByEmail(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("lookup returned wrong user")
	}

	if _, err := store.CreateUser(ctx, models.User{Email: "ana@example.com", Password: "x", ProfileID: profile.ID}); err == nil {
		t.Errorf("duplicate email should fail")
	}
}

func TestLogs_AppendAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []models.LogEntry{
		{Action: "create", Entity: "user_story", EntityID: "s1", Level: models.LogLevelInfo},
		{Action: "azure_sync", Entity: "user_story", EntityID: "s1", Details: "boom", Level: models.LogLevelError},
	}
	for _, e := range entries {
		if err := store.AddLog(ctx, e); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}
	if err := store.AddLog(ctx, models.LogEntry{Action: "x", Entity: "y", Level: "shout"}); err == nil {
		t.Errorf("invalid level should be rejected")
	}

	logs, err := store.ListLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d logs, want 2", len(logs))
	}
}
