package models

import "time"

// UserStory is a structured demand captured through the story form and
// mirrored to Azure DevOps after the local save.
type UserStory struct {
	ID                 string       `json:"id"`
	DemandNumber       string       `json:"demand_number"`
	Title              string       `json:"title"`
	AcceptanceCriteria string       `json:"acceptance_criteria"`
	Description        string       `json:"description"`
	Status             string       `json:"status"`
	Priority           string       `json:"priority"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	CreatedBy          string       `json:"created_by"`
	Attachments        []Attachment `json:"attachments,omitempty"`
}

// Issue is a defect or improvement report, optionally linked to a story.
type Issue struct {
	ID             string       `json:"id"`
	IssueNumber    string       `json:"issue_number"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Type           string       `json:"type"`
	Priority       string       `json:"priority"`
	Status         string       `json:"status"`
	OccurrenceType int          `json:"occurrence_type"`
	Environment    string       `json:"environment"`
	UserStoryID    string       `json:"user_story_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CreatedBy      string       `json:"created_by"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// Failure records a production incident, optionally linked to an issue
// and/or a story.
type Failure struct {
	ID            string       `json:"id"`
	FailureNumber string       `json:"failure_number"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Severity      string       `json:"severity"`
	Status        string       `json:"status"`
	Activity      string       `json:"activity"`
	OccurredAt    time.Time    `json:"occurred_at"`
	Environment   string       `json:"environment"`
	IssueID       string       `json:"issue_id,omitempty"`
	UserStoryID   string       `json:"user_story_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	CreatedBy     string       `json:"created_by"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// Attachment keeps the metadata of a file handed in with a record. Only
// the manifest is stored; file bytes never reach the database.
type Attachment struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

// Setting is one integration configuration row (key/value). Secret values
// are masked when listed through the API.
type Setting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsSecret    bool      `json:"is_secret"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
}

// Profile defines an access level. Users reference exactly one profile.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// User is an internal account. Password holds the SHA-256 hex digest of
// the plain password, matching the legacy system this replaces.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	ProfileID string    `json:"profile_id"`
	Profile   *Profile  `json:"profile,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry is one audit record. Swallowed Azure sync failures end up here
// so operators can see them even though API callers never do.
type LogEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	UserID    string    `json:"user_id"`
	Details   string    `json:"details"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Story lifecycle states.
const (
	StoryStatusNew        = "new"
	StoryStatusInProgress = "in_progress"
	StoryStatusTesting    = "testing"
	StoryStatusCompleted  = "completed"
	StoryStatusRejected   = "rejected"
)

// ValidStoryStatuses enumerates the states a story may be in.
var ValidStoryStatuses = map[string]struct{}{
	StoryStatusNew:        {},
	StoryStatusInProgress: {},
	StoryStatusTesting:    {},
	StoryStatusCompleted:  {},
	StoryStatusRejected:   {},
}

// Priorities shared by stories and issues.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// ValidPriorities enumerates the supported priorities.
var ValidPriorities = map[string]struct{}{
	PriorityLow:      {},
	PriorityMedium:   {},
	PriorityHigh:     {},
	PriorityCritical: {},
}

// Issue kinds.
const (
	IssueTypeBug         = "bug"
	IssueTypeFeature     = "feature"
	IssueTypeImprovement = "improvement"
	IssueTypeTask        = "task"
)

// ValidIssueTypes enumerates the supported issue kinds.
var ValidIssueTypes = map[string]struct{}{
	IssueTypeBug:         {},
	IssueTypeFeature:     {},
	IssueTypeImprovement: {},
	IssueTypeTask:        {},
}

// Issue lifecycle states.
const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"
)

// Failure severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidSeverities enumerates the supported failure severities.
var ValidSeverities = map[string]struct{}{
	SeverityLow:      {},
	SeverityMedium:   {},
	SeverityHigh:     {},
	SeverityCritical: {},
}

// Failure lifecycle states.
const (
	FailureStatusReported      = "reported"
	FailureStatusInvestigating = "investigating"
	FailureStatusResolved      = "resolved"
)

// Audit log levels.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelSuccess = "success"
)

// AzurePriority maps an internal priority to the numeric scale Azure
// DevOps expects (1 is most urgent). Unknown values fall back to medium.
func AzurePriority(priority string) int {
	switch priority {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 3
	}
}
