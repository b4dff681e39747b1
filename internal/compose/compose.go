// Package compose renders structured form records into the textual
// documents sent to Azure DevOps. Rendering is pure and deterministic:
// the same record always produces byte-identical output, absent sections
// are skipped without emitting their headings, and malformed values
// degrade to literal pass-through instead of failing.
package compose

import "time"

// Dialect selects the output markup.
type Dialect int

const (
	// Markdown produces a plain markdown document.
	Markdown Dialect = iota
	// HTML produces the HTML fragment Azure DevOps renders in the
	// description and discussion fields.
	HTML
)

// Narrative is the Como/Quero/Para block of a user story.
type Narrative struct {
	Actor   string `json:"como"`
	Goal    string `json:"quero"`
	Benefit string `json:"para"`
}

// ImpactItem contrasts the current process with the expected improvement.
type ImpactItem struct {
	Current  string `json:"current"`
	Expected string `json:"expected"`
}

// FormField describes one input of the screen being specified.
type FormField struct {
	Name     string `json:"name"`
	Kind     string `json:"type"`
	Size     string `json:"size"`
	Required bool   `json:"required"`
}

// Scenario is a given/when/then acceptance scenario.
type Scenario struct {
	Given string `json:"given"`
	When  string `json:"when"`
	Then  string `json:"then"`
}

// FileRef is an attachment or screenshot manifest entry.
type FileRef struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Record is the structured input of a user story document. Every section
// is optional; empty sections produce no output at all.
type Record struct {
	Narrative          *Narrative   `json:"user_story,omitempty"`
	AcceptanceCriteria string       `json:"acceptance_criteria,omitempty"`
	Impacts            []ImpactItem `json:"impacts,omitempty"`
	Objectives         []string     `json:"objectives,omitempty"`
	Screenshots        []FileRef    `json:"screenshots,omitempty"`
	FormFields         []FormField  `json:"form_fields,omitempty"`
	Messages           []string     `json:"messages,omitempty"`
	BusinessRules      []string     `json:"business_rules,omitempty"`
	Scenarios          []Scenario   `json:"scenarios,omitempty"`
	Attachments        []FileRef    `json:"attachments,omitempty"`
}

// FailureReport is the structured input of a failure document.
type FailureReport struct {
	Number       string
	OccurredAt   time.Time
	Environment  string
	Severity     string
	Scenarios    []Scenario
	Observations string
	ReportedBy   string
	Attachments  []FileRef
}

// IssueReport is the structured input of an issue document.
type IssueReport struct {
	Type           string
	Priority       string
	Environment    string
	OccurrenceType int
	Scenarios      []Scenario
	Observations   string
	Attachments    []FileRef
}

// UserStoryDocument renders a story record in the given dialect. The
// acceptance criteria block can be suppressed when that text is sent to
// the dedicated Azure DevOps field instead of the document body.
func UserStoryDocument(rec Record, dialect Dialect, includeAcceptanceCriteria bool) string {
	if dialect == HTML {
		return userStoryHTML(rec, includeAcceptanceCriteria)
	}
	return userStoryMarkdown(rec, includeAcceptanceCriteria)
}

// FailureDocument renders a failure report in the given dialect.
func FailureDocument(f FailureReport, dialect Dialect) string {
	if dialect == HTML {
		return failureHTML(f)
	}
	return failureMarkdown(f)
}

// IssueDocument renders an issue report in the given dialect.
func IssueDocument(i IssueReport, dialect Dialect) string {
	if dialect == HTML {
		return issueHTML(i)
	}
	return issueMarkdown(i)
}
