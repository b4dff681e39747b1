// Package azure mirrors locally persisted records as work items in Azure
// DevOps through its REST API. Every operation is stateless: credentials
// are resolved fresh from the settings store per call, each outbound
// request is attempted exactly once, and no response is cached.
package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Settings keys holding the connection parameters. The names come from
// the settings screen and are part of the seeded database contents.
const (
	SettingToken        = "Azure_Token"
	SettingOrganization = "Organizacao"
	SettingAPIVersion   = "Versao_API"

	defaultAPIVersion = "7.0"
	defaultBaseURL    = "https://dev.azure.com"
)

// itemFields is the fixed field set requested on batch detail fetches.
const itemFields = "System.Id,System.Title,System.State,System.AssignedTo,System.WorkItemType"

var guidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CredentialSource resolves settings rows by key. The sqlite store
// implements it; tests supply fakes.
type CredentialSource interface {
	GetSettingsByKeys(ctx context.Context, keys ...string) (map[string]string, error)
}

// Client talks to the Azure DevOps REST API.
type Client struct {
	source     CredentialSource
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient creates a synchronizer client backed by the given settings
// source.
func NewClient(source CredentialSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		source:     source,
		httpClient: &http.Client{},
		logger:     logger,
		baseURL:    defaultBaseURL,
	}
}

// credentials loads the connection settings. Missing token or
// organization means no remote call can be made at all.
func (c *Client) credentials(ctx context.Context) (Credentials, error) {
	values, err := c.source.GetSettingsByKeys(ctx, SettingToken, SettingOrganization, SettingAPIVersion)
	if err != nil {
		return Credentials{}, fmt.Errorf("loading azure settings: %w", err)
	}

	creds := Credentials{
		Organization: values[SettingOrganization],
		Token:        values[SettingToken],
		APIVersion:   values[SettingAPIVersion],
	}
	if creds.APIVersion == "" {
		creds.APIVersion = defaultAPIVersion
	}
	if creds.Organization == "" || creds.Token == "" {
		return Credentials{}, ErrCredentialsMissing
	}
	return creds, nil
}

// Projects lists the organization's team projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}
	return c.listProjects(ctx, creds)
}

func (c *Client) listProjects(ctx context.Context, creds Credentials) ([]Project, error) {
	endpoint := fmt.Sprintf("%s/%s/_apis/projects?api-version=%s", c.baseURL, creds.Organization, creds.APIVersion)

	var result projectsResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, creds, "", nil, &result); err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(result.Value))
	projects = append(projects, result.Value...)
	return projects, nil
}

// WorkItems queries work items of the given type in a project. The
// project may be passed by GUID or by name; GUIDs are resolved to names
// first because WIQL filters on the project name.
func (c *Client) WorkItems(ctx context.Context, project, workItemType string) ([]WorkItem, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}

	projectName := project
	if guidPattern.MatchString(project) {
		projects, err := c.listProjects(ctx, creds)
		if err != nil {
			return nil, err
		}
		projectName = ""
		for _, p := range projects {
			if strings.EqualFold(p.ID, project) {
				projectName = p.Name
				break
			}
		}
		if projectName == "" {
			return nil, &ProjectNotFoundError{Project: project}
		}
	}

	wiql := fmt.Sprintf(
		"SELECT [System.Id], [System.Title], [System.State], [System.AssignedTo] FROM WorkItems WHERE [System.WorkItemType] = '%s' AND [System.TeamProject] = '%s' ORDER BY [System.ChangedDate] DESC",
		workItemType, projectName)

	// The WIQL endpoint is pinned to 7.0 regardless of the configured
	// version; newer api-versions change the response envelope.
	queryURL := fmt.Sprintf("%s/%s/%s/_apis/wit/wiql?api-version=7.0",
		c.baseURL, creds.Organization, url.PathEscape(projectName))

	var queried wiqlResponse
	if err := c.doJSON(ctx, http.MethodPost, queryURL, creds, "application/json", wiqlRequest{Query: wiql}, &queried); err != nil {
		return nil, err
	}

	if len(queried.WorkItems) == 0 {
		return []WorkItem{}, nil
	}

	ids := make([]string, len(queried.WorkItems))
	for i, ref := range queried.WorkItems {
		ids[i] = strconv.Itoa(ref.ID)
	}

	detailsURL := fmt.Sprintf("%s/%s/_apis/wit/workitems?ids=%s&fields=%s&api-version=%s",
		c.baseURL, creds.Organization, strings.Join(ids, ","), itemFields, creds.APIVersion)

	var details workItemsResponse
	if err := c.doJSON(ctx, http.MethodGet, detailsURL, creds, "", nil, &details); err != nil {
		return nil, err
	}

	items := make([]WorkItem, 0, len(details.Value))
	for _, wi := range details.Value {
		items = append(items, mapWorkItem(wi, workItemType))
	}
	return items, nil
}

// CreateWorkItem creates a remote work item from an ordered JSON-Patch
// document: title, description, then the extra fields in caller order.
// A non-blank comment is posted to the created item's discussion as a
// follow-up; failure of that secondary call is logged and swallowed, the
// created item is still returned.
func (c *Client) CreateWorkItem(ctx context.Context, project, workItemType, title, description string, extra []Field, comment string) (WorkItem, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		return WorkItem{}, err
	}

	ops := []patchOp{
		{Op: "add", Path: "/fields/System.Title", Value: title},
		{Op: "add", Path: "/fields/System.Description", Value: description},
	}
	for _, f := range extra {
		ops = append(ops, patchOp{Op: "add", Path: "/fields/" + f.Name, Value: f.Value})
	}

	createURL := fmt.Sprintf("%s/%s/%s/_apis/wit/workitems/$%s?api-version=%s",
		c.baseURL, creds.Organization, url.PathEscape(project), url.PathEscape(workItemType), creds.APIVersion)

	var created wireWorkItem
	if err := c.doJSON(ctx, http.MethodPost, createURL, creds, "application/json-patch+json", ops, &created); err != nil {
		return WorkItem{}, err
	}

	item := mapWorkItem(created, workItemType)

	if strings.TrimSpace(comment) != "" && item.ID > 0 {
		if err := c.addComment(ctx, creds, project, item.ID, comment); err != nil {
			c.logger.Warn("work item comment failed",
				slog.Int("work_item", item.ID),
				slog.String("project", project),
				slog.String("error", err.Error()))
		}
	}

	return item, nil
}

func (c *Client) addComment(ctx context.Context, creds Credentials, project string, workItemID int, text string) error {
	endpoint := fmt.Sprintf("%s/%s/%s/_apis/wit/workItems/%d/comments?api-version=%s",
		c.baseURL, creds.Organization, url.PathEscape(project), workItemID, creds.APIVersion)
	return c.doJSON(ctx, http.MethodPost, endpoint, creds, "application/json", commentRequest{Text: text}, nil)
}

// doJSON performs one authenticated request. Each call is self-contained
// and attempted exactly once; a non-2xx status becomes a RemoteError
// carrying the raw body.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, creds Credentials, contentType string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshalling payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", basicAuth(creds.Token))
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &RemoteError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// basicAuth builds the PAT authorization header: empty username, token
// as password. Azure DevOps expects exactly this byte sequence.
func basicAuth(token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+token))
}

func mapWorkItem(wi wireWorkItem, fallbackType string) WorkItem {
	item := WorkItem{
		ID:           wi.ID,
		Title:        wi.Fields.Title,
		State:        wi.Fields.State,
		WorkItemType: wi.Fields.WorkItemType,
	}
	if item.Title == "" {
		item.Title = "Sem título"
	}
	if item.State == "" {
		item.State = "Desconhecido"
	}
	if wi.Fields.AssignedTo != nil && wi.Fields.AssignedTo.DisplayName != "" {
		item.AssignedTo = wi.Fields.AssignedTo.DisplayName
	} else {
		item.AssignedTo = "Não atribuído"
	}
	if item.WorkItemType == "" {
		item.WorkItemType = fallbackType
	}
	return item
}
