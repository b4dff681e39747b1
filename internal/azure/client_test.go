package azure

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type fakeSource struct {
	values map[string]string
	err    error
}

func (f *fakeSource) GetSettingsByKeys(_ context.Context, keys ...string) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func configuredSource() *fakeSource {
	return &fakeSource{values: map[string]string{
		SettingToken:        "pat-secret",
		SettingOrganization: "contoso",
	}}
}

// recorder captures every request hitting the fake API.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	method      string
	path        string
	query       string
	auth        string
	contentType string
	body        string
}

func (r *recorder) record(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, recordedRequest{
		method:      req.Method,
		path:        req.URL.Path,
		query:       req.URL.RawQuery,
		auth:        req.Header.Get("Authorization"),
		contentType: req.Header.Get("Content-Type"),
		body:        string(body),
	})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newTestClient(t *testing.T, source CredentialSource, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec.record(req)
		handler(w, req)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(source, nil)
	c.baseURL = srv.URL
	return c, rec
}

func TestProjects_MissingCredentials(t *testing.T) {
	c, rec := newTestClient(t, &fakeSource{values: map[string]string{}}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Projects(context.Background())
	if !errors.Is(err, ErrCredentialsMissing) {
		t.Fatalf("Projects error = %v, want ErrCredentialsMissing", err)
	}
	if rec.count() != 0 {
		t.Errorf("no HTTP call should be made without credentials, got %d", rec.count())
	}
}

func TestProjects_AuthAndDefaults(t *testing.T) {
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(projectsResponse{Count: 1, Value: []Project{{ID: "p1", Name: "Alpha"}}})
	})

	projects, err := c.Projects(context.Background())
	if err != nil {
		t.Fatalf("Projects failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Alpha" {
		t.Fatalf("Projects = %+v, want one project Alpha", projects)
	}

	req := rec.requests[0]
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(":pat-secret"))
	if req.auth != wantAuth {
		t.Errorf("Authorization = %q, want %q", req.auth, wantAuth)
	}
	if req.path != "/contoso/_apis/projects" {
		t.Errorf("path = %q", req.path)
	}
	if !strings.Contains(req.query, "api-version=7.0") {
		t.Errorf("default api version missing from query %q", req.query)
	}
}

func TestProjects_RemoteError(t *testing.T) {
	c, _ := newTestClient(t, configuredSource(), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "TF400813")
	})

	_, err := c.Projects(context.Background())
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Projects error = %v, want *RemoteError", err)
	}
	if remote.Status != http.StatusUnauthorized || remote.Body != "TF400813" {
		t.Errorf("RemoteError = %+v", remote)
	}
}

func TestWorkItems_UnknownGUIDStopsAfterProjectList(t *testing.T) {
	guid := "11111111-2222-3333-4444-555555555555"
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/contoso/_apis/projects" {
			t.Errorf("unexpected call to %s", req.URL.Path)
		}
		json.NewEncoder(w).Encode(projectsResponse{Count: 1, Value: []Project{{ID: "other", Name: "Alpha"}}})
	})

	_, err := c.WorkItems(context.Background(), guid, "User Story")
	var notFound *ProjectNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("WorkItems error = %v, want *ProjectNotFoundError", err)
	}
	if notFound.Project != guid {
		t.Errorf("ProjectNotFoundError.Project = %q, want %q", notFound.Project, guid)
	}
	if rec.count() != 1 {
		t.Errorf("expected exactly one HTTP call, got %d", rec.count())
	}
}

func TestWorkItems_EmptyQuerySkipsDetailFetch(t *testing.T) {
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, req *http.Request) {
		if !strings.HasSuffix(req.URL.Path, "/_apis/wit/wiql") {
			t.Errorf("unexpected call to %s", req.URL.Path)
		}
		json.NewEncoder(w).Encode(wiqlResponse{})
	})

	items, err := c.WorkItems(context.Background(), "Alpha", "User Story")
	if err != nil {
		t.Fatalf("WorkItems failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("WorkItems = %#v, want empty non-nil slice", items)
	}
	if rec.count() != 1 {
		t.Errorf("detail fetch should be skipped, got %d calls", rec.count())
	}

	req := rec.requests[0]
	if !strings.Contains(req.query, "api-version=7.0") {
		t.Errorf("wiql endpoint must pin api-version=7.0, query %q", req.query)
	}
	var payload wiqlRequest
	if err := json.Unmarshal([]byte(req.body), &payload); err != nil {
		t.Fatalf("decoding wiql body: %v", err)
	}
	if !strings.Contains(payload.Query, "[System.WorkItemType] = 'User Story'") ||
		!strings.Contains(payload.Query, "[System.TeamProject] = 'Alpha'") {
		t.Errorf("unexpected WIQL query %q", payload.Query)
	}
}

func TestWorkItems_MapsDefaults(t *testing.T) {
	c, _ := newTestClient(t, configuredSource(), func(w http.ResponseWriter, req *http.Request) {
		switch {
		case strings.HasSuffix(req.URL.Path, "/_apis/wit/wiql"):
			json.NewEncoder(w).Encode(wiqlResponse{WorkItems: []workItemRef{{ID: 7}, {ID: 9}}})
		case strings.HasSuffix(req.URL.Path, "/_apis/wit/workitems"):
			if !strings.Contains(req.URL.RawQuery, "ids=7,9") {
				t.Errorf("detail query = %q, want ids=7,9", req.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(workItemsResponse{Count: 2, Value: []wireWorkItem{
				{ID: 7, Fields: wireItemFields{Title: "Login", State: "Active", AssignedTo: &wireIdentity{DisplayName: "Ana"}}},
				{ID: 9},
			}})
		default:
			t.Errorf("unexpected call to %s", req.URL.Path)
		}
	})

	items, err := c.WorkItems(context.Background(), "Alpha", "User Story")
	if err != nil {
		t.Fatalf("WorkItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].AssignedTo != "Ana" {
		t.Errorf("AssignedTo = %q, want Ana", items[0].AssignedTo)
	}
	bare := items[1]
	if bare.Title != "Sem título" || bare.State != "Desconhecido" || bare.AssignedTo != "Não atribuído" {
		t.Errorf("missing fields should get defaults, got %+v", bare)
	}
	if bare.WorkItemType != "User Story" {
		t.Errorf("WorkItemType fallback = %q, want queried type", bare.WorkItemType)
	}
}

func TestCreateWorkItem_PatchOrderAndContentType(t *testing.T) {
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(wireWorkItem{ID: 42, Fields: wireItemFields{Title: "Nova", State: "New"}})
	})

	extra := []Field{
		{Name: "Microsoft.VSTS.Common.Priority", Value: 2},
		{Name: "System.AreaPath", Value: "Alpha"},
	}
	item, err := c.CreateWorkItem(context.Background(), "Alpha", "User Story", "Nova", "desc", extra, "")
	if err != nil {
		t.Fatalf("CreateWorkItem failed: %v", err)
	}
	if item.ID != 42 {
		t.Errorf("item ID = %d, want 42", item.ID)
	}

	req := rec.requests[0]
	if req.contentType != "application/json-patch+json" {
		t.Errorf("Content-Type = %q", req.contentType)
	}
	if req.path != "/contoso/Alpha/_apis/wit/workitems/$User Story" {
		t.Errorf("path = %q", req.path)
	}

	var ops []patchOp
	if err := json.Unmarshal([]byte(req.body), &ops); err != nil {
		t.Fatalf("decoding patch body: %v", err)
	}
	wantPaths := []string{
		"/fields/System.Title",
		"/fields/System.Description",
		"/fields/Microsoft.VSTS.Common.Priority",
		"/fields/System.AreaPath",
	}
	if len(ops) != len(wantPaths) {
		t.Fatalf("got %d ops, want %d", len(ops), len(wantPaths))
	}
	for i, op := range ops {
		if op.Op != "add" {
			t.Errorf("op[%d].Op = %q, want add", i, op.Op)
		}
		if op.Path != wantPaths[i] {
			t.Errorf("op[%d].Path = %q, want %q", i, op.Path, wantPaths[i])
		}
	}
}

func TestCreateWorkItem_CommentFailureIsSwallowed(t *testing.T) {
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, req *http.Request) {
		if strings.Contains(req.URL.Path, "/comments") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(wireWorkItem{ID: 42, Fields: wireItemFields{Title: "Nova"}})
	})

	item, err := c.CreateWorkItem(context.Background(), "Alpha", "User Story", "Nova", "desc", nil, "<h1>doc</h1>")
	if err != nil {
		t.Fatalf("comment failure must not fail creation: %v", err)
	}
	if item.ID != 42 {
		t.Errorf("item ID = %d, want 42", item.ID)
	}
	if rec.count() != 2 {
		t.Errorf("expected create plus comment calls, got %d", rec.count())
	}

	comment := rec.requests[1]
	if !strings.Contains(comment.path, "/_apis/wit/workItems/42/comments") {
		t.Errorf("comment path = %q", comment.path)
	}
	var payload commentRequest
	if err := json.Unmarshal([]byte(comment.body), &payload); err != nil {
		t.Fatalf("decoding comment body: %v", err)
	}
	if payload.Text != "<h1>doc</h1>" {
		t.Errorf("comment text = %q", payload.Text)
	}
}

func TestCreateWorkItem_BlankCommentSkipsCall(t *testing.T) {
	c, rec := newTestClient(t, configuredSource(), func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(wireWorkItem{ID: 42})
	})

	if _, err := c.CreateWorkItem(context.Background(), "Alpha", "User Story", "Nova", "desc", nil, "   "); err != nil {
		t.Fatalf("CreateWorkItem failed: %v", err)
	}
	if rec.count() != 1 {
		t.Errorf("blank comment should not be posted, got %d calls", rec.count())
	}
}
