package azure

// Credentials hold the connection settings resolved from the settings
// store before every synchronizer operation.
type Credentials struct {
	Organization string
	Token        string
	APIVersion   string
}

// Project is an Azure DevOps team project. Projects are only listed,
// never created, by this system.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
	Visibility  string `json:"visibility"`
}

// WorkItem is the local-facing summary of a remote work item.
type WorkItem struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	State        string `json:"state"`
	AssignedTo   string `json:"assigned_to"`
	WorkItemType string `json:"work_item_type"`
}

// Field is one caller-supplied extra field for work item creation.
// Order matters: fields are appended to the patch document as given.
type Field struct {
	Name  string
	Value any
}

// patchOp is one entry of the JSON-Patch creation payload. This system
// only ever emits "add" operations.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type projectsResponse struct {
	Count int       `json:"count"`
	Value []Project `json:"value"`
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []workItemRef `json:"workItems"`
}

type workItemRef struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

type workItemsResponse struct {
	Count int            `json:"count"`
	Value []wireWorkItem `json:"value"`
}

type wireWorkItem struct {
	ID     int            `json:"id"`
	Fields wireItemFields `json:"fields"`
}

type wireItemFields struct {
	Title        string        `json:"System.Title"`
	State        string        `json:"System.State"`
	WorkItemType string        `json:"System.WorkItemType"`
	AssignedTo   *wireIdentity `json:"System.AssignedTo"`
}

type wireIdentity struct {
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

type commentRequest struct {
	Text string `json:"text"`
}
