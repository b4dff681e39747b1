package azure

import (
	"errors"
	"fmt"
)

// ErrCredentialsMissing is returned when the organization or token
// settings are absent. No remote call is attempted in that case.
var ErrCredentialsMissing = errors.New("azure devops organization and token are not configured")

// ProjectNotFoundError reports a project identifier that could not be
// resolved against the organization's project list.
type ProjectNotFoundError struct {
	Project string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("azure devops project %q not found", e.Project)
}

// RemoteError carries the status and raw body of a non-2xx response for
// diagnostics. Callers only distinguish it from missing credentials.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("azure devops returned %d: %s", e.Status, e.Body)
}
