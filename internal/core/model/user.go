package model

// Project is a Toggl project, used for display-name resolution.
type Project struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Active      bool   `json:"active"`
	Billable    bool   `json:"billable"`
	IsPrivate   bool   `json:"is_private"`
	ClientID    *int64 `json:"client_id"`
}

// Workspace is a Toggl workspace.
type Workspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tag is a Toggl tag.
type Tag struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

// Task is a Toggl task inside a project.
type Task struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

// Client is a Toggl client a project may belong to.
type Client struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

// User holds the authenticated user profile. The related slices are only
// populated when the profile is requested with with_related_data=true.
type User struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	Timezone           string `json:"timezone"`
	DefaultWorkspaceID int64  `json:"default_workspace_id"`
	BeginningOfWeek    int    `json:"beginning_of_week"`
	ImageURL           string `json:"image_url"`

	Clients     []Client    `json:"clients,omitempty"`
	Projects    []Project   `json:"projects,omitempty"`
	Tags        []Tag       `json:"tags,omitempty"`
	Tasks       []Task      `json:"tasks,omitempty"`
	TimeEntries []TimeEntry `json:"time_entries,omitempty"`
	Workspaces  []Workspace `json:"workspaces,omitempty"`
}
