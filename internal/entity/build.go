package entity

import "time"

type BuildStatus string

const (
	BuildStatusPending BuildStatus = "pending"
	BuildStatusRunning BuildStatus = "running"
	BuildStatusSuccess BuildStatus = "success"
	BuildStatusFailed  BuildStatus = "failed"
)

// Build records a single pipeline run against one revision of a repository.
type Build struct {
	ID        ID          `json:"id"`
	RepoID    ID          `json:"repo_id"`
	Status    BuildStatus `json:"status"`
	Image     string      `json:"image,omitempty"`
	Log       string      `json:"log,omitempty"`
	Revision  string      `json:"revision,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
