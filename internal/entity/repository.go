package entity

import "time"

// Repository is a watched source repository together with the credentials
// needed to push its image and deploy it.
type Repository struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Branch string `json:"branch"`

	// VCS credentials. Reserved for authenticated clones; the clone step
	// currently performs an unauthenticated shallow checkout.
	Username string `json:"username,omitempty"`
	Password string `json:"-"`

	NexusRegistry   string `json:"nexus_registry,omitempty"`
	NexusRepository string `json:"nexus_repository,omitempty"`
	NexusUsername   string `json:"nexus_username,omitempty"`
	NexusPassword   string `json:"-"`

	KubernetesNamespace string `json:"kubernetes_namespace"`
	Kubeconfig          string `json:"-"`

	// LastRevision is the revision of the last fully successful run.
	// Advanced only by the pipeline, and only on success.
	LastRevision string `json:"last_revision,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Repository) FillDefaults() {
	if r.Branch == "" {
		r.Branch = "master"
	}
	if r.KubernetesNamespace == "" {
		r.KubernetesNamespace = "default"
	}
}
