package repository

import (
	"github.com/imanbakhtiari/cdaas/internal/entity"
	"gorm.io/gorm"
)

type Repository struct {
	gorm.Model
	Name                string
	URL                 string
	Branch              string
	Username            string
	Password            string
	NexusRegistry       string
	NexusRepository     string
	NexusUsername       string
	NexusPassword       string
	KubernetesNamespace string
	Kubeconfig          string
	LastRevision        string
}

func (r *Repository) ToEntity() *entity.Repository {
	return &entity.Repository{
		ID:                  entity.NewID(r.ID),
		Name:                r.Name,
		URL:                 r.URL,
		Branch:              r.Branch,
		Username:            r.Username,
		Password:            r.Password,
		NexusRegistry:       r.NexusRegistry,
		NexusRepository:     r.NexusRepository,
		NexusUsername:       r.NexusUsername,
		NexusPassword:       r.NexusPassword,
		KubernetesNamespace: r.KubernetesNamespace,
		Kubeconfig:          r.Kubeconfig,
		LastRevision:        r.LastRevision,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func (r *Repository) FromEntity(e *entity.Repository) {
	if e.ID != "" {
		r.ID = e.ID.Uint()
	}
	r.Name = e.Name
	r.URL = e.URL
	r.Branch = e.Branch
	r.Username = e.Username
	r.Password = e.Password
	r.NexusRegistry = e.NexusRegistry
	r.NexusRepository = e.NexusRepository
	r.NexusUsername = e.NexusUsername
	r.NexusPassword = e.NexusPassword
	r.KubernetesNamespace = e.KubernetesNamespace
	r.Kubeconfig = e.Kubeconfig
	r.LastRevision = e.LastRevision
}

type Build struct {
	gorm.Model
	RepoID   uint
	Repo     Repository
	Status   string
	Image    string
	Log      string
	Revision string
}

func (b *Build) ToEntity() *entity.Build {
	return &entity.Build{
		ID:        entity.NewID(b.ID),
		RepoID:    entity.NewID(b.RepoID),
		Status:    entity.BuildStatus(b.Status),
		Image:     b.Image,
		Log:       b.Log,
		Revision:  b.Revision,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *Build) FromEntity(e *entity.Build) {
	if e.ID != "" {
		b.ID = e.ID.Uint()
	}
	if e.RepoID != "" {
		b.RepoID = e.RepoID.Uint()
	}
	b.Status = string(e.Status)
	b.Image = e.Image
	b.Log = e.Log
	b.Revision = e.Revision
}

type Deployment struct {
	gorm.Model
	BuildID   uint
	Build     Build
	Namespace string
	Status    string
}

func (d *Deployment) ToEntity() *entity.Deployment {
	return &entity.Deployment{
		ID:        entity.NewID(d.ID),
		BuildID:   entity.NewID(d.BuildID),
		Namespace: d.Namespace,
		Status:    entity.DeploymentStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *Deployment) FromEntity(e *entity.Deployment) {
	if e.ID != "" {
		d.ID = e.ID.Uint()
	}
	if e.BuildID != "" {
		d.BuildID = e.BuildID.Uint()
	}
	d.Namespace = e.Namespace
	d.Status = string(e.Status)
}
