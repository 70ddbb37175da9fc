package repository

import (
	"context"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error)
	ListByBuild(ctx context.Context, buildID entity.ID) ([]*entity.Deployment, error)
	Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error)
}

type deploymentRepositoryImpl struct {
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepositoryImpl{db: db}
}

// Create records an attempted deployment for a build.
func (r *deploymentRepositoryImpl) Create(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	if err := gorm.G[Deployment](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// GetByID finds a deployment by id.
func (r *deploymentRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Deployment, error) {
	found, err := gorm.G[Deployment](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, err
	}
	return found.ToEntity(), nil
}

// ListByBuild lists deployments belonging to a build.
func (r *deploymentRepositoryImpl) ListByBuild(ctx context.Context, buildID entity.ID) ([]*entity.Deployment, error) {
	founds, err := gorm.G[Deployment](r.db).Where("build_id = ?", buildID.Uint()).Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Deployment, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// Update persists a deployment status transition. Transitions are written
// immediately, not batched with the rest of the run.
func (r *deploymentRepositoryImpl) Update(ctx context.Context, dep *entity.Deployment) (*entity.Deployment, error) {
	var model Deployment
	model.FromEntity(dep)
	_, err := gorm.G[Deployment](r.db).Where("id = ?", dep.ID.Uint()).Updates(ctx, model)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, dep.ID)
}
