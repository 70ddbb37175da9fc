package repository

import (
	"context"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"gorm.io/gorm"
)

type BuildRepository interface {
	Create(ctx context.Context, build *entity.Build) (*entity.Build, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Build, error)
	ListByRepo(ctx context.Context, repoID entity.ID) ([]*entity.Build, error)
	Update(ctx context.Context, build *entity.Build) (*entity.Build, error)
}

type buildRepositoryImpl struct {
	db *gorm.DB
}

func NewBuildRepository(db *gorm.DB) BuildRepository {
	return &buildRepositoryImpl{db: db}
}

// Create records the start of a pipeline run.
func (r *buildRepositoryImpl) Create(ctx context.Context, build *entity.Build) (*entity.Build, error) {
	var model Build
	model.FromEntity(build)
	if err := gorm.G[Build](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// GetByID finds a build by id.
func (r *buildRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Build, error) {
	found, err := gorm.G[Build](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, err
	}
	return found.ToEntity(), nil
}

// ListByRepo lists builds belonging to a repository, newest first.
func (r *buildRepositoryImpl) ListByRepo(ctx context.Context, repoID entity.ID) ([]*entity.Build, error) {
	founds, err := gorm.G[Build](r.db).Where("repo_id = ?", repoID.Uint()).Order("id desc").Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Build, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// Update persists final status, log, image and revision.
func (r *buildRepositoryImpl) Update(ctx context.Context, build *entity.Build) (*entity.Build, error) {
	var model Build
	model.FromEntity(build)
	_, err := gorm.G[Build](r.db).Where("id = ?", build.ID.Uint()).Updates(ctx, model)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, build.ID)
}
