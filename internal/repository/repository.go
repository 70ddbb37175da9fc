package repository

import (
	"context"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"gorm.io/gorm"
)

type RepositoryRepository interface {
	Create(ctx context.Context, repo *entity.Repository) (*entity.Repository, error)
	GetByID(ctx context.Context, id entity.ID) (*entity.Repository, error)
	GetByName(ctx context.Context, name string) (*entity.Repository, error)
	List(ctx context.Context) ([]*entity.Repository, error)
	Update(ctx context.Context, repo *entity.Repository) (*entity.Repository, error)
	SetLastRevision(ctx context.Context, id entity.ID, revision string) error
	Delete(ctx context.Context, id entity.ID) error
}

type repositoryRepositoryImpl struct {
	db *gorm.DB
}

func NewRepositoryRepository(db *gorm.DB) RepositoryRepository {
	return &repositoryRepositoryImpl{db: db}
}

// Create registers a new watched repository.
func (r *repositoryRepositoryImpl) Create(ctx context.Context, repo *entity.Repository) (*entity.Repository, error) {
	var model Repository
	model.FromEntity(repo)
	if err := gorm.G[Repository](r.db).Create(ctx, &model); err != nil {
		return nil, err
	}
	return model.ToEntity(), nil
}

// GetByID finds a repository by id.
func (r *repositoryRepositoryImpl) GetByID(ctx context.Context, id entity.ID) (*entity.Repository, error) {
	found, err := gorm.G[Repository](r.db).Where("id = ?", id.Uint()).First(ctx)
	if err != nil {
		return nil, err
	}
	return found.ToEntity(), nil
}

// GetByName finds a repository by display name.
func (r *repositoryRepositoryImpl) GetByName(ctx context.Context, name string) (*entity.Repository, error) {
	found, err := gorm.G[Repository](r.db).Where("name = ?", name).First(ctx)
	if err != nil {
		return nil, err
	}
	return found.ToEntity(), nil
}

// List returns all watched repositories in registration order.
func (r *repositoryRepositoryImpl) List(ctx context.Context) ([]*entity.Repository, error) {
	founds, err := gorm.G[Repository](r.db).Order("id").Find(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.Repository, len(founds))
	for i, f := range founds {
		res[i] = f.ToEntity()
	}
	return res, nil
}

// Update persists changed repository fields.
func (r *repositoryRepositoryImpl) Update(ctx context.Context, repo *entity.Repository) (*entity.Repository, error) {
	var model Repository
	model.FromEntity(repo)
	_, err := gorm.G[Repository](r.db).Where("id = ?", repo.ID.Uint()).Updates(ctx, model)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, repo.ID)
}

// SetLastRevision advances the last processed revision. The pipeline calls
// this only after a fully successful run.
func (r *repositoryRepositoryImpl) SetLastRevision(ctx context.Context, id entity.ID, revision string) error {
	_, err := gorm.G[Repository](r.db).Where("id = ?", id.Uint()).Update(ctx, "last_revision", revision)
	return err
}

// Delete removes a repository by id.
func (r *repositoryRepositoryImpl) Delete(ctx context.Context, id entity.ID) error {
	_, err := gorm.G[Repository](r.db).Where("id = ?", id.Uint()).Delete(ctx)
	return err
}
