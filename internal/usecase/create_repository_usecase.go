package usecase

import (
	"context"
	"strings"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type CreateRepositoryUsecase interface {
	Execute(ctx context.Context, repo *entity.Repository) (*entity.Repository, error)
}

type createRepositoryUsecaseImpl struct {
	repositoryRepository repository.RepositoryRepository
}

// Execute implements CreateRepositoryUsecase.
func (c *createRepositoryUsecaseImpl) Execute(ctx context.Context, repo *entity.Repository) (*entity.Repository, error) {
	if strings.TrimSpace(repo.Name) == "" || strings.TrimSpace(repo.URL) == "" {
		return nil, entity.ErrInvalid
	}
	repo.FillDefaults()
	if existing, err := c.repositoryRepository.GetByName(ctx, repo.Name); err == nil && existing != nil {
		return nil, entity.ErrConflict
	}
	return c.repositoryRepository.Create(ctx, repo)
}

func NewCreateRepositoryUsecase(injector *do.Injector) (CreateRepositoryUsecase, error) {
	return &createRepositoryUsecaseImpl{
		repositoryRepository: do.MustInvoke[repository.RepositoryRepository](injector),
	}, nil
}
