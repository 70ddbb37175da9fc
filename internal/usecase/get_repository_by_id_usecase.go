package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type GetRepositoryByIDUsecase interface {
	Execute(ctx context.Context, id entity.ID) (*entity.Repository, error)
}

type getRepositoryByIDUsecaseImpl struct {
	repositoryRepository repository.RepositoryRepository
}

// Execute implements GetRepositoryByIDUsecase.
func (g *getRepositoryByIDUsecaseImpl) Execute(ctx context.Context, id entity.ID) (*entity.Repository, error) {
	repo, err := g.repositoryRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return repo, nil
}

func NewGetRepositoryByIDUsecase(injector *do.Injector) (GetRepositoryByIDUsecase, error) {
	return &getRepositoryByIDUsecaseImpl{
		repositoryRepository: do.MustInvoke[repository.RepositoryRepository](injector),
	}, nil
}
