package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type DeleteRepositoryUsecase interface {
	Execute(ctx context.Context, id entity.ID) error
}

type deleteRepositoryUsecaseImpl struct {
	repositoryRepository repository.RepositoryRepository
}

// Execute implements DeleteRepositoryUsecase.
func (d *deleteRepositoryUsecaseImpl) Execute(ctx context.Context, id entity.ID) error {
	if _, err := d.repositoryRepository.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.ErrNotFound
		}
		return err
	}
	return d.repositoryRepository.Delete(ctx, id)
}

func NewDeleteRepositoryUsecase(injector *do.Injector) (DeleteRepositoryUsecase, error) {
	return &deleteRepositoryUsecaseImpl{
		repositoryRepository: do.MustInvoke[repository.RepositoryRepository](injector),
	}, nil
}
