package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type UpdateRepositoryUsecase interface {
	Execute(ctx context.Context, repo *entity.Repository) (*entity.Repository, error)
}

type updateRepositoryUsecaseImpl struct {
	repositoryRepository repository.RepositoryRepository
}

// Execute implements UpdateRepositoryUsecase.
func (u *updateRepositoryUsecaseImpl) Execute(ctx context.Context, repo *entity.Repository) (*entity.Repository, error) {
	if _, err := u.repositoryRepository.GetByID(ctx, repo.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	repo.FillDefaults()
	return u.repositoryRepository.Update(ctx, repo)
}

func NewUpdateRepositoryUsecase(injector *do.Injector) (UpdateRepositoryUsecase, error) {
	return &updateRepositoryUsecaseImpl{
		repositoryRepository: do.MustInvoke[repository.RepositoryRepository](injector),
	}, nil
}
