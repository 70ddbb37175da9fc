package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type ListBuildsUsecase interface {
	Execute(ctx context.Context, repoID entity.ID) ([]*entity.Build, error)
}

type listBuildsUsecaseImpl struct {
	repositoryRepository repository.RepositoryRepository
	buildRepository      repository.BuildRepository
}

// Execute implements ListBuildsUsecase.
func (l *listBuildsUsecaseImpl) Execute(ctx context.Context, repoID entity.ID) ([]*entity.Build, error) {
	if _, err := l.repositoryRepository.GetByID(ctx, repoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return l.buildRepository.ListByRepo(ctx, repoID)
}

func NewListBuildsUsecase(injector *do.Injector) (ListBuildsUsecase, error) {
	return &listBuildsUsecaseImpl{
		repositoryRepository: do.MustInvoke[repository.RepositoryRepository](injector),
		buildRepository:      do.MustInvoke[repository.BuildRepository](injector),
	}, nil
}
