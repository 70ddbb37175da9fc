package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type GetBuildUsecase interface {
	Execute(ctx context.Context, id entity.ID) (*entity.Build, error)
}

type getBuildUsecaseImpl struct {
	buildRepository repository.BuildRepository
}

// Execute implements GetBuildUsecase.
func (g *getBuildUsecaseImpl) Execute(ctx context.Context, id entity.ID) (*entity.Build, error) {
	build, err := g.buildRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return build, nil
}

func NewGetBuildUsecase(injector *do.Injector) (GetBuildUsecase, error) {
	return &getBuildUsecaseImpl{
		buildRepository: do.MustInvoke[repository.BuildRepository](injector),
	}, nil
}
