package usecase

import (
	"context"
	"errors"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/samber/do"
)

type ListDeploymentsUsecase interface {
	Execute(ctx context.Context, buildID entity.ID) ([]*entity.Deployment, error)
}

type listDeploymentsUsecaseImpl struct {
	buildRepository      repository.BuildRepository
	deploymentRepository repository.DeploymentRepository
}

// Execute implements ListDeploymentsUsecase.
func (l *listDeploymentsUsecaseImpl) Execute(ctx context.Context, buildID entity.ID) ([]*entity.Deployment, error) {
	if _, err := l.buildRepository.GetByID(ctx, buildID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return l.deploymentRepository.ListByBuild(ctx, buildID)
}

func NewListDeploymentsUsecase(injector *do.Injector) (ListDeploymentsUsecase, error) {
	return &listDeploymentsUsecaseImpl{
		buildRepository:      do.MustInvoke[repository.BuildRepository](injector),
		deploymentRepository: do.MustInvoke[repository.DeploymentRepository](injector),
	}, nil
}
