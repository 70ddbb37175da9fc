package usecase

import (
	"context"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/pipeline"
	"github.com/samber/do"
)

type RunPipelineUsecase interface {
	// Execute runs one pipeline pass. With an empty id every registered
	// repository is processed; otherwise only the named one.
	Execute(ctx context.Context, id entity.ID) ([]pipeline.Outcome, error)
}

type runPipelineUsecaseImpl struct {
	pipeline *pipeline.Pipeline
}

// Execute implements RunPipelineUsecase.
func (r *runPipelineUsecaseImpl) Execute(ctx context.Context, id entity.ID) ([]pipeline.Outcome, error) {
	if id == "" {
		return r.pipeline.RunAll(ctx)
	}
	outcome, err := r.pipeline.RunRepository(ctx, id)
	if err != nil {
		return nil, err
	}
	return []pipeline.Outcome{outcome}, nil
}

func NewRunPipelineUsecase(injector *do.Injector) (RunPipelineUsecase, error) {
	return &runPipelineUsecaseImpl{
		pipeline: do.MustInvoke[*pipeline.Pipeline](injector),
	}, nil
}
