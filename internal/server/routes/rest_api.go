package routes

import (
	"errors"
	"net/http"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/pipeline"
	"github.com/imanbakhtiari/cdaas/internal/usecase"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type repositoryRequest struct {
	Name                string `json:"name"`
	URL                 string `json:"url"`
	Branch              string `json:"branch"`
	Username            string `json:"username"`
	Password            string `json:"password"`
	NexusRegistry       string `json:"nexus_registry"`
	NexusRepository     string `json:"nexus_repository"`
	NexusUsername       string `json:"nexus_username"`
	NexusPassword       string `json:"nexus_password"`
	KubernetesNamespace string `json:"kubernetes_namespace"`
	Kubeconfig          string `json:"kubeconfig"`
}

func (r *repositoryRequest) toEntity() *entity.Repository {
	return &entity.Repository{
		Name:                r.Name,
		URL:                 r.URL,
		Branch:              r.Branch,
		Username:            r.Username,
		Password:            r.Password,
		NexusRegistry:       r.NexusRegistry,
		NexusRepository:     r.NexusRepository,
		NexusUsername:       r.NexusUsername,
		NexusPassword:       r.NexusPassword,
		KubernetesNamespace: r.KubernetesNamespace,
		Kubeconfig:          r.Kubeconfig,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func RegisterRestAPI(injector *do.Injector, e *echo.Echo) {
	g := e.Group("/api")

	g.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	g.POST("/repositories", func(c echo.Context) error {
		var req repositoryRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		usecase := do.MustInvoke[usecase.CreateRepositoryUsecase](injector)
		repo, err := usecase.Execute(c.Request().Context(), req.toEntity())
		if err != nil {
			return c.NoContent(statusFor(err))
		}
		return c.JSON(http.StatusCreated, repo)
	})

	g.GET("/repositories", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListRepositoryUsecase](injector)
		repos, err := usecase.Execute(c.Request().Context())
		if err != nil {
			return c.NoContent(http.StatusInternalServerError)
		}

		type response struct {
			Repositories []*entity.Repository `json:"repositories"`
		}
		return c.JSON(http.StatusOK, &response{Repositories: repos})
	})

	g.GET("/repositories/:id", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.GetRepositoryByIDUsecase](injector)
		repo, err := usecase.Execute(c.Request().Context(), entity.NewID(c.Param("id")))
		if err != nil {
			return c.NoContent(statusFor(err))
		}
		return c.JSON(http.StatusOK, repo)
	})

	g.PUT("/repositories/:id", func(c echo.Context) error {
		var req repositoryRequest
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}
		repo := req.toEntity()
		repo.ID = entity.NewID(c.Param("id"))

		usecase := do.MustInvoke[usecase.UpdateRepositoryUsecase](injector)
		updated, err := usecase.Execute(c.Request().Context(), repo)
		if err != nil {
			return c.NoContent(statusFor(err))
		}
		return c.JSON(http.StatusOK, updated)
	})

	g.DELETE("/repositories/:id", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.DeleteRepositoryUsecase](injector)
		if err := usecase.Execute(c.Request().Context(), entity.NewID(c.Param("id"))); err != nil {
			return c.NoContent(statusFor(err))
		}
		return c.NoContent(http.StatusNoContent)
	})

	g.GET("/repositories/:id/builds", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListBuildsUsecase](injector)
		builds, err := usecase.Execute(c.Request().Context(), entity.NewID(c.Param("id")))
		if err != nil {
			return c.NoContent(statusFor(err))
		}

		type response struct {
			Builds []*entity.Build `json:"builds"`
		}
		return c.JSON(http.StatusOK, &response{Builds: builds})
	})

	g.GET("/builds/:id", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.GetBuildUsecase](injector)
		build, err := usecase.Execute(c.Request().Context(), entity.NewID(c.Param("id")))
		if err != nil {
			return c.NoContent(statusFor(err))
		}
		return c.JSON(http.StatusOK, build)
	})

	g.GET("/builds/:id/deployments", func(c echo.Context) error {
		usecase := do.MustInvoke[usecase.ListDeploymentsUsecase](injector)
		deployments, err := usecase.Execute(c.Request().Context(), entity.NewID(c.Param("id")))
		if err != nil {
			return c.NoContent(statusFor(err))
		}

		type response struct {
			Deployments []*entity.Deployment `json:"deployments"`
		}
		return c.JSON(http.StatusOK, &response{Deployments: deployments})
	})

	g.POST("/pipeline/run", func(c echo.Context) error {
		type request struct {
			RepositoryID string `json:"repository_id"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		usecase := do.MustInvoke[usecase.RunPipelineUsecase](injector)
		outcomes, err := usecase.Execute(c.Request().Context(), entity.ID(req.RepositoryID))
		if err != nil {
			return c.NoContent(statusFor(err))
		}

		type response struct {
			Outcomes []pipeline.Outcome `json:"outcomes"`
		}
		return c.JSON(http.StatusOK, &response{Outcomes: outcomes})
	})
}
