package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/imanbakhtiari/cdaas/internal/cluster"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/imanbakhtiari/cdaas/internal/image"
	"github.com/imanbakhtiari/cdaas/internal/manifest"
	"github.com/imanbakhtiari/cdaas/internal/pipeline"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/imanbakhtiari/cdaas/internal/server/routes"
	"github.com/imanbakhtiari/cdaas/internal/usecase"
	"github.com/imanbakhtiari/cdaas/internal/vcs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"gorm.io/gorm"
)

type Config struct {
	DataDir     string
	ManifestDir string
	Port        int
	ToolTimeout time.Duration
	Logger      zerolog.Logger
}

type Server struct {
	e      *echo.Echo
	config *Config
}

func New(config *Config) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			config.Logger.Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			config.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := config.Logger.WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	s := &Server{e: e, config: config}
	s.init()
	return s
}

func (s *Server) init() {
	injector := do.New()
	s.injectDependencies(injector)
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB(filepath.Join(s.config.DataDir, "cdaas.db"))
	})
	do.Provide(injector, func(i *do.Injector) (repository.RepositoryRepository, error) {
		return repository.NewRepositoryRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.BuildRepository, error) {
		return repository.NewBuildRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.DeploymentRepository, error) {
		return repository.NewDeploymentRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (execx.Runner, error) {
		return execx.NewExecRunner(), nil
	})
	do.Provide(injector, func(i *do.Injector) (*pipeline.Pipeline, error) {
		runner := do.MustInvoke[execx.Runner](i)
		return pipeline.New(
			pipeline.Config{ToolTimeout: s.config.ToolTimeout},
			do.MustInvoke[repository.RepositoryRepository](i),
			do.MustInvoke[repository.BuildRepository](i),
			do.MustInvoke[repository.DeploymentRepository](i),
			vcs.New(runner),
			pipeline.DefaultDetector{},
			image.New(runner),
			cluster.New(runner),
			manifest.New(s.config.ManifestDir),
			s.config.Logger,
		), nil
	})
	do.Provide(injector, usecase.NewCreateRepositoryUsecase)
	do.Provide(injector, usecase.NewListRepositoryUsecase)
	do.Provide(injector, usecase.NewGetRepositoryByIDUsecase)
	do.Provide(injector, usecase.NewUpdateRepositoryUsecase)
	do.Provide(injector, usecase.NewDeleteRepositoryUsecase)
	do.Provide(injector, usecase.NewListBuildsUsecase)
	do.Provide(injector, usecase.NewGetBuildUsecase)
	do.Provide(injector, usecase.NewListDeploymentsUsecase)
	do.Provide(injector, usecase.NewRunPipelineUsecase)
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterRestAPI(injector, s.e)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.config.Logger.Info().Str("addr", addr).Msg("starting server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
