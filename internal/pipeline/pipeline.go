package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imanbakhtiari/cdaas/internal/detect"
	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/image"
	"github.com/imanbakhtiari/cdaas/internal/repository"
	"github.com/rs/zerolog"
)

// Collaborator interfaces. The concrete implementations live in vcs, image,
// cluster, manifest and detect; tests substitute fakes.

type RevisionTracker interface {
	Clone(ctx context.Context, url, branch string) (string, error)
	HeadRevision(ctx context.Context, workspace string) (string, error)
}

type ImageBuilder interface {
	BuildAndPush(ctx context.Context, repo *entity.Repository, workspace string, build *entity.Build) (string, string, error)
}

type ClusterDeployer interface {
	Deploy(ctx context.Context, repo *entity.Repository, imageRef string) (string, error)
}

type ManifestExporter interface {
	Export(repo *entity.Repository, imageRef string) (string, error)
}

type FrameworkDetector interface {
	Detect(root string) detect.Framework
	EnsureDockerfile(workspace string, fw detect.Framework) (bool, error)
}

// DefaultDetector adapts the pattern-matching heuristics in detect.
type DefaultDetector struct{}

func (DefaultDetector) Detect(root string) detect.Framework { return detect.Detect(root) }
func (DefaultDetector) EnsureDockerfile(workspace string, fw detect.Framework) (bool, error) {
	return detect.EnsureDockerfile(workspace, fw)
}

type Config struct {
	// ToolTimeout bounds each external tool invocation. Zero disables the
	// bound entirely.
	ToolTimeout time.Duration
}

// Pipeline sequences clone, revision check, image build/push, cluster deploy
// and manifest export per repository, one repository at a time.
type Pipeline struct {
	cfg         Config
	repos       repository.RepositoryRepository
	builds      repository.BuildRepository
	deployments repository.DeploymentRepository
	tracker     RevisionTracker
	detector    FrameworkDetector
	builder     ImageBuilder
	deployer    ClusterDeployer
	exporter    ManifestExporter
	log         zerolog.Logger
}

func New(
	cfg Config,
	repos repository.RepositoryRepository,
	builds repository.BuildRepository,
	deployments repository.DeploymentRepository,
	tracker RevisionTracker,
	detector FrameworkDetector,
	builder ImageBuilder,
	deployer ClusterDeployer,
	exporter ManifestExporter,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		repos:       repos,
		builds:      builds,
		deployments: deployments,
		tracker:     tracker,
		detector:    detector,
		builder:     builder,
		deployer:    deployer,
		exporter:    exporter,
		log:         log,
	}
}

// Outcome describes the terminal state of one repository's run.
type Outcome struct {
	Repo    *entity.Repository `json:"repository"`
	Build   *entity.Build      `json:"build,omitempty"`
	Skipped bool               `json:"skipped"`
	Err     error              `json:"-"`
}

// run carries all mutable state of one repository's pass through the stages,
// so nothing leaks into outer scope between stages.
type run struct {
	repo       *entity.Repository
	build      *entity.Build
	deployment *entity.Deployment
	workspace  string
	revision   string
	image      string
	lines      []string
}

func (r *run) logf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *run) prependf(format string, args ...any) {
	r.lines = append([]string{fmt.Sprintf(format, args...)}, r.lines...)
}

func (r *run) logText() string {
	nonEmpty := make([]string, 0, len(r.lines))
	for _, l := range r.lines {
		if l != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return strings.TrimSpace(strings.Join(nonEmpty, "\n"))
}

// RunAll processes every registered repository in sequence. A failing
// repository never stops the loop.
func (p *Pipeline) RunAll(ctx context.Context) ([]Outcome, error) {
	repos, err := p.repos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	outcomes := make([]Outcome, 0, len(repos))
	for _, repo := range repos {
		outcomes = append(outcomes, p.Run(ctx, repo))
	}
	return outcomes, nil
}

// RunRepository processes a single repository by id.
func (p *Pipeline) RunRepository(ctx context.Context, id entity.ID) (Outcome, error) {
	repo, err := p.repos.GetByID(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return p.Run(ctx, repo), nil
}

// Run drives one repository through the whole pipeline and leaves the
// persisted records in a terminal state whatever happens along the way.
func (p *Pipeline) Run(ctx context.Context, repo *entity.Repository) Outcome {
	p.log.Info().
		Str("repository", repo.Name).
		Str("url", repo.URL).
		Str("branch", repo.Branch).
		Msg("processing repository")

	r := &run{repo: repo}
	r.logf("Git URL: %s", repo.URL)
	r.logf("Branch: %s", repo.Branch)

	skipped, stageErr := p.stages(ctx, r)
	return p.finalize(ctx, r, skipped, stageErr)
}

func (p *Pipeline) stages(ctx context.Context, r *run) (skipped bool, err error) {
	repo := r.repo

	r.logf("Cloning repository...")
	workspace, err := p.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return p.tracker.Clone(ctx, repo.URL, repo.Branch)
	})
	if err != nil {
		return false, err
	}
	r.workspace = workspace
	r.logf("Repository cloned successfully.")

	r.revision, err = p.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return p.tracker.HeadRevision(ctx, workspace)
	})
	if err != nil {
		return false, err
	}
	r.logf("Latest commit: %s", r.revision)

	if repo.LastRevision != "" && repo.LastRevision == r.revision {
		return true, nil
	}

	build, err := p.builds.Create(ctx, &entity.Build{
		RepoID:   repo.ID,
		Status:   entity.BuildStatusRunning,
		Revision: r.revision,
	})
	if err != nil {
		return false, fmt.Errorf("create build record: %w", err)
	}
	r.build = build
	r.prependf("Started build for %s (commit %s)", repo.Name, r.revision)

	framework := p.detector.Detect(workspace)
	r.logf("Detected framework: %s", framework)

	created, err := p.detector.EnsureDockerfile(workspace, framework)
	if err != nil {
		return false, err
	}
	if created {
		r.logf("Dockerfile created automatically.")
	} else {
		r.logf("Dockerfile already present; no changes made.")
	}

	if image.NormalizeRegistry(repo.NexusRegistry) != "" {
		imageRef, output, err := p.withTimeout2(ctx, func(ctx context.Context) (string, string, error) {
			return p.builder.BuildAndPush(ctx, repo, workspace, build)
		})
		if err != nil {
			r.logf("Image build/push failed: %v", err)
			return false, err
		}
		r.image = imageRef
		build.Image = imageRef
		r.logf("Image pushed to %s", imageRef)
		if output != "" {
			r.logf("%s", output)
		}
	} else {
		r.logf("Nexus registry missing; skipping image push.")
	}

	switch {
	case r.image != "" && strings.TrimSpace(repo.Kubeconfig) != "":
		if err := p.deploy(ctx, r); err != nil {
			return false, err
		}
	case strings.TrimSpace(repo.Kubeconfig) == "":
		r.logf("No kubeconfig configured; skipping Kubernetes deployment.")
	default:
		r.logf("Image not available; skipping deployment.")
	}

	return false, nil
}

// deploy creates the Deployment record before the apply call and persists
// its status transition immediately after, success or failure.
func (p *Pipeline) deploy(ctx context.Context, r *run) error {
	namespace := r.repo.KubernetesNamespace
	if namespace == "" {
		namespace = "default"
	}
	deployment, err := p.deployments.Create(ctx, &entity.Deployment{
		BuildID:   r.build.ID,
		Namespace: namespace,
		Status:    entity.DeploymentStatusRunning,
	})
	if err != nil {
		return fmt.Errorf("create deployment record: %w", err)
	}
	r.deployment = deployment

	msg, deployErr := p.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return p.deployer.Deploy(ctx, r.repo, r.image)
	})
	if deployErr != nil {
		deployment.Status = entity.DeploymentStatusFailed
		if _, err := p.deployments.Update(ctx, deployment); err != nil {
			p.log.Error().Err(err).Msg("persist deployment failure")
		}
		r.logf("Kubernetes deployment failed: %v", deployErr)
		return deployErr
	}

	deployment.Status = entity.DeploymentStatusSuccess
	if _, err := p.deployments.Update(ctx, deployment); err != nil {
		p.log.Error().Err(err).Msg("persist deployment success")
	}
	r.logf("%s", msg)
	return nil
}

// finalize removes the workspace, settles the build status, exports the
// manifest and persists the run. LastRevision advances only here, and only
// when the whole run succeeded.
func (p *Pipeline) finalize(ctx context.Context, r *run, skipped bool, stageErr error) Outcome {
	if r.workspace != "" {
		os.RemoveAll(r.workspace)
	}

	if skipped {
		p.log.Info().Str("repository", r.repo.Name).Msg("no changes; skipping pipeline")
		return Outcome{Repo: r.repo, Skipped: true}
	}

	switch {
	case stageErr != nil && r.build != nil:
		r.build.Status = entity.BuildStatusFailed
		r.logf("Pipeline terminated: %v", stageErr)
	case stageErr != nil:
		// Failure before the build record existed; create one retroactively
		// so the outcome is durable.
		build, err := p.builds.Create(ctx, &entity.Build{
			RepoID:   r.repo.ID,
			Status:   entity.BuildStatusFailed,
			Revision: r.revision,
		})
		if err != nil {
			p.log.Error().Err(err).Str("repository", r.repo.Name).Msg("create failed build record")
			return Outcome{Repo: r.repo, Err: stageErr}
		}
		r.build = build
		r.logf("Pipeline terminated: %v", stageErr)
	default:
		r.build.Status = entity.BuildStatusSuccess
	}

	if path, err := p.exporter.Export(r.repo, r.image); err != nil {
		r.logf("Failed to write manifest: %v", err)
	} else {
		r.logf("Manifest exported to %s", path)
	}

	r.build.Log = r.logText()
	if _, err := p.builds.Update(ctx, r.build); err != nil {
		p.log.Error().Err(err).Str("repository", r.repo.Name).Msg("persist build")
	}

	if r.build.Status == entity.BuildStatusSuccess && r.revision != "" {
		if err := p.repos.SetLastRevision(ctx, r.repo.ID, r.revision); err != nil {
			p.log.Error().Err(err).Str("repository", r.repo.Name).Msg("advance last revision")
		} else {
			r.repo.LastRevision = r.revision
		}
		p.log.Info().Str("repository", r.repo.Name).Msg("repository processed successfully")
	} else if r.build.Status == entity.BuildStatusFailed {
		p.log.Error().Str("repository", r.repo.Name).Msg("pipeline failed; see build log")
	}

	return Outcome{Repo: r.repo, Build: r.build, Err: stageErr}
}

func (p *Pipeline) withTimeout(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if p.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ToolTimeout)
		defer cancel()
	}
	return fn(ctx)
}

func (p *Pipeline) withTimeout2(ctx context.Context, fn func(context.Context) (string, string, error)) (string, string, error) {
	if p.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ToolTimeout)
		defer cancel()
	}
	return fn(ctx)
}
