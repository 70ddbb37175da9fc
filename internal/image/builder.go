package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/imanbakhtiari/cdaas/internal/utils"
)

var (
	ErrRegistryEmpty = errors.New("registry is empty")
	ErrLoginFailed   = errors.New("registry login failed")
	ErrBuildFailed   = errors.New("image build failed")
	ErrPushFailed    = errors.New("image push failed")
)

// Builder produces, authenticates and pushes container images by driving
// the container engine CLI.
type Builder struct {
	runner execx.Runner
}

func New(runner execx.Runner) *Builder {
	return &Builder{runner: runner}
}

// NormalizeRegistry strips surrounding whitespace, a trailing slash and a
// leading http/https scheme. Registry logins and image tags must not carry
// a scheme.
func NormalizeRegistry(registry string) string {
	value := strings.TrimRight(strings.TrimSpace(registry), "/")
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(value, scheme) {
			return strings.TrimPrefix(value, scheme)
		}
	}
	return value
}

// ResolveRepositoryName maps a repository to a non-empty image path
// component: the configured registry repository, else a slug of the VCS URL
// path, else a slug of the display name, else a synthetic fallback.
func ResolveRepositoryName(repo *entity.Repository) string {
	if name := strings.TrimSpace(repo.NexusRepository); name != "" {
		return name
	}
	if slug := utils.RepoSlugFromURL(repo.URL); slug != "" {
		return slug
	}
	if slug := utils.Slugify(repo.Name); slug != "" {
		return slug
	}
	return fmt.Sprintf("repository-%s", repo.ID)
}

// Tag derives the image tag for a build: the first 12 characters of its
// revision, falling back to the build's own identifier.
func Tag(build *entity.Build) string {
	tag := build.Revision
	if tag == "" {
		tag = build.ID.String()
	}
	if len(tag) > 12 {
		tag = tag[:12]
	}
	return tag
}

// BuildAndPush runs login (when credentials are configured), build and push
// as three sequential engine invocations. Returns the fully-qualified image
// reference and the concatenated non-empty outputs of the steps that ran.
func (b *Builder) BuildAndPush(ctx context.Context, repo *entity.Repository, workspace string, build *entity.Build) (string, string, error) {
	registry := NormalizeRegistry(repo.NexusRegistry)
	if registry == "" {
		return "", "", ErrRegistryEmpty
	}

	imageRef := fmt.Sprintf("%s/%s:%s", registry, ResolveRepositoryName(repo), Tag(build))
	var outputs []string

	if repo.NexusUsername != "" && repo.NexusPassword != "" {
		// Password goes through stdin so it never shows up in process listings.
		res, err := b.runner.Run(ctx, "docker", []string{"login", registry, "-u", repo.NexusUsername, "--password-stdin"}, repo.NexusPassword)
		if err != nil {
			return "", "", toolError(err)
		}
		if res.ExitCode != 0 {
			return "", "", fmt.Errorf("%w: %s", ErrLoginFailed, messageOr(res, "docker login failed"))
		}
		outputs = appendOutput(outputs, res)
	}

	res, err := b.runner.Run(ctx, "docker", []string{"build", "-t", imageRef, workspace}, "")
	if err != nil {
		return "", "", toolError(err)
	}
	if res.ExitCode != 0 {
		return "", "", fmt.Errorf("%w: %s", ErrBuildFailed, messageOr(res, "docker build failed"))
	}
	outputs = appendOutput(outputs, res)

	res, err = b.runner.Run(ctx, "docker", []string{"push", imageRef}, "")
	if err != nil {
		return "", "", toolError(err)
	}
	if res.ExitCode != 0 {
		return "", "", fmt.Errorf("%w: %s", ErrPushFailed, messageOr(res, "docker push failed"))
	}
	outputs = appendOutput(outputs, res)

	return imageRef, strings.TrimSpace(strings.Join(outputs, "\n")), nil
}

func toolError(err error) error {
	if errors.Is(err, execx.ErrToolNotFound) {
		return fmt.Errorf("%w: install the container engine CLI and ensure it is on PATH", err)
	}
	return err
}

func messageOr(res execx.Result, fallback string) string {
	if out := res.Output(); out != "" {
		return out
	}
	return fallback
}

func appendOutput(outputs []string, res execx.Result) []string {
	if out := strings.TrimSpace(res.Stdout); out != "" {
		outputs = append(outputs, out)
	}
	return outputs
}
