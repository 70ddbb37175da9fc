package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/imanbakhtiari/cdaas/internal/execx"
)

var (
	ErrCloneFailed    = errors.New("clone failed")
	ErrRevisionFailed = errors.New("revision resolution failed")
)

// Git resolves the current state of remote repositories with shallow,
// single-branch checkouts. Only the head matters, never history.
type Git struct {
	runner execx.Runner
}

func New(runner execx.Runner) *Git {
	return &Git{runner: runner}
}

// Clone checks out the head of branch into a fresh ephemeral directory and
// returns its path. The caller owns the directory and must remove it.
func (g *Git) Clone(ctx context.Context, url, branch string) (string, error) {
	workspace, err := os.MkdirTemp("", "cdaas-workspace-*")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}

	res, err := g.runner.Run(ctx, "git", []string{"clone", "--depth", "1", "--branch", branch, url, workspace}, "")
	if err != nil {
		os.RemoveAll(workspace)
		return "", fmt.Errorf("git clone: %w", err)
	}
	if res.ExitCode != 0 {
		os.RemoveAll(workspace)
		return "", fmt.Errorf("%w: %s", ErrCloneFailed, res.Output())
	}
	return workspace, nil
}

// HeadRevision returns the commit identifier the workspace is checked out at.
func (g *Git) HeadRevision(ctx context.Context, workspace string) (string, error) {
	res, err := g.runner.Run(ctx, "git", []string{"-C", workspace, "rev-parse", "HEAD"}, "")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s", ErrRevisionFailed, res.Output())
	}
	return strings.TrimSpace(res.Stdout), nil
}
