package vcs

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/imanbakhtiari/cdaas/internal/execx"
)

type fakeRunner struct {
	result execx.Result
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, stdin string) (execx.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.result, f.err
}

func TestCloneUsesShallowSingleBranch(t *testing.T) {
	runner := &fakeRunner{}
	g := New(runner)

	workspace, err := g.Clone(context.Background(), "https://git.example.com/org/app.git", "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(workspace)

	call := runner.calls[0]
	want := []string{"git", "clone", "--depth", "1", "--branch", "main", "https://git.example.com/org/app.git", workspace}
	if len(call) != len(want) {
		t.Fatalf("call = %v; want %v", call, want)
	}
	for i := range want {
		if call[i] != want[i] {
			t.Errorf("arg %d = %q; want %q", i, call[i], want[i])
		}
	}
	if _, err := os.Stat(workspace); err != nil {
		t.Errorf("workspace missing: %v", err)
	}
}

func TestCloneFailureRemovesWorkspaceAndCarriesOutput(t *testing.T) {
	runner := &fakeRunner{result: execx.Result{ExitCode: 128, Stderr: "fatal: repository not found\n"}}
	g := New(runner)

	_, err := g.Clone(context.Background(), "https://git.example.com/missing.git", "main")
	if !errors.Is(err, ErrCloneFailed) {
		t.Fatalf("expected ErrCloneFailed, got %v", err)
	}
	if got := err.Error(); got != "clone failed: fatal: repository not found" {
		t.Errorf("error = %q", got)
	}
}

func TestHeadRevisionTrimsOutput(t *testing.T) {
	runner := &fakeRunner{result: execx.Result{Stdout: "abcdef1234567890\n"}}
	g := New(runner)

	rev, err := g.HeadRevision(context.Background(), "/tmp/ws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev != "abcdef1234567890" {
		t.Errorf("rev = %q", rev)
	}
}

func TestHeadRevisionFailure(t *testing.T) {
	runner := &fakeRunner{result: execx.Result{ExitCode: 1, Stderr: "not a git repository"}}
	g := New(runner)

	if _, err := g.HeadRevision(context.Background(), "/tmp/ws"); !errors.Is(err, ErrRevisionFailed) {
		t.Fatalf("expected ErrRevisionFailed, got %v", err)
	}
}
