package image

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name  string
	args  []string
	stdin string
}

// scriptRunner replays canned results keyed by the tool subcommand.
type scriptRunner struct {
	results map[string]execx.Result
	errs    map[string]error
	calls   []call
}

func (s *scriptRunner) Run(ctx context.Context, name string, args []string, stdin string) (execx.Result, error) {
	s.calls = append(s.calls, call{name: name, args: args, stdin: stdin})
	key := name
	if len(args) > 0 {
		key = fmt.Sprintf("%s %s", name, args[0])
	}
	if err, ok := s.errs[key]; ok {
		return execx.Result{}, err
	}
	return s.results[key], nil
}

func TestNormalizeRegistry(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"reg.example.com/", "reg.example.com"},
		{"https://reg.example.com", "reg.example.com"},
		{"http://reg.example.com/", "reg.example.com"},
		{"  reg.example.com:5000  ", "reg.example.com:5000"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRegistry(tt.input))
		})
	}
}

func TestResolveRepositoryName(t *testing.T) {
	tests := []struct {
		name     string
		repo     entity.Repository
		expected string
	}{
		{
			name:     "explicit nexus repository wins",
			repo:     entity.Repository{NexusRepository: "team/app", URL: "https://git.example.com/org/other.git"},
			expected: "team/app",
		},
		{
			name:     "derived from VCS URL path",
			repo:     entity.Repository{URL: "https://git.example.com/org/myapp.git"},
			expected: "org-myapp",
		},
		{
			name:     "falls back to display name slug",
			repo:     entity.Repository{Name: "My App"},
			expected: "my-app",
		},
		{
			name:     "synthetic name when nothing usable",
			repo:     entity.Repository{ID: entity.NewID(uint(7))},
			expected: "repository-7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRepositoryName(&tt.repo))
		})
	}
}

func TestTag(t *testing.T) {
	assert.Equal(t, "abcdef123456", Tag(&entity.Build{Revision: "abcdef1234567890"}))
	assert.Equal(t, "42", Tag(&entity.Build{ID: entity.NewID(uint(42))}))
	assert.Equal(t, "short", Tag(&entity.Build{Revision: "short"}))
}

func TestBuildAndPushHappyPath(t *testing.T) {
	runner := &scriptRunner{results: map[string]execx.Result{
		"docker login": {Stdout: "Login Succeeded\n"},
		"docker build": {Stdout: "built\n"},
		"docker push":  {Stdout: "pushed\n"},
	}}
	b := New(runner)

	repo := &entity.Repository{
		URL:           "https://git.example.com/org/myapp.git",
		NexusRegistry: "https://reg.example.com/",
		NexusUsername: "user",
		NexusPassword: "pass",
	}
	build := &entity.Build{Revision: "abcdef1234567890"}

	ref, output, err := b.BuildAndPush(context.Background(), repo, "/tmp/ws", build)
	require.NoError(t, err)
	assert.Equal(t, "reg.example.com/org-myapp:abcdef123456", ref)
	assert.Equal(t, "Login Succeeded\nbuilt\npushed", output)

	require.Len(t, runner.calls, 3)
	login := runner.calls[0]
	assert.Equal(t, []string{"login", "reg.example.com", "-u", "user", "--password-stdin"}, login.args)
	assert.Equal(t, "pass", login.stdin, "password must travel via stdin")
	assert.Equal(t, []string{"build", "-t", "reg.example.com/org-myapp:abcdef123456", "/tmp/ws"}, runner.calls[1].args)
	assert.Equal(t, []string{"push", "reg.example.com/org-myapp:abcdef123456"}, runner.calls[2].args)
}

func TestBuildAndPushSkipsLoginWithoutCredentials(t *testing.T) {
	runner := &scriptRunner{results: map[string]execx.Result{}}
	b := New(runner)

	repo := &entity.Repository{URL: "https://git.example.com/org/app.git", NexusRegistry: "reg.example.com"}
	_, _, err := b.BuildAndPush(context.Background(), repo, "/tmp/ws", &entity.Build{Revision: "abc"})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "build", runner.calls[0].args[0])
	assert.Equal(t, "push", runner.calls[1].args[0])
}

func TestBuildAndPushEmptyRegistry(t *testing.T) {
	b := New(&scriptRunner{})
	_, _, err := b.BuildAndPush(context.Background(), &entity.Repository{}, "/tmp/ws", &entity.Build{})
	assert.ErrorIs(t, err, ErrRegistryEmpty)
}

func TestBuildAndPushFailureDomains(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]execx.Result
		wantErr error
	}{
		{
			name: "login failure",
			results: map[string]execx.Result{
				"docker login": {ExitCode: 1, Stderr: "unauthorized\n"},
			},
			wantErr: ErrLoginFailed,
		},
		{
			name: "build failure",
			results: map[string]execx.Result{
				"docker login": {},
				"docker build": {ExitCode: 1, Stderr: "no Dockerfile\n"},
			},
			wantErr: ErrBuildFailed,
		},
		{
			name: "push failure",
			results: map[string]execx.Result{
				"docker login": {},
				"docker build": {},
				"docker push":  {ExitCode: 1, Stderr: "denied\n"},
			},
			wantErr: ErrPushFailed,
		},
	}

	repo := &entity.Repository{
		URL:           "https://git.example.com/org/app.git",
		NexusRegistry: "reg.example.com",
		NexusUsername: "u",
		NexusPassword: "p",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(&scriptRunner{results: tt.results})
			_, _, err := b.BuildAndPush(context.Background(), repo, "/tmp/ws", &entity.Build{Revision: "abc"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildAndPushToolMissing(t *testing.T) {
	runner := &scriptRunner{errs: map[string]error{
		"docker build": fmt.Errorf("%w: docker", execx.ErrToolNotFound),
	}}
	b := New(runner)

	repo := &entity.Repository{URL: "https://git.example.com/org/app.git", NexusRegistry: "reg.example.com"}
	_, _, err := b.BuildAndPush(context.Background(), repo, "/tmp/ws", &entity.Build{Revision: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, execx.ErrToolNotFound))
}
