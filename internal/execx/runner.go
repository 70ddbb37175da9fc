package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolNotFound marks an executable that could not be located or started.
// A nonzero exit from a tool that did run is reported through Result, not
// through an error.
var ErrToolNotFound = errors.New("tool not found")

type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns the most useful captured text: trimmed stderr when
// non-empty, else trimmed stdout.
func (r Result) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner invokes external tools. The single implementation shells out;
// tests substitute scripted fakes.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin string) (Result, error)
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner { return &ExecRunner{} }

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return res, fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return res, fmt.Errorf("run %s: %w", name, err)
	}
	return res, nil
}
