package cluster

import (
	"context"
	"os"
	"testing"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	result execx.Result
	err    error

	args           []string
	manifestBody   string
	kubeconfigBody string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args []string, stdin string) (execx.Result, error) {
	r.args = append([]string{name}, args...)
	// Snapshot the ephemeral files while they still exist.
	if len(args) == 5 {
		if data, err := os.ReadFile(args[1]); err == nil {
			r.kubeconfigBody = string(data)
		}
		if data, err := os.ReadFile(args[4]); err == nil {
			r.manifestBody = string(data)
		}
	}
	return r.result, r.err
}

func TestRenderDeployment(t *testing.T) {
	got := RenderDeployment("myapp", "staging", "reg.example.com/org-myapp:abcdef123456")
	want := `apiVersion: apps/v1
kind: Deployment
metadata:
  name: myapp
  namespace: staging
spec:
  replicas: 1
  selector:
    matchLabels:
      app: myapp
  template:
    metadata:
      labels:
        app: myapp
    spec:
      containers:
      - name: myapp
        image: reg.example.com/org-myapp:abcdef123456
        ports:
        - containerPort: 8000
`
	assert.Equal(t, want, got)
}

func TestAppName(t *testing.T) {
	assert.Equal(t, "my-app", AppName(&entity.Repository{Name: "My App"}))
	assert.Equal(t, "app-3", AppName(&entity.Repository{ID: entity.NewID(uint(3)), Name: "!!!"}))
}

func TestDeployRequiresKubeconfig(t *testing.T) {
	d := New(&recordingRunner{})
	_, err := d.Deploy(context.Background(), &entity.Repository{Name: "app"}, "img:tag")
	assert.ErrorIs(t, err, ErrNoKubeconfig)
}

func TestDeployAppliesAndCleansUp(t *testing.T) {
	runner := &recordingRunner{result: execx.Result{Stdout: "deployment.apps/my-app configured\n"}}
	d := New(runner)

	repo := &entity.Repository{
		Name:                "My App",
		KubernetesNamespace: "staging",
		Kubeconfig:          "apiVersion: v1\nkind: Config\n",
	}
	msg, err := d.Deploy(context.Background(), repo, "reg.example.com/app:abc")
	require.NoError(t, err)
	assert.Equal(t, "deployment.apps/my-app configured", msg)

	require.Len(t, runner.args, 6)
	assert.Equal(t, "kubectl", runner.args[0])
	assert.Equal(t, "--kubeconfig", runner.args[1])
	assert.Equal(t, "apply", runner.args[3])
	assert.Equal(t, "-f", runner.args[4])

	assert.Contains(t, runner.manifestBody, "image: reg.example.com/app:abc")
	assert.Contains(t, runner.manifestBody, "namespace: staging")
	assert.Equal(t, "apiVersion: v1\nkind: Config", runner.kubeconfigBody)

	// Both ephemeral files must be gone afterwards.
	_, err = os.Stat(runner.args[2])
	assert.True(t, os.IsNotExist(err), "kubeconfig file should be removed")
	_, err = os.Stat(runner.args[5])
	assert.True(t, os.IsNotExist(err), "manifest file should be removed")
}

func TestDeploySynthesizesMessageOnEmptyOutput(t *testing.T) {
	d := New(&recordingRunner{})
	repo := &entity.Repository{Name: "app", Kubeconfig: "kind: Config"}
	msg, err := d.Deploy(context.Background(), repo, "img:tag")
	require.NoError(t, err)
	assert.Equal(t, "Applied manifest in namespace default.", msg)
}

func TestDeployFailureCleansUp(t *testing.T) {
	runner := &recordingRunner{result: execx.Result{ExitCode: 1, Stderr: "error validating data\n"}}
	d := New(runner)

	repo := &entity.Repository{Name: "app", KubernetesNamespace: "prod", Kubeconfig: "kind: Config"}
	_, err := d.Deploy(context.Background(), repo, "img:tag")
	require.ErrorIs(t, err, ErrApplyFailed)
	assert.Contains(t, err.Error(), "error validating data")

	_, statErr := os.Stat(runner.args[2])
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(runner.args[5])
	assert.True(t, os.IsNotExist(statErr))
}
