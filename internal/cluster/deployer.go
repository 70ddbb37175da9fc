package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/execx"
	"github.com/imanbakhtiari/cdaas/internal/utils"
)

var (
	ErrNoKubeconfig = errors.New("repository has no kubeconfig configured")
	ErrApplyFailed  = errors.New("apply failed")
)

// Deployer applies a minimal single-replica workload to the target cluster
// through the cluster CLI, using the repository's stored kubeconfig.
type Deployer struct {
	runner execx.Runner
}

func New(runner execx.Runner) *Deployer {
	return &Deployer{runner: runner}
}

// AppName derives the workload name from the repository's display name.
func AppName(repo *entity.Repository) string {
	if slug := utils.Slugify(repo.Name); slug != "" {
		return slug
	}
	return fmt.Sprintf("app-%s", repo.ID)
}

// RenderDeployment produces the manifest applied for every deployment: one
// replica, one container, container port 8000.
func RenderDeployment(app, namespace, imageRef string) string {
	return fmt.Sprintf(`apiVersion: apps/v1
kind: Deployment
metadata:
  name: %[1]s
  namespace: %[2]s
spec:
  replicas: 1
  selector:
    matchLabels:
      app: %[1]s
  template:
    metadata:
      labels:
        app: %[1]s
    spec:
      containers:
      - name: %[1]s
        image: %[3]s
        ports:
        - containerPort: 8000
`, app, namespace, imageRef)
}

// Deploy writes the rendered manifest and the kubeconfig to ephemeral files,
// applies the manifest and removes both files regardless of outcome.
func (d *Deployer) Deploy(ctx context.Context, repo *entity.Repository, imageRef string) (string, error) {
	kubeconfig := strings.TrimSpace(repo.Kubeconfig)
	if kubeconfig == "" {
		return "", ErrNoKubeconfig
	}

	namespace := repo.KubernetesNamespace
	if namespace == "" {
		namespace = "default"
	}
	manifest := RenderDeployment(AppName(repo), namespace, imageRef)

	manifestPath, err := writeTemp("cdaas-deploy-*.yaml", manifest)
	if err != nil {
		return "", err
	}
	defer os.Remove(manifestPath)

	kubeconfigPath, err := writeTemp("cdaas-kubeconfig-*.yaml", kubeconfig)
	if err != nil {
		return "", err
	}
	defer os.Remove(kubeconfigPath)

	res, err := d.runner.Run(ctx, "kubectl", []string{"--kubeconfig", kubeconfigPath, "apply", "-f", manifestPath}, "")
	if err != nil {
		if errors.Is(err, execx.ErrToolNotFound) {
			return "", fmt.Errorf("%w: install kubectl and ensure it is on PATH", err)
		}
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s", ErrApplyFailed, messageOr(res, "kubectl apply failed"))
	}

	if msg := strings.TrimSpace(res.Stdout); msg != "" {
		return msg, nil
	}
	return fmt.Sprintf("Applied manifest in namespace %s.", namespace), nil
}

func writeTemp(pattern, content string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func messageOr(res execx.Result, fallback string) string {
	if out := res.Output(); out != "" {
		return out
	}
	return fallback
}
