package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imanbakhtiari/cdaas/internal/entity"
	"github.com/imanbakhtiari/cdaas/internal/utils"
	"gopkg.in/yaml.v3"
)

// Exporter writes a durable YAML artifact describing a repository's last
// known configuration and image reference. It runs for failed runs too, so
// the artifact always reflects the latest state.
type Exporter struct {
	dir string
}

func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Export writes <slug>.yaml into the output directory and returns its path.
func (e *Exporter) Export(repo *entity.Repository, imageRef string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create manifest dir: %w", err)
	}

	slug := utils.Slugify(repo.Name)
	if slug == "" {
		slug = fmt.Sprintf("repository-%s", repo.ID)
	}
	path := filepath.Join(e.dir, slug+".yaml")

	data, err := yaml.Marshal(document(repo, imageRef))
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

func document(repo *entity.Repository, imageRef string) *yaml.Node {
	namespace := repo.KubernetesNamespace
	if namespace == "" {
		namespace = "default"
	}
	return mapping(
		"repository", mapping(
			"name", scalar(repo.Name),
			"url", scalar(repo.URL),
			"branch", scalar(repo.Branch),
		),
		"nexus", mapping(
			"registry", scalar(repo.NexusRegistry),
			"repository", scalar(repo.NexusRepository),
			"username", scalar(repo.NexusUsername),
			"password", scalar(repo.NexusPassword),
			"image", scalar(imageRef),
		),
		"kubernetes", mapping(
			"namespace", scalar(namespace),
			"kubeconfig", kubeconfigNode(repo.Kubeconfig),
		),
	)
}

func kubeconfigNode(body string) *yaml.Node {
	body = strings.TrimSpace(body)
	if body == "" {
		n := scalar("")
		n.LineComment = "# kubeconfig not provided"
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.LiteralStyle, Value: body}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func mapping(pairs ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(pairs); i += 2 {
		n.Content = append(n.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return n
}
