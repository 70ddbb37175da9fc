package detect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
		want  Framework
	}{
		{
			name:  "django via manage.py",
			setup: func(t *testing.T, root string) { write(t, root, "manage.py", "") },
			want:  FrameworkDjango,
		},
		{
			name:  "django via nested settings.py",
			setup: func(t *testing.T, root string) { write(t, root, "project/settings.py", "") },
			want:  FrameworkDjango,
		},
		{
			name:  "fastapi import",
			setup: func(t *testing.T, root string) { write(t, root, "main.py", "from fastapi import FastAPI\n") },
			want:  FrameworkFastAPI,
		},
		{
			name:  "flask app",
			setup: func(t *testing.T, root string) { write(t, root, "app.py", "app = Flask(__name__)\n") },
			want:  FrameworkFlask,
		},
		{
			name:  "plain python project",
			setup: func(t *testing.T, root string) { write(t, root, "requirements.txt", "requests\n") },
			want:  FrameworkPython,
		},
		{
			name:  "nothing recognizable",
			setup: func(t *testing.T, root string) { write(t, root, "README.md", "hi\n") },
			want:  FrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)
			if got := Detect(root); got != tt.want {
				t.Errorf("Detect = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDjangoWinsOverFlask(t *testing.T) {
	root := t.TempDir()
	write(t, root, "manage.py", "")
	write(t, root, "app.py", "from flask import Flask\n")
	if got := Detect(root); got != FrameworkDjango {
		t.Errorf("Detect = %q; want django", got)
	}
}

func TestEnsureDockerfile(t *testing.T) {
	root := t.TempDir()

	created, err := EnsureDockerfile(root, FrameworkFlask)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected Dockerfile to be created")
	}
	data, err := os.ReadFile(filepath.Join(root, "Dockerfile"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "gunicorn") {
		t.Errorf("unexpected Dockerfile content: %s", data)
	}

	created, err = EnsureDockerfile(root, FrameworkDjango)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("existing Dockerfile must not be overwritten")
	}
	after, _ := os.ReadFile(filepath.Join(root, "Dockerfile"))
	if string(after) != string(data) {
		t.Error("Dockerfile content changed")
	}
}
