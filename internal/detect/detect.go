package detect

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Framework string

const (
	FrameworkDjango  Framework = "django"
	FrameworkFastAPI Framework = "fastapi"
	FrameworkFlask   Framework = "flask"
	FrameworkPython  Framework = "python"
	FrameworkUnknown Framework = "unknown"
)

// Detect inspects a checked-out workspace and classifies its runtime
// framework. Plain pattern matching over file names and source text.
func Detect(root string) Framework {
	var pyFiles []string
	hasDjangoMarker := false
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		switch d.Name() {
		case "manage.py", "settings.py":
			hasDjangoMarker = true
		}
		if strings.HasSuffix(d.Name(), ".py") {
			pyFiles = append(pyFiles, path)
		}
		return nil
	})

	if hasDjangoMarker {
		return FrameworkDjango
	}
	if anyFileContains(pyFiles, "FastAPI(", "from fastapi") {
		return FrameworkFastAPI
	}
	if anyFileContains(pyFiles, "Flask(", "from flask") {
		return FrameworkFlask
	}
	if exists(filepath.Join(root, "requirements.txt")) || exists(filepath.Join(root, "pyproject.toml")) {
		return FrameworkPython
	}
	return FrameworkUnknown
}

func anyFileContains(paths []string, needles ...string) bool {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		text := string(data)
		for _, n := range needles {
			if strings.Contains(text, n) {
				return true
			}
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
