package detect

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dockerfile returns a build descriptor tailored to the detected framework.
func Dockerfile(fw Framework) string {
	switch fw {
	case FrameworkDjango:
		return `FROM python:3.11-slim
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
ENV PYTHONUNBUFFERED=1
CMD ["gunicorn", "-b", ":8000", "project.wsgi:application"]
`
	case FrameworkFlask:
		return `FROM python:3.11-slim
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
ENV FLASK_APP=app.py
CMD ["gunicorn", "-b", ":8000", "app:app"]
`
	case FrameworkFastAPI:
		return `FROM python:3.11-slim
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
CMD ["uvicorn", "main:app", "--host", "0.0.0.0", "--port", "8000"]
`
	default:
		return `FROM python:3.11-slim
WORKDIR /app
COPY requirements.txt ./
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
CMD ["python", "-m", "http.server", "8000"]
`
	}
}

// EnsureDockerfile writes a synthesized Dockerfile into the workspace unless
// one is already present. Reports whether a file was created.
func EnsureDockerfile(workspace string, fw Framework) (bool, error) {
	path := filepath.Join(workspace, "Dockerfile")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(Dockerfile(fw)), 0o644); err != nil {
		return false, fmt.Errorf("write Dockerfile: %w", err)
	}
	return true, nil
}
