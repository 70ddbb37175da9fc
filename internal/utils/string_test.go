package utils

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc123", "abc123"},
		{"ABC123", "abc123"},
		{"Hello World!", "hello-world"},
		{"My App (staging)", "my-app-staging"},
		{"  spaced  out  ", "spaced-out"},
		{"", ""},
		{"!@#$%^&*()", ""},
		{"MiXeD123", "mixed123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.expected {
				t.Errorf("Slugify(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRepoSlugFromURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://git.example.com/org/myapp.git", "org-myapp"},
		{"https://git.example.com/org/myapp", "org-myapp"},
		{"https://git.example.com/", ""},
		{"git.example.com/single", "single"},
		{"https://git.example.com/Org/My.App.git", "org-my-app"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := RepoSlugFromURL(tt.input)
			if got != tt.expected {
				t.Errorf("RepoSlugFromURL(%q) = %q; want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEnsureSuffix(t *testing.T) {
	if got := EnsureSuffix("repo", ".git"); got != "repo.git" {
		t.Errorf("EnsureSuffix = %q; want %q", got, "repo.git")
	}
	if got := EnsureSuffix("repo.git", ".git"); got != "repo.git" {
		t.Errorf("EnsureSuffix = %q; want %q", got, "repo.git")
	}
}
