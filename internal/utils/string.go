package utils

import (
	"net/url"
	"strings"
)

// Slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen. Returns "" when nothing survives.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// RepoSlugFromURL derives a deterministic slug from the path of a VCS URL,
// e.g. "https://git.example.com/org/myapp.git" -> "org-myapp".
func RepoSlugFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" {
		return ""
	}
	return Slugify(strings.ReplaceAll(path, "/", "-"))
}

func EnsureSuffix(s, suffix string) string {
	if strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}
