package auth

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultProtectedPatterns lists the routes that require a signed-in user.
var DefaultProtectedPatterns = []string{
	"/dashboard(.*)",
	"/chat",
	"/meet(.*)",
	"/dashboard/admin(.*)",
}

// RouteMatcher reports whether a path matches any of its patterns.
// Patterns are regular expressions anchored at both ends and matched against
// the normalized path, so they follow the router's case-insensitive,
// non-strict matching.
type RouteMatcher struct {
	patterns []*regexp.Regexp
}

func NewRouteMatcher(patterns ...string) (*RouteMatcher, error) {
	m := &RouteMatcher{}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)^" + p + "$")
		if err != nil {
			return nil, fmt.Errorf("invalid route pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// MustRouteMatcher is like NewRouteMatcher but panics on invalid patterns.
func MustRouteMatcher(patterns ...string) *RouteMatcher {
	m, err := NewRouteMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *RouteMatcher) Match(path string) bool {
	path = NormalizePath(path)
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// NormalizePath lowercases a request path and drops one trailing slash,
// mirroring how fiber resolves routes with CaseSensitive and StrictRouting off.
func NormalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

var staticAssetRe = regexp.MustCompile(`(?i)\.(?:html?|css|js|jpe?g|webp|png|gif|svg|ttf|woff2?|ico|csv|docx?|xlsx?|zip|webmanifest)$`)

// IsStaticAsset reports whether a request path targets a static file that the
// auth middleware skips. API routes are never treated as static.
func IsStaticAsset(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "/api/") || lower == "/api" {
		return false
	}
	return staticAssetRe.MatchString(path)
}
