package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteMatcherDefaultPatterns(t *testing.T) {
	m := MustRouteMatcher(DefaultProtectedPatterns...)

	protected := []string{"/dashboard", "/dashboard/", "/dashboard/transactions", "/dashboard/admin/users", "/chat", "/meet", "/meet/room-1"}
	for _, p := range protected {
		assert.True(t, m.Match(p), p)
	}

	public := []string{"/", "/pricing", "/chat/room", "/chats", "/sign-in", "/api/webhooks/stripe", "/x/dashboard"}
	for _, p := range public {
		assert.False(t, m.Match(p), p)
	}
}

func TestRouteMatcherIgnoresCaseAndTrailingSlash(t *testing.T) {
	m := MustRouteMatcher(DefaultProtectedPatterns...)

	for _, p := range []string{"/CHAT", "/chat/", "/Chat/", "/Dashboard", "/DASHBOARD/Admin", "/Meet", "/meet/Room-1/"} {
		assert.True(t, m.Match(p), p)
	}
	assert.False(t, m.Match("/Chats"))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", NormalizePath("/"))
	assert.Equal(t, "/chat", NormalizePath("/CHAT/"))
	assert.Equal(t, "/meet/a", NormalizePath("/Meet/A"))
}

func TestNewRouteMatcherInvalidPattern(t *testing.T) {
	_, err := NewRouteMatcher("/broken(")
	require.Error(t, err)
	assert.Panics(t, func() { MustRouteMatcher("/broken(") })
}

func TestIsStaticAsset(t *testing.T) {
	for _, p := range []string{"/css/app.css", "/js/app.js", "/img/logo.PNG", "/favicon.ico", "/fonts/a.woff2", "/index.html", "/site.webmanifest"} {
		assert.True(t, IsStaticAsset(p), p)
	}
	for _, p := range []string{"/dashboard", "/data.json", "/api/export.csv", "/API/export.csv", "/", "/meet"} {
		assert.False(t, IsStaticAsset(p), p)
	}
}
