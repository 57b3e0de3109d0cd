package router

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A nil verifier leaves every request anonymous and a nil storage makes the
// limiter keep its counters in memory.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{Views: html.New("../../../views", ".html")})
	InstallRouter(app, Dependencies{})
	return app
}

func TestProtectedPageRedirectsToSignIn(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/dashboard", "/dashboard/transactions", "/chat", "/meet/room-1"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/sign-in?redirect_url="), path)
	}
}

func TestProtectedRouteVariantsRedirect(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/chat/", "/CHAT", "/Meet", "/Dashboard", "/dashboard/Transactions/", "/meet/room.png"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/sign-in?redirect_url="), path)
	}
}

func TestPublicPagesRender(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/", "/pricing", "/sign-in"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestAPIRequiresSession(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/user/account", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIRateLimit(t *testing.T) {
	app := newTestApp()

	var last int
	for i := 0; i < 61; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/", nil))
		require.NoError(t, err)
		last = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}

func TestWebhookIsNotRateLimited(t *testing.T) {
	app := newTestApp()

	for i := 0; i < 61; i++ {
		req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{}`))
		resp, err := app.Test(req)
		require.NoError(t, err)
		// unsigned deliveries are rejected by the handler, never by the limiter
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
}
