package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/auth"
	icuser "github.com/morshidulrahman/testomg-babe/internal/pkg/usercontext"
	"github.com/sujit-baniya/flash"
)

// SessionCookie is the cookie holding the provider's session token.
const SessionCookie = "__session"

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthConfig controls the auth middleware.
type AuthConfig struct {
	Verifier   TokenVerifier
	Protected  *auth.RouteMatcher
	SignInPath string
}

// NewAuth attaches the signed-in user to every non-static request and gates
// protected routes. Pages redirect to the sign-in page, API routes get 401.
func NewAuth(cfg AuthConfig) fiber.Handler {
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/sign-in"
	}
	if cfg.Protected == nil {
		cfg.Protected = auth.MustRouteMatcher(auth.DefaultProtectedPatterns...)
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		protected := cfg.Protected.Match(path)
		// Asset-looking paths under a protected route are still gated.
		if !protected && auth.IsStaticAsset(path) {
			return c.Next()
		}

		icuser.Set(c, resolveUser(c, cfg.Verifier))

		if !protected || icuser.IsLoggedIn(c) {
			return c.Next()
		}

		if isAPIPath(path) {
			return unauthorizedJSON(c)
		}

		fm := fiber.Map{
			"type":    "error",
			"message": "Please sign in to continue",
		}
		target := cfg.SignInPath + "?redirect_url=" + url.QueryEscape(c.OriginalURL())
		return flash.WithError(c, fm).Redirect(target)
	}
}

func resolveUser(c *fiber.Ctx, verifier TokenVerifier) icuser.UserContext {
	anonymous := icuser.UserContext{IsLoggedIn: false}
	if verifier == nil {
		return anonymous
	}

	token, ok := auth.ExtractBearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		token = strings.TrimSpace(c.Cookies(SessionCookie))
	}
	if token == "" {
		return anonymous
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		log.Debugf("[Auth] Token rejected path=%s err=%v", c.Path(), err)
		return anonymous
	}
	return icuser.UserContext{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		IsLoggedIn: true,
		ExpiresAt:  claims.ExpiresAt,
	}
}

func isAPIPath(path string) bool {
	path = auth.NormalizePath(path)
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// RequireAPIAuth ensures a signed-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !icuser.IsLoggedIn(c) {
		return unauthorizedJSON(c)
	}
	return c.Next()
}

func unauthorizedJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":   "unauthorized",
		"message": "login required",
	})
}
