package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/auth"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/middleware"
)

type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Use(middleware.NewAuth(middleware.AuthConfig{
		Verifier:   h.deps.Verifier,
		Protected:  auth.MustRouteMatcher(auth.DefaultProtectedPatterns...),
		SignInPath: "/sign-in",
	}))

	h.registerPublicRoutes(app)
	h.registerProtectedRoutes(app)
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
