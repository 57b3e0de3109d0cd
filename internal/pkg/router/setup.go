package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/middleware"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the shared components the routers wire into handlers.
type Dependencies struct {
	Verifier       middleware.TokenVerifier
	LimiterStorage fiber.Storage
	// AllowOrigins is the CORS origin list of the API, "*" when empty.
	AllowOrigins   string
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	if deps.AllowOrigins == "" {
		deps.AllowOrigins = "*"
	}
	// HttpRouter installs the global auth middleware, so it goes first.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
