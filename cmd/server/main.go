package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/morshidulrahman/testomg-babe/app/controllers"
	"github.com/morshidulrahman/testomg-babe/app/repository"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/archive"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/auth"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/billing"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/cache"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/database"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/mail"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/metrics/counter"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/middleware"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repos := setupRepositories()
	planCache := cache.NewPlanCache(cache.GetClient(), cache.DefaultPlanTTL)
	setupBilling(repos, planCache)
	controllers.InitializeAccountController(planCache)
	controllers.InitializeWebhookCounter(counter.New(cache.GetClient()))

	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/server to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views: html.New(basePath+"views", ".html"),
		// Stripe payloads are small; keep the limit tight.
		BodyLimit: 1 * 1024 * 1024,
	})

	// ignore favicon requests
	app.Use(favicon.New(favicon.Config{
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	metricsAuth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	})
	app.Get("/metrics", metricsAuth, monitor.New())
	app.Get("/metrics/webhooks", metricsAuth, controllers.HandleWebhookStats)

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Verifier:       setupVerifier(),
		LimiterStorage: cache.NewFiberStorage(cache.LimiterDatabase),
		AllowOrigins:   env.GetEnv("CORS_ALLOW_ORIGINS", env.GetEnv("PUBLIC_DOMAIN", "*")),
	})

	return app
}

func setupRepositories() *repository.Repositories {
	var factory *repository.Factory
	if database.Driver() == database.DriverMongo {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repository.EnsureMongoIndexes(ctx, database.GetMongo()); err != nil {
			log.Fatalf("[Database] Failed to create Mongo indexes: %v", err)
		}
		factory = repository.NewMongoFactory(database.GetMongo())
	} else {
		factory = repository.NewFactory(database.GetDB())
	}

	repository.InitializeFactory(factory)
	return factory.GetRepositories()
}

func setupBilling(repos *repository.Repositories, planCache *cache.PlanCache) {
	cfg := billing.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Warnf("[Billing] Configuration incomplete, billing endpoints will fail: %v", err)
	}

	opts := []billing.Option{
		billing.WithPlanCache(planCache),
		billing.WithPublicDomain(cfg.PublicDomain),
	}

	if mailCfg := mail.LoadConfig(); mailCfg.Enabled() {
		opts = append(opts, billing.WithReceiptSender(mail.NewSMTPMailer(mailCfg)))
	}

	archiveCfg, err := archive.LoadConfig()
	if err != nil {
		log.Warnf("[Archive] %v", err)
	} else if archiveCfg.IsEnabled() {
		client, err := archive.NewClient(context.Background(), archiveCfg)
		if err != nil {
			log.Errorf("[Archive] Failed to create S3 client: %v", err)
		} else {
			opts = append(opts, billing.WithArchiver(client))
			log.Infof("[Archive] Webhook payloads archived to bucket %s", archiveCfg.BucketName)
		}
	}

	svc := billing.NewService(
		billing.NewRepository(repos),
		billing.NewStripeGateway(cfg.SecretKey),
		cfg.Catalog(),
		opts...,
	)
	controllers.InitializeBillingController(svc, cfg.WebhookSecret)
}

// setupVerifier returns nil when the identity provider is not configured;
// every request is then anonymous and protected pages redirect to sign-in.
func setupVerifier() middleware.TokenVerifier {
	cfg := auth.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Warnf("[Auth] Identity provider not configured: %v", err)
		return nil
	}
	v, err := auth.NewVerifier(cfg)
	if err != nil {
		log.Errorf("[Auth] Failed to load signing keys: %v", err)
		return nil
	}
	return v
}
