package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/tdt-go-api/internal/config"
	"github.com/noah-isme/tdt-go-api/internal/handler"
	"github.com/noah-isme/tdt-go-api/internal/middleware"
	"github.com/noah-isme/tdt-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	ProjectHandler    *handler.ProjectHandler
	TaskHandler       *handler.TaskHandler
	CICDHandler       *handler.CICDHandler
	DeploymentHandler *handler.DeploymentHandler
	// AuthChain runs in order on every protected group, typically token validation then user loading.
	AuthChain    []fiber.Handler
	HealthChecks map[string]handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))
	api.Get("/metrics", observability.MetricsHandler())

	authChain := deps.AuthChain
	if len(authChain) == 0 {
		authChain = []fiber.Handler{func(c *fiber.Ctx) error { return c.Next() }}
	}
	protected := func(prefix string) fiber.Router {
		return api.Group(prefix, authChain...)
	}

	if deps.AuthHandler != nil {
		var loginGuards []fiber.Handler
		if cfg.LoginRateLimit > 0 {
			loginGuards = append(loginGuards, middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow))
		}
		deps.AuthHandler.Register(api, loginGuards...)
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(protected("/users"))
	}

	projects := protected("/projects")
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.Register(projects)
	}
	if deps.DeploymentHandler != nil {
		deps.DeploymentHandler.RegisterProjectRoutes(projects)
		deps.DeploymentHandler.Register(protected("/deployments"))
	}
	if deps.CICDHandler != nil {
		var generateGuards []fiber.Handler
		if cfg.CICDRateLimit > 0 {
			generateGuards = append(generateGuards, middleware.RateLimit("cicd", cfg.CICDRateLimit, cfg.CICDRateWindow))
		}
		deps.CICDHandler.RegisterProjectRoutes(projects, generateGuards...)
		deps.CICDHandler.Register(protected("/ai-generations"))
	}

	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(protected("/tasks"))
	}
}
