package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/agency-crm/internal/api/http/handlers"
	"github.com/spec-kit/agency-crm/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Agents         *handlers.AgentsHandler
	Policies       *handlers.PoliciesHandler
	Messages       *handlers.MessagesHandler
	Notifications  *handlers.NotificationsHandler
	Records        *handlers.RecordsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Registry       *prometheus.Registry
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify", cfg.Auth.VerifyEmail)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)
	authProtected.Get("/me", cfg.Auth.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	staff := auth.RequireStaff()
	admin := auth.RequireAdmin()

	clients := api.Group("/clients")
	clients.Post("", cfg.Clients.CreateClient)
	clients.Get("", cfg.Clients.ListClients)
	clients.Get("/:id", cfg.Clients.GetClient)
	clients.Put("/:id", cfg.Clients.UpdateClient)
	clients.Delete("/:id", staff, cfg.Clients.DeleteClient)
	clients.Post("/:id/assign", staff, cfg.Clients.AssignLead)
	clients.Post("/:id/convert", cfg.Clients.ConvertLead)
	clients.Get("/:id/policies", cfg.Policies.ListByClient)
	clients.Get("/:id/interactions", cfg.Clients.ListInteractions)

	agents := api.Group("/agents")
	agents.Post("", staff, cfg.Agents.CreateAgent)
	agents.Get("", cfg.Agents.ListAgents)
	agents.Get("/:id", cfg.Agents.GetAgent)
	agents.Put("/:id", cfg.Agents.UpdateAgent)
	agents.Delete("/:id", admin, cfg.Agents.DeleteAgent)
	agents.Post("/:id/approve", admin, cfg.Agents.Approve)
	agents.Post("/:id/reject", admin, cfg.Agents.Reject)
	agents.Post("/:id/deactivate", staff, cfg.Agents.Deactivate)
	agents.Post("/:id/reactivate", staff, cfg.Agents.Reactivate)
	agents.Get("/:id/performance", cfg.Agents.Performance)
	agents.Post("/:id/licenses", staff, cfg.Agents.AddLicense)
	agents.Get("/:id/licenses", cfg.Agents.ListLicenses)
	agents.Delete("/:id/licenses/:licenseID", staff, cfg.Agents.RemoveLicense)

	policies := api.Group("/policies")
	policies.Post("", cfg.Policies.CreatePolicy)
	policies.Get("/:id", cfg.Policies.GetPolicy)
	policies.Put("/:id", cfg.Policies.UpdatePolicy)
	policies.Delete("/:id", staff, cfg.Policies.DeletePolicy)
	policies.Post("/check-renewals", staff, cfg.Policies.CheckRenewals)

	messages := api.Group("/messages")
	messages.Post("", cfg.Messages.Send)
	messages.Post("/broadcast", admin, cfg.Messages.Broadcast)
	messages.Get("/inbox", cfg.Messages.Inbox)
	messages.Get("/sent", cfg.Messages.Sent)
	messages.Get("/trash", cfg.Messages.Trash)
	messages.Put("/:id", cfg.Messages.Edit)
	messages.Delete("/:id", cfg.Messages.TrashMessage)
	messages.Post("/:id/restore", cfg.Messages.Restore)
	messages.Delete("/:id/purge", admin, cfg.Messages.Purge)
	messages.Post("/:id/read", cfg.Messages.MarkRead)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	tasks := api.Group("/tasks")
	tasks.Post("", cfg.Records.CreateTask)
	tasks.Get("", cfg.Records.ListTasks)
	tasks.Put("/:id", cfg.Records.UpdateTask)
	tasks.Delete("/:id", cfg.Records.DeleteTask)

	interactions := api.Group("/interactions")
	interactions.Post("", cfg.Records.LogInteraction)
	interactions.Delete("/:id", staff, cfg.Records.DeleteInteraction)

	calendar := api.Group("/calendar-notes")
	calendar.Post("", cfg.Records.AddCalendarNote)
	calendar.Get("", cfg.Records.ListCalendarNotes)
	calendar.Delete("/:id", cfg.Records.DeleteCalendarNote)

	testimonials := api.Group("/testimonials")
	testimonials.Post("", staff, cfg.Records.AddTestimonial)
	testimonials.Get("", cfg.Records.ListTestimonials)
	testimonials.Put("/:id", staff, cfg.Records.UpdateTestimonial)
	testimonials.Delete("/:id", staff, cfg.Records.DeleteTestimonial)

	api.Get("/dashboard", cfg.Dashboard.Summary)
}
