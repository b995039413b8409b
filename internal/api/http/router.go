package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/http/handlers"
)

// RouteConfig bundles the handlers behind the router.
type RouteConfig struct {
	Complaints *handlers.ComplaintsHandler
	Admin      *handlers.AdminHandler
	Chat       *handlers.ChatHandler
	Analytics  *handlers.AnalyticsHandler
	Live       *handlers.LiveHandler
	Health     *handlers.HealthHandler
	AdminToken string
}

// RegisterRoutes wires all endpoints.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)

	api := app.Group("/api")

	complaints := api.Group("/complaints")
	complaints.Post("/", rc.Complaints.Submit)
	complaints.Get("/", rc.Complaints.List)
	complaints.Post("/analyze-image", rc.Complaints.AnalyzeImage)
	complaints.Get("/:id", rc.Complaints.Track)
	complaints.Post("/:id/close", rc.Complaints.Close)
	complaints.Post("/:id/reopen", rc.Complaints.Reopen)
	complaints.Post("/:id/feedback", rc.Complaints.Feedback)

	chat := api.Group("/chat/sessions")
	chat.Post("/", rc.Chat.Open)
	chat.Get("/:id", rc.Chat.Get)
	chat.Post("/:id/messages", rc.Chat.Message)
	chat.Post("/:id/actions", rc.Chat.Action)
	chat.Delete("/:id", rc.Chat.Delete)

	api.Get("/analytics", rc.Analytics.Stats)
	api.Get("/analytics/predictions", rc.Analytics.Predictions)
	api.Get("/live", rc.Live.Feed)

	admin := api.Group("/admin", AdminAuth(rc.AdminToken))
	admin.Get("/dashboard", rc.Admin.Dashboard)
	admin.Get("/notification-settings", rc.Admin.NotificationSettings)
	admin.Patch("/complaints/:id/status", rc.Admin.UpdateStatus)
	admin.Patch("/complaints/:id/department", rc.Admin.ReassignDepartment)
}
