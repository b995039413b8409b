package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/service"
)

// AnalyticsHandler serves the public analytics page and the predictive view.
type AnalyticsHandler struct {
	service *service.ComplaintService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(complaintService *service.ComplaintService) *AnalyticsHandler {
	return &AnalyticsHandler{service: complaintService}
}

// Stats GET /api/analytics.
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.AnalyticsStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Predictions GET /api/analytics/predictions asks the model for city-wide
// risk forecasting over recent complaints.
func (h *AnalyticsHandler) Predictions(c *fiber.Ctx) error {
	prediction, err := h.service.Predict(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": prediction})
}
