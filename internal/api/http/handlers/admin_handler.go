package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util"
)

// AdminHandler manages the dashboard endpoints behind the shared token.
type AdminHandler struct {
	service      *service.ComplaintService
	notification config.NotificationConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaintService *service.ComplaintService, notification config.NotificationConfig) *AdminHandler {
	return &AdminHandler{service: complaintService, notification: notification}
}

// UpdateStatus PATCH /api/admin/complaints/:id/status moves a complaint
// through the lifecycle table. Illegal transitions come back as 409.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target := domain.NormalizeStatus(req.Status)
	switch target {
	case domain.StatusPending, domain.StatusInProgress, domain.StatusResolved,
		domain.StatusClosed, domain.StatusReopened, domain.StatusDuplicate:
	default:
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(req.Status)})
	}
	complaint, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), target, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// ReassignDepartment PATCH /api/admin/complaints/:id/department.
func (h *AdminHandler) ReassignDepartment(c *fiber.Ctx) error {
	var req dto.ReassignDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.ReassignDepartment(c.UserContext(), c.Params("id"), req.Department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Dashboard GET /api/admin/dashboard returns the situation room headline stats.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.service.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// NotificationSettings GET /api/admin/notification-settings exposes the
// configured outbound notification toggles.
func (h *AdminHandler) NotificationSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NotificationSettingsResponse{
		NewComplaint: h.notification.OnNewComplaint,
		StatusChange: h.notification.OnStatusChange,
		SLABreach:    h.notification.OnSLABreach,
	}})
}
