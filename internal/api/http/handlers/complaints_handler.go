package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/ratelimit"
	"github.com/civicdesk/complaint-service/internal/service"
	apperrors "github.com/civicdesk/complaint-service/pkg/util"
)

// minFormDescriptionLen is enforced on the submission form only. The chat
// path collects descriptions without a length floor; do not unify the two
// without product review.
const minFormDescriptionLen = 10

// ComplaintsHandler manages citizen-facing complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
	limiter *ratelimit.Limiter
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService, limiter *ratelimit.Limiter) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService, limiter: limiter}
}

// Submit POST /api/complaints.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(strings.TrimSpace(req.Description)) < minFormDescriptionLen {
		return apperrors.NewValidationError("description must be at least 10 characters", map[string]any{
			"description": "too short",
		})
	}
	if err := h.limiter.Allow(c.UserContext(), strings.TrimSpace(req.Contact)); err != nil {
		return err
	}

	complaint, err := h.service.Submit(c.UserContext(), service.SubmitInput{
		Category:       req.Category,
		Description:    req.Description,
		Location:       req.Location,
		Contact:        req.Contact,
		Language:       req.Language,
		PhotoBeforeURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitComplaintResponse{TicketID: complaint.ID}})
}

// AnalyzeImage POST /api/complaints/analyze-image pre-fills the form from a
// photo. Failures are recoverable; the citizen enters details manually.
func (h *ComplaintsHandler) AnalyzeImage(c *fiber.Ctx) error {
	var req dto.AnalyzeImageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil || len(image) == 0 {
		return apperrors.NewValidationError("image_base64 must be valid base64 image data", nil)
	}
	finding, err := h.service.AnalyzeImage(c.UserContext(), image, req.MimeType)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": finding})
}

// Track GET /api/complaints/:id.
func (h *ComplaintsHandler) Track(c *fiber.Ctx) error {
	complaint, err := h.service.Track(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	complaints, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.FromComplaint(&complaints[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Close POST /api/complaints/:id/close confirms resolution, optionally with a
// satisfaction score.
func (h *ComplaintsHandler) Close(c *fiber.Ctx) error {
	var req dto.CloseRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.ConfirmClosure(c.UserContext(), c.Params("id"), req.SatisfactionScore)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Reopen POST /api/complaints/:id/reopen.
func (h *ComplaintsHandler) Reopen(c *fiber.Ctx) error {
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.Reopen(c.UserContext(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Feedback POST /api/complaints/:id/feedback records a 1-5 score once.
func (h *ComplaintsHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.SubmitFeedback(c.UserContext(), c.Params("id"), req.Score)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}
