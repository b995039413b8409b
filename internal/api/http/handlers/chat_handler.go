package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/chat"
	apperrors "github.com/civicdesk/complaint-service/pkg/util"
)

// ChatHandler exposes the conversational intake widget over HTTP. Each
// endpoint returns the full session view so the client can re-render the
// transcript and action buttons after every turn.
type ChatHandler struct {
	manager *chat.Manager
}

// NewChatHandler constructs handler.
func NewChatHandler(manager *chat.Manager) *ChatHandler {
	return &ChatHandler{manager: manager}
}

// Open POST /api/chat/sessions.
func (h *ChatHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenChatSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session := h.manager.Open(req.Language)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromChatSession(session)})
}

// Get GET /api/chat/sessions/:id.
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	session, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromChatSession(session)})
}

// Message POST /api/chat/sessions/:id/messages sends a free-text user turn.
func (h *ChatHandler) Message(c *fiber.Ctx) error {
	session, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := session.HandleInput(c.UserContext(), req.Text); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromChatSession(session)})
}

// Action POST /api/chat/sessions/:id/actions presses one of the offered
// buttons (new complaint, track, confirm, cancel).
func (h *ChatHandler) Action(c *fiber.Ctx) error {
	session, err := h.manager.Get(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.ChatActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := session.HandleAction(c.UserContext(), req.Action); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromChatSession(session)})
}

// Delete DELETE /api/chat/sessions/:id tears the session down.
func (h *ChatHandler) Delete(c *fiber.Ctx) error {
	if err := h.manager.Close(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
