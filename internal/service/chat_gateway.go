package service

import (
	"context"

	"github.com/civicdesk/complaint-service/internal/chat"
	"github.com/civicdesk/complaint-service/internal/domain"
)

// ChatGateway adapts the complaint service to the chat widget's contract.
// The chat path intentionally skips the form's description-length guard.
type ChatGateway struct {
	complaints *ComplaintService
}

// NewChatGateway wraps the complaint service for chat sessions.
func NewChatGateway(complaints *ComplaintService) *ChatGateway {
	return &ChatGateway{complaints: complaints}
}

// SubmitComplaint implements chat.Gateway.
func (g *ChatGateway) SubmitComplaint(ctx context.Context, draft chat.Draft, language string) (string, error) {
	complaint, err := g.complaints.Submit(ctx, SubmitInput{
		Category:    draft.Category,
		Description: draft.Description,
		Location:    draft.Location,
		Contact:     draft.Contact,
		Language:    language,
	})
	if err != nil {
		return "", err
	}
	return complaint.ID, nil
}

// ComplaintStatus implements chat.Gateway.
func (g *ChatGateway) ComplaintStatus(ctx context.Context, ticketID string) (domain.ComplaintStatus, bool) {
	complaint, err := g.complaints.Track(ctx, ticketID)
	if err != nil {
		return "", false
	}
	return complaint.Status, true
}
