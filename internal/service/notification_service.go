package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/events"
)

// NotificationService simulates the outbound SMS/email side-channel. It is
// fire-and-forget: a failed or disabled notification never blocks the
// lifecycle transition that triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventDepartmentReassigned, n.handleDepartmentReassigned)
	n.dispatcher.Subscribe(events.EventFeedbackReceived, n.handleFeedbackReceived)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	if !n.cfg.OnNewComplaint {
		return nil
	}
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Dear Citizen, your complaint #%s has been registered and is pending review.", event.TicketID)
	n.sendSMS(payload.Contact, event.TicketID, message)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	if !n.cfg.OnStatusChange {
		return nil
	}
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Dear Citizen, the status of your complaint #%s has been updated to %q. Note: %s",
		event.TicketID, payload.NewStatus, payload.Notes)
	n.sendSMS(payload.Contact, event.TicketID, message)
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) handleDepartmentReassigned(ctx context.Context, event events.Event) error {
	n.logger.Info("DepartmentReassigned", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) handleFeedbackReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("FeedbackReceived", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

// sendSMS is the SMS/email gateway simulation. Real delivery would go through
// a provider; the contract stays fire-and-forget either way.
func (n *NotificationService) sendSMS(contact, ticketID, message string) {
	n.logger.Info("notification sent",
		zap.String("type", "SMS/Email"),
		zap.String("sender_id", n.cfg.SenderID),
		zap.String("to", contact),
		zap.String("ticket_id", ticketID),
		zap.String("message", message))
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
