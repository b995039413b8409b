package events

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated      EventType = "complaint_created"
	EventStatusChanged         EventType = "complaint_status_changed"
	EventDepartmentReassigned  EventType = "complaint_department_reassigned"
	EventFeedbackReceived      EventType = "complaint_feedback_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Category       string                `json:"category"`
	Location       string                `json:"location"`
	Contact        string                `json:"contact"`
	EscalationDept string                `json:"escalation_dept,omitempty"`
	Priority       domain.TriagePriority `json:"priority,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Notes     string                 `json:"notes,omitempty"`
	Contact   string                 `json:"contact"`
}

// DepartmentReassignedPayload payload.
type DepartmentReassignedPayload struct {
	OldDepartment string `json:"old_department"`
	NewDepartment string `json:"new_department"`
}

// FeedbackReceivedPayload payload.
type FeedbackReceivedPayload struct {
	Score int `json:"score"`
}
