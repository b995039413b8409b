package dto

import (
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// SubmitComplaintRequest payload.
type SubmitComplaintRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Contact     string `json:"contact"`
	Language    string `json:"language"`
	PhotoURL    string `json:"photo_url"`
}

// SubmitComplaintResponse returns the new ticket id.
type SubmitComplaintResponse struct {
	TicketID string `json:"ticket_id"`
}

// AnalyzeImageRequest payload: base64-encoded image plus its mime type.
type AnalyzeImageRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// HistoryEntryResponse is one audit record.
type HistoryEntryResponse struct {
	Status    domain.ComplaintStatus `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Notes     string                 `json:"notes"`
	Actor     domain.Actor           `json:"actor"`
}

// ComplaintResponse provides full complaint info.
type ComplaintResponse struct {
	ID                       string                 `json:"id"`
	Category                 string                 `json:"category"`
	Description              string                 `json:"description"`
	Location                 string                 `json:"location"`
	Contact                  string                 `json:"contact"`
	Status                   domain.ComplaintStatus `json:"status"`
	SubmittedAt              time.Time              `json:"submitted_at"`
	ResolvedAt               *time.Time             `json:"resolved_at,omitempty"`
	PhotoBeforeURL           string                 `json:"photo_before_url,omitempty"`
	PhotoAfterURL            string                 `json:"photo_after_url,omitempty"`
	CitizenSatisfactionScore *int                   `json:"citizen_satisfaction_score,omitempty"`
	EscalationDept           string                 `json:"escalation_dept,omitempty"`
	AIPriority               domain.TriagePriority  `json:"ai_priority,omitempty"`
	AISummary                string                 `json:"ai_summary,omitempty"`
	AIJustification          string                 `json:"ai_justification,omitempty"`
	AIRelevanceFlag          domain.RelevanceFlag   `json:"ai_relevance_flag,omitempty"`
	AIActionRecommendation   string                 `json:"ai_action_recommendation,omitempty"`
	AIConfidence             int                    `json:"ai_confidence,omitempty"`
	IsDuplicateOf            string                 `json:"is_duplicate_of,omitempty"`
	History                  []HistoryEntryResponse `json:"history"`
}

// UpdateStatusRequest is the admin transition payload.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
	Notes  string                 `json:"notes"`
}

// ReassignDepartmentRequest payload.
type ReassignDepartmentRequest struct {
	Department string `json:"department"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Reason string `json:"reason"`
}

// CloseRequest payload with optional satisfaction score.
type CloseRequest struct {
	SatisfactionScore *int `json:"satisfaction_score,omitempty"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Score int `json:"score"`
}

// NotificationSettingsResponse mirrors the admin settings modal.
type NotificationSettingsResponse struct {
	NewComplaint bool `json:"new_complaint"`
	StatusChange bool `json:"status_change"`
	SLABreach    bool `json:"sla_breach"`
}

// FromComplaint maps the domain aggregate to its response shape.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	history := make([]HistoryEntryResponse, 0, len(c.History))
	for _, entry := range c.History {
		history = append(history, HistoryEntryResponse{
			Status:    entry.Status,
			Timestamp: entry.Timestamp,
			Notes:     entry.Notes,
			Actor:     entry.Actor,
		})
	}
	return ComplaintResponse{
		ID:                       c.ID,
		Category:                 c.Category,
		Description:              c.Description,
		Location:                 c.Location,
		Contact:                  c.Contact,
		Status:                   c.Status,
		SubmittedAt:              c.SubmittedAt,
		ResolvedAt:               c.ResolvedAt,
		PhotoBeforeURL:           c.PhotoBeforeURL,
		PhotoAfterURL:            c.PhotoAfterURL,
		CitizenSatisfactionScore: c.CitizenSatisfactionScore,
		EscalationDept:           c.EscalationDept,
		AIPriority:               c.AIPriority,
		AISummary:                c.AISummary,
		AIJustification:          c.AIJustification,
		AIRelevanceFlag:          c.AIRelevanceFlag,
		AIActionRecommendation:   c.AIActionRecommendation,
		AIConfidence:             c.AIConfidence,
		IsDuplicateOf:            c.IsDuplicateOf,
		History:                  history,
	}
}
