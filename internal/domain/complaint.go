package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusClosed     ComplaintStatus = "Closed"
	StatusReopened   ComplaintStatus = "Reopened"
	StatusDuplicate  ComplaintStatus = "Duplicate"

	// StatusSubmitted is a legacy alias for Pending still seen in old clients.
	StatusSubmitted ComplaintStatus = "Submitted"
)

// NormalizeStatus maps legacy aliases onto canonical statuses.
func NormalizeStatus(status ComplaintStatus) ComplaintStatus {
	if status == StatusSubmitted {
		return StatusPending
	}
	return status
}

// Actor identifies who triggered a lifecycle event.
type Actor string

const (
	ActorCitizen Actor = "Citizen"
	ActorAdmin   Actor = "Admin"
	ActorSystem  Actor = "System"
)

// HistoryEntry is an immutable audit record of one lifecycle transition or
// annotation event. The entry for a transition carries the destination status.
type HistoryEntry struct {
	Status    ComplaintStatus `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     string          `json:"notes"`
	Actor     Actor           `json:"actor"`
}

// Complaint is the aggregate for one citizen-filed issue. It is exclusively
// owned by the store; nothing outside the lifecycle operations mutates it.
type Complaint struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Contact     string          `json:"contact"`
	Language    string          `json:"language,omitempty"`
	Status      ComplaintStatus `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`

	PhotoBeforeURL string `json:"photo_before_url,omitempty"`
	PhotoAfterURL  string `json:"photo_after_url,omitempty"`

	CitizenSatisfactionScore *int `json:"citizen_satisfaction_score,omitempty"`

	// Triage annotations, set at submission time. Only the department is
	// mutable afterwards, via admin reassignment.
	EscalationDept         string         `json:"escalation_dept,omitempty"`
	AIPriority             TriagePriority `json:"ai_priority,omitempty"`
	AISummary              string         `json:"ai_summary,omitempty"`
	AIJustification        string         `json:"ai_justification,omitempty"`
	AIRelevanceFlag        RelevanceFlag  `json:"ai_relevance_flag,omitempty"`
	AIActionRecommendation string         `json:"ai_action_recommendation,omitempty"`
	AIConfidence           int            `json:"ai_confidence,omitempty"`

	// IsDuplicateOf back-references a prior complaint judged similar.
	// Lookup-only metadata; no detection algorithm runs here.
	IsDuplicateOf string `json:"is_duplicate_of,omitempty"`

	History []HistoryEntry `json:"history"`
}

// Clone deep-copies the complaint so snapshots handed to subscribers cannot
// alias store-owned state.
func (c *Complaint) Clone() *Complaint {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		cp.ResolvedAt = &t
	}
	if c.CitizenSatisfactionScore != nil {
		score := *c.CitizenSatisfactionScore
		cp.CitizenSatisfactionScore = &score
	}
	cp.History = make([]HistoryEntry, len(c.History))
	copy(cp.History, c.History)
	return &cp
}

// IsTerminal reports whether the complaint accepts further lifecycle
// transitions.
func (c *Complaint) IsTerminal() bool {
	return c.Status == StatusClosed || c.Status == StatusDuplicate
}

// IsOpen reports whether the complaint counts toward the open backlog.
func (c *Complaint) IsOpen() bool {
	switch c.Status {
	case StatusPending, StatusInProgress, StatusReopened:
		return true
	}
	return false
}
