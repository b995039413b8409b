// Package lifecycle holds the complaint status state machine. The transition
// table is the single authority on which moves are legal; an illegal request
// is one rejected lookup instead of an unguarded fallthrough.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util"
)

// MinReopenReasonLen is the minimum trimmed length of a reopen reason.
const MinReopenReasonLen = 10

type transitionKey struct {
	from domain.ComplaintStatus
	to   domain.ComplaintStatus
}

type transitionRule struct {
	actor domain.Actor
}

// transitions enumerates every legal lifecycle move and who may trigger it.
// Duplicate is a triage-time annotation, not a user-driven transition, so it
// never appears as a destination here.
var transitions = map[transitionKey]transitionRule{
	{domain.StatusPending, domain.StatusInProgress}:  {actor: domain.ActorAdmin},
	{domain.StatusInProgress, domain.StatusResolved}: {actor: domain.ActorAdmin},
	{domain.StatusReopened, domain.StatusResolved}:   {actor: domain.ActorAdmin},
	{domain.StatusResolved, domain.StatusClosed}:     {actor: domain.ActorCitizen},
	{domain.StatusResolved, domain.StatusReopened}:   {actor: domain.ActorCitizen},
}

// CanTransition reports whether moving from one status to another is legal,
// regardless of actor.
func CanTransition(from, to domain.ComplaintStatus) bool {
	_, ok := transitions[transitionKey{domain.NormalizeStatus(from), domain.NormalizeStatus(to)}]
	return ok
}

// Request describes one attempted transition.
type Request struct {
	Target domain.ComplaintStatus
	Actor  domain.Actor
	Notes  string

	// Reason is required when Target is Reopened.
	Reason string

	// SatisfactionScore optionally accompanies Resolved -> Closed.
	SatisfactionScore *int
}

// Apply validates the request against the transition table and, when legal,
// mutates the complaint: status, resolvedAt bookkeeping, satisfaction score,
// and exactly one appended history entry carrying the destination status and
// the triggering actor. On any validation failure the complaint is untouched.
func Apply(c *domain.Complaint, req Request, now time.Time) error {
	target := domain.NormalizeStatus(req.Target)
	current := domain.NormalizeStatus(c.Status)

	if c.Status == domain.StatusDuplicate {
		return util.NewTransitionError("complaint is marked duplicate and receives no further transitions", map[string]any{
			"id": c.ID, "duplicate_of": c.IsDuplicateOf,
		})
	}

	rule, ok := transitions[transitionKey{current, target}]
	if !ok {
		return util.NewTransitionError(
			fmt.Sprintf("cannot move complaint from %q to %q", current, target),
			map[string]any{"id": c.ID, "from": current, "to": target},
		)
	}
	if req.Actor != rule.actor {
		return util.NewTransitionError(
			fmt.Sprintf("transition %q -> %q requires actor %q", current, target, rule.actor),
			map[string]any{"id": c.ID, "actor": req.Actor},
		)
	}

	notes := strings.TrimSpace(req.Notes)

	switch target {
	case domain.StatusReopened:
		reason := strings.TrimSpace(req.Reason)
		if len(reason) < MinReopenReasonLen {
			return util.NewValidationError(
				fmt.Sprintf("reopen reason must be at least %d characters", MinReopenReasonLen),
				map[string]any{"id": c.ID, "reason_length": len(reason)},
			)
		}
		if notes == "" {
			notes = "Reopened by citizen: " + reason
		}
		c.ResolvedAt = nil
	case domain.StatusResolved:
		t := now
		c.ResolvedAt = &t
		if notes == "" {
			notes = "Marked resolved by admin."
		}
	case domain.StatusClosed:
		if req.SatisfactionScore != nil {
			if err := SetSatisfactionScore(c, *req.SatisfactionScore); err != nil {
				return err
			}
		}
		if notes == "" {
			notes = "Closed after citizen confirmation."
		}
	case domain.StatusInProgress:
		if notes == "" {
			notes = "Work started by admin."
		}
	}

	c.Status = target
	c.History = append(c.History, domain.HistoryEntry{
		Status:    target,
		Timestamp: now,
		Notes:     notes,
		Actor:     req.Actor,
	})
	return nil
}

// SetSatisfactionScore records a 1-5 rating exactly once. A second write is
// rejected here so the invariant is authoritative, not just hidden UI.
func SetSatisfactionScore(c *domain.Complaint, score int) error {
	if score < 1 || score > 5 {
		return util.NewValidationError("satisfaction score must be between 1 and 5", map[string]any{
			"id": c.ID, "score": score,
		})
	}
	if c.CitizenSatisfactionScore != nil {
		return util.NewConflict("satisfaction score already recorded", map[string]any{
			"id": c.ID, "score": *c.CitizenSatisfactionScore,
		})
	}
	c.CitizenSatisfactionScore = &score
	return nil
}

// ReassignDepartment mutates the escalation department only. It is a metadata
// change: the appended history note carries the complaint's current status and
// never moves the lifecycle.
func ReassignDepartment(c *domain.Complaint, dept string, actor domain.Actor, now time.Time) error {
	if !domain.ValidDepartment(dept) {
		return util.NewValidationError("unknown escalation department", map[string]any{
			"id": c.ID, "department": dept,
		})
	}
	previous := c.EscalationDept
	c.EscalationDept = dept
	c.History = append(c.History, domain.HistoryEntry{
		Status:    c.Status,
		Timestamp: now,
		Notes:     fmt.Sprintf("Reassigned from %q to %q.", previous, dept),
		Actor:     actor,
	})
	return nil
}

// MarkDuplicate annotates a Pending complaint as a duplicate of a prior
// ticket. Reachable only at creation/triage time; afterwards the complaint
// receives no further automated lifecycle transitions.
func MarkDuplicate(c *domain.Complaint, duplicateOf string, now time.Time) error {
	if domain.NormalizeStatus(c.Status) != domain.StatusPending {
		return util.NewTransitionError("only pending complaints can be marked duplicate", map[string]any{
			"id": c.ID, "status": c.Status,
		})
	}
	c.IsDuplicateOf = duplicateOf
	c.Status = domain.StatusDuplicate
	c.History = append(c.History, domain.HistoryEntry{
		Status:    domain.StatusDuplicate,
		Timestamp: now,
		Notes:     fmt.Sprintf("Flagged as duplicate of %s during triage.", duplicateOf),
		Actor:     domain.ActorSystem,
	})
	return nil
}

// NewComplaintHistory builds the mandatory creation entry.
func NewComplaintHistory(actor domain.Actor, now time.Time) []domain.HistoryEntry {
	return []domain.HistoryEntry{{
		Status:    domain.StatusPending,
		Timestamp: now,
		Notes:     "Complaint submitted by citizen and is pending review.",
		Actor:     actor,
	}}
}
