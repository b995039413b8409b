package store

import (
	"context"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
)

// Snapshot is the full current state pushed to subscribers after every
// mutation. At portal scale a full snapshot beats delta bookkeeping; large
// volumes would need pagination or deltas instead.
type Snapshot []domain.Complaint

// SubscribeFunc receives a snapshot on each store mutation.
type SubscribeFunc func(Snapshot)

// UnsubscribeFunc removes a previously registered subscriber.
type UnsubscribeFunc func()

// CreateInput carries the citizen-supplied fields plus optional triage
// annotations for a new complaint.
type CreateInput struct {
	Category       string
	Description    string
	Location       string
	Contact        string
	Language       string
	PhotoBeforeURL string
	Actor          domain.Actor
	Triage         *domain.TriageResult
}

// ComplaintRepository is the persistence boundary. The in-memory store is the
// single authoritative implementation; a real persistence layer would slot in
// behind the same interface.
type ComplaintRepository interface {
	Create(ctx context.Context, input CreateInput) (*domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context) ([]domain.Complaint, error)
	ApplyTransition(ctx context.Context, id string, req lifecycle.Request) (*domain.Complaint, error)
	ReassignDepartment(ctx context.Context, id, dept string, actor domain.Actor) (*domain.Complaint, error)
	SubmitFeedback(ctx context.Context, id string, score int) (*domain.Complaint, error)
	AttachTriage(ctx context.Context, id string, result domain.TriageResult) (*domain.Complaint, error)
	Subscribe(fn SubscribeFunc) UnsubscribeFunc
}
