package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	"github.com/civicdesk/complaint-service/internal/store"
	"github.com/civicdesk/complaint-service/internal/triage"
	"github.com/civicdesk/complaint-service/pkg/util"
)

var contactPattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	repo       store.ComplaintRepository
	analyzer   triage.Analyzer
	dispatcher events.Dispatcher
	logger     *zap.Logger

	// triageBlocking mirrors the portal: submission fails when triage fails.
	// When false, triage runs best-effort after the complaint is persisted.
	triageBlocking bool
	slaThreshold   time.Duration
	now            func() time.Time
}

// Dependencies bundles collaborators for the complaint service.
type Dependencies struct {
	Repo           store.ComplaintRepository
	Analyzer       triage.Analyzer
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	TriageBlocking bool
	SLAThreshold   time.Duration
}

// NewComplaintService constructs the service.
func NewComplaintService(deps Dependencies) *ComplaintService {
	return &ComplaintService{
		repo:           deps.Repo,
		analyzer:       deps.Analyzer,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		triageBlocking: deps.TriageBlocking,
		slaThreshold:   deps.SLAThreshold,
		now:            time.Now,
	}
}

// SubmitInput describes a complaint submission payload.
type SubmitInput struct {
	Category       string
	Description    string
	Location       string
	Contact        string
	Language       string
	PhotoBeforeURL string
}

// Validate applies the guards shared by every submission path. The form
// additionally requires description length >= 10; the chat path deliberately
// does not, so that check lives at the form boundary.
func (in SubmitInput) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.Category) == "" {
		details["category"] = "required"
	}
	if strings.TrimSpace(in.Description) == "" {
		details["description"] = "required"
	}
	if strings.TrimSpace(in.Location) == "" {
		details["location"] = "required"
	}
	if !contactPattern.MatchString(strings.TrimSpace(in.Contact)) {
		details["contact"] = "must be a 10-digit mobile number starting with 6-9"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid complaint submission", details)
	}
	return nil
}

// Submit creates a complaint in Pending state. With blocking triage the
// annotations gate creation; otherwise the complaint persists immediately and
// triage attaches when (and if) the model answers.
func (s *ComplaintService) Submit(ctx context.Context, input SubmitInput) (*domain.Complaint, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	createInput := store.CreateInput{
		Category:       input.Category,
		Description:    input.Description,
		Location:       input.Location,
		Contact:        input.Contact,
		Language:       input.Language,
		PhotoBeforeURL: input.PhotoBeforeURL,
		Actor:          domain.ActorCitizen,
	}

	if s.triageBlocking {
		result, err := s.analyzer.AnalyzeComplaint(ctx, input.Category, input.Description)
		if err != nil {
			return nil, err
		}
		createInput.Triage = &result
	}

	complaint, err := s.repo.Create(ctx, createInput)
	if err != nil {
		return nil, err
	}

	if !s.triageBlocking {
		go s.attachTriageAsync(complaint.ID, input.Category, input.Description)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventComplaintCreated,
		TicketID: complaint.ID,
		Actor:    domain.ActorCitizen,
		Payload: events.ComplaintCreatedPayload{
			Category:       complaint.Category,
			Location:       complaint.Location,
			Contact:        complaint.Contact,
			EscalationDept: complaint.EscalationDept,
			Priority:       complaint.AIPriority,
		},
	})
	return complaint, nil
}

func (s *ComplaintService) attachTriageAsync(ticketID, category, description string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	result, err := s.analyzer.AnalyzeComplaint(ctx, category, description)
	if err != nil {
		s.logger.Warn("best-effort triage failed, complaint left unannotated",
			zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	if _, err := s.repo.AttachTriage(ctx, ticketID, result); err != nil {
		s.logger.Warn("failed to attach triage result", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

// AnalyzeImage classifies an uploaded photo into a complaint draft. Failures
// are recoverable; the citizen falls back to manual entry.
func (s *ComplaintService) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ImageFinding, error) {
	return s.analyzer.AnalyzeImage(ctx, image, mimeType)
}

// Track fetches a complaint by ticket id (case-insensitive).
func (s *ComplaintService) Track(ctx context.Context, ticketID string) (*domain.Complaint, error) {
	return s.repo.GetByID(ctx, ticketID)
}

// List returns all complaints, newest first.
func (s *ComplaintService) List(ctx context.Context) ([]domain.Complaint, error) {
	return s.repo.List(ctx)
}

// StartWork moves a Pending complaint to In Progress.
func (s *ComplaintService) StartWork(ctx context.Context, ticketID, notes string) (*domain.Complaint, error) {
	return s.transition(ctx, ticketID, lifecycle.Request{
		Target: domain.StatusInProgress,
		Actor:  domain.ActorAdmin,
		Notes:  notes,
	})
}

// MarkResolved moves an In Progress or Reopened complaint to Resolved.
func (s *ComplaintService) MarkResolved(ctx context.Context, ticketID, notes string) (*domain.Complaint, error) {
	return s.transition(ctx, ticketID, lifecycle.Request{
		Target: domain.StatusResolved,
		Actor:  domain.ActorAdmin,
		Notes:  notes,
	})
}

// ConfirmClosure closes a Resolved complaint on citizen confirmation, with an
// optional one-time satisfaction score.
func (s *ComplaintService) ConfirmClosure(ctx context.Context, ticketID string, score *int) (*domain.Complaint, error) {
	return s.transition(ctx, ticketID, lifecycle.Request{
		Target:            domain.StatusClosed,
		Actor:             domain.ActorCitizen,
		SatisfactionScore: score,
	})
}

// Reopen returns a Resolved complaint to the queue with the citizen's reason.
func (s *ComplaintService) Reopen(ctx context.Context, ticketID, reason string) (*domain.Complaint, error) {
	return s.transition(ctx, ticketID, lifecycle.Request{
		Target: domain.StatusReopened,
		Actor:  domain.ActorCitizen,
		Reason: reason,
	})
}

// UpdateStatus applies an arbitrary admin-requested status change through the
// transition table.
func (s *ComplaintService) UpdateStatus(ctx context.Context, ticketID string, target domain.ComplaintStatus, notes string) (*domain.Complaint, error) {
	return s.transition(ctx, ticketID, lifecycle.Request{
		Target: target,
		Actor:  domain.ActorAdmin,
		Notes:  notes,
	})
}

func (s *ComplaintService) transition(ctx context.Context, ticketID string, req lifecycle.Request) (*domain.Complaint, error) {
	before, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	complaint, err := s.repo.ApplyTransition(ctx, ticketID, req)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventStatusChanged,
		TicketID: complaint.ID,
		Actor:    req.Actor,
		Payload: events.StatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: complaint.Status,
			Notes:     complaint.History[len(complaint.History)-1].Notes,
			Contact:   complaint.Contact,
		},
	})
	return complaint, nil
}

// ReassignDepartment mutates the escalation department. Metadata only, never
// a lifecycle transition.
func (s *ComplaintService) ReassignDepartment(ctx context.Context, ticketID, dept string) (*domain.Complaint, error) {
	before, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	complaint, err := s.repo.ReassignDepartment(ctx, ticketID, dept, domain.ActorAdmin)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventDepartmentReassigned,
		TicketID: complaint.ID,
		Actor:    domain.ActorAdmin,
		Payload: events.DepartmentReassignedPayload{
			OldDepartment: before.EscalationDept,
			NewDepartment: complaint.EscalationDept,
		},
	})
	return complaint, nil
}

// SubmitFeedback records the citizen's 1-5 rating without closing the ticket.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, ticketID string, score int) (*domain.Complaint, error) {
	complaint, err := s.repo.SubmitFeedback(ctx, ticketID, score)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventFeedbackReceived,
		TicketID: complaint.ID,
		Actor:    domain.ActorCitizen,
		Payload:  events.FeedbackReceivedPayload{Score: score},
	})
	return complaint, nil
}

// Subscribe exposes the store's snapshot feed.
func (s *ComplaintService) Subscribe(fn store.SubscribeFunc) store.UnsubscribeFunc {
	return s.repo.Subscribe(fn)
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
