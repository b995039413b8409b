package store

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/lifecycle"
	"github.com/civicdesk/complaint-service/pkg/util"
)

// memoryStore owns every complaint. All mutation happens under one lock, so
// transitions against the same ticket serialize and history order follows the
// sequence of calls the store observed, not wall-clock timestamps.
type memoryStore struct {
	mu          sync.RWMutex
	complaints  []*domain.Complaint
	byID        map[string]*domain.Complaint
	subscribers map[string]SubscribeFunc
	now         func() time.Time
}

// Option tweaks store construction.
type Option func(*memoryStore)

// WithClock substitutes the time source, used by tests and seeding.
func WithClock(now func() time.Time) Option {
	return func(s *memoryStore) {
		s.now = now
	}
}

// NewMemoryStore builds an empty in-memory complaint repository.
func NewMemoryStore(opts ...Option) ComplaintRepository {
	s := &memoryStore{
		byID:        make(map[string]*domain.Complaint),
		subscribers: make(map[string]SubscribeFunc),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memoryStore) Create(ctx context.Context, input CreateInput) (*domain.Complaint, error) {
	if strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, util.NewValidationError("category and description required", nil)
	}
	actor := input.Actor
	if actor == "" {
		actor = domain.ActorCitizen
	}

	s.mu.Lock()
	now := s.now()
	c := &domain.Complaint{
		ID:             s.nextTicketID(),
		Category:       strings.TrimSpace(input.Category),
		Description:    strings.TrimSpace(input.Description),
		Location:       strings.TrimSpace(input.Location),
		Contact:        strings.TrimSpace(input.Contact),
		Language:       input.Language,
		PhotoBeforeURL: input.PhotoBeforeURL,
		Status:         domain.StatusPending,
		SubmittedAt:    now,
		History:        lifecycle.NewComplaintHistory(actor, now),
	}
	if input.Triage != nil {
		applyTriage(c, *input.Triage)
	}
	// newest first, matching how the dashboard feed reads
	s.complaints = append([]*domain.Complaint{c}, s.complaints...)
	s.byID[strings.ToLower(c.ID)] = c
	snapshot := s.snapshotLocked()
	result := c.Clone()
	s.mu.Unlock()

	s.fanOut(snapshot)
	return result, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	s.mu.RLock()
	c, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	s.mu.RUnlock()
	if !ok {
		return nil, util.NewNotFound("complaint", map[string]any{"id": id})
	}
	return c.Clone(), nil
}

func (s *memoryStore) List(ctx context.Context) ([]domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *memoryStore) ApplyTransition(ctx context.Context, id string, req lifecycle.Request) (*domain.Complaint, error) {
	return s.mutate(id, func(c *domain.Complaint, now time.Time) error {
		return lifecycle.Apply(c, req, now)
	})
}

func (s *memoryStore) ReassignDepartment(ctx context.Context, id, dept string, actor domain.Actor) (*domain.Complaint, error) {
	return s.mutate(id, func(c *domain.Complaint, now time.Time) error {
		return lifecycle.ReassignDepartment(c, dept, actor, now)
	})
}

func (s *memoryStore) SubmitFeedback(ctx context.Context, id string, score int) (*domain.Complaint, error) {
	return s.mutate(id, func(c *domain.Complaint, now time.Time) error {
		return lifecycle.SetSatisfactionScore(c, score)
	})
}

func (s *memoryStore) AttachTriage(ctx context.Context, id string, result domain.TriageResult) (*domain.Complaint, error) {
	return s.mutate(id, func(c *domain.Complaint, now time.Time) error {
		applyTriage(c, result)
		return nil
	})
}

// Subscribe registers a snapshot listener and returns its removal func.
func (s *memoryStore) Subscribe(fn SubscribeFunc) UnsubscribeFunc {
	token := uuid.NewString()
	s.mu.Lock()
	s.subscribers[token] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, token)
		s.mu.Unlock()
	}
}

// mutate runs fn against the live complaint under the store lock and fans the
// resulting snapshot out when fn succeeds.
func (s *memoryStore) mutate(id string, fn func(*domain.Complaint, time.Time) error) (*domain.Complaint, error) {
	s.mu.Lock()
	c, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		s.mu.Unlock()
		return nil, util.NewNotFound("complaint", map[string]any{"id": id})
	}
	if err := fn(c, s.now()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := s.snapshotLocked()
	result := c.Clone()
	s.mu.Unlock()

	s.fanOut(snapshot)
	return result, nil
}

func (s *memoryStore) fanOut(snapshot Snapshot) {
	s.mu.RLock()
	fns := make([]SubscribeFunc, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (s *memoryStore) snapshotLocked() Snapshot {
	out := make(Snapshot, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, *c.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func (s *memoryStore) nextTicketID() string {
	for {
		id := fmt.Sprintf("TKT-%05d", 10000+rand.Intn(90000))
		if _, exists := s.byID[strings.ToLower(id)]; !exists {
			return id
		}
	}
}

func applyTriage(c *domain.Complaint, t domain.TriageResult) {
	c.EscalationDept = t.EscalationDept
	c.AIPriority = t.Priority
	c.AIJustification = t.Justification
	c.AISummary = t.Summary
	c.AIRelevanceFlag = t.RelevanceFlag
	c.AIActionRecommendation = t.ActionRecommendation
	c.AIConfidence = t.Confidence
}
