package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util"
)

func newComplaint(status domain.ComplaintStatus) *domain.Complaint {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c := &domain.Complaint{
		ID:          "TKT-11111",
		Category:    "Waste Management",
		Description: "Garbage not collected for three days.",
		Location:    "Ward 5",
		Contact:     "9876543210",
		Status:      domain.StatusPending,
		SubmittedAt: now,
		History:     NewComplaintHistory(domain.ActorCitizen, now),
	}
	// Walk the complaint to the requested status through real transitions so
	// each fixture carries a plausible history.
	steps := map[domain.ComplaintStatus][]Request{
		domain.StatusPending: nil,
		domain.StatusInProgress: {
			{Target: domain.StatusInProgress, Actor: domain.ActorAdmin},
		},
		domain.StatusResolved: {
			{Target: domain.StatusInProgress, Actor: domain.ActorAdmin},
			{Target: domain.StatusResolved, Actor: domain.ActorAdmin},
		},
		domain.StatusReopened: {
			{Target: domain.StatusInProgress, Actor: domain.ActorAdmin},
			{Target: domain.StatusResolved, Actor: domain.ActorAdmin},
			{Target: domain.StatusReopened, Actor: domain.ActorCitizen, Reason: "The issue has come back again."},
		},
		domain.StatusClosed: {
			{Target: domain.StatusInProgress, Actor: domain.ActorAdmin},
			{Target: domain.StatusResolved, Actor: domain.ActorAdmin},
			{Target: domain.StatusClosed, Actor: domain.ActorCitizen},
		},
	}
	for _, req := range steps[status] {
		if err := Apply(c, req, now.Add(time.Hour)); err != nil {
			panic(err)
		}
	}
	return c
}

func TestApplyTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ComplaintStatus
		req     Request
		allowed bool
	}{
		{"pending to in progress by admin", domain.StatusPending, Request{Target: domain.StatusInProgress, Actor: domain.ActorAdmin}, true},
		{"in progress to resolved by admin", domain.StatusInProgress, Request{Target: domain.StatusResolved, Actor: domain.ActorAdmin}, true},
		{"reopened to resolved by admin", domain.StatusReopened, Request{Target: domain.StatusResolved, Actor: domain.ActorAdmin}, true},
		{"resolved to closed by citizen", domain.StatusResolved, Request{Target: domain.StatusClosed, Actor: domain.ActorCitizen}, true},
		{"resolved to reopened by citizen", domain.StatusResolved, Request{Target: domain.StatusReopened, Actor: domain.ActorCitizen, Reason: "Still not actually fixed."}, true},

		{"pending to resolved skips in progress", domain.StatusPending, Request{Target: domain.StatusResolved, Actor: domain.ActorAdmin}, false},
		{"pending to closed", domain.StatusPending, Request{Target: domain.StatusClosed, Actor: domain.ActorCitizen}, false},
		{"in progress to closed", domain.StatusInProgress, Request{Target: domain.StatusClosed, Actor: domain.ActorCitizen}, false},
		{"in progress back to pending", domain.StatusInProgress, Request{Target: domain.StatusPending, Actor: domain.ActorAdmin}, false},
		{"closed is terminal", domain.StatusClosed, Request{Target: domain.StatusReopened, Actor: domain.ActorCitizen, Reason: "Want to reopen this one."}, false},
		{"resolved to duplicate", domain.StatusResolved, Request{Target: domain.StatusDuplicate, Actor: domain.ActorAdmin}, false},

		{"citizen cannot start work", domain.StatusPending, Request{Target: domain.StatusInProgress, Actor: domain.ActorCitizen}, false},
		{"citizen cannot resolve", domain.StatusInProgress, Request{Target: domain.StatusResolved, Actor: domain.ActorCitizen}, false},
		{"admin cannot close", domain.StatusResolved, Request{Target: domain.StatusClosed, Actor: domain.ActorAdmin}, false},
		{"admin cannot reopen", domain.StatusResolved, Request{Target: domain.StatusReopened, Actor: domain.ActorAdmin, Reason: "Crew reports issue persists."}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newComplaint(tt.from)
			historyLen := len(c.History)

			err := Apply(c, tt.req, time.Now())
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.req.Target, c.Status)
				require.Len(t, c.History, historyLen+1)
				tail := c.History[len(c.History)-1]
				assert.Equal(t, tt.req.Target, tail.Status)
				assert.Equal(t, tt.req.Actor, tail.Actor)
			} else {
				require.Error(t, err)
				assert.True(t, util.IsCode(err, "TRANSITION_NOT_ALLOWED"), "got %v", err)
				assert.Equal(t, tt.from, c.Status, "rejected transition must not mutate status")
				assert.Len(t, c.History, historyLen, "rejected transition must not append history")
			}
		})
	}
}

func TestApplyDuplicateReceivesNoTransitions(t *testing.T) {
	c := newComplaint(domain.StatusPending)
	require.NoError(t, MarkDuplicate(c, "TKT-98755", time.Now()))
	assert.Equal(t, domain.StatusDuplicate, c.Status)
	assert.Equal(t, "TKT-98755", c.IsDuplicateOf)
	assert.True(t, c.IsTerminal())

	err := Apply(c, Request{Target: domain.StatusInProgress, Actor: domain.ActorAdmin}, time.Now())
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "TRANSITION_NOT_ALLOWED"))
}

func TestMarkDuplicateOnlyFromPending(t *testing.T) {
	c := newComplaint(domain.StatusInProgress)
	err := MarkDuplicate(c, "TKT-98755", time.Now())
	require.Error(t, err)
	assert.Equal(t, domain.StatusInProgress, c.Status)
	assert.Empty(t, c.IsDuplicateOf)
}

func TestResolvedAtBookkeeping(t *testing.T) {
	c := newComplaint(domain.StatusInProgress)
	require.Nil(t, c.ResolvedAt)

	resolvedAt := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, Apply(c, Request{Target: domain.StatusResolved, Actor: domain.ActorAdmin}, resolvedAt))
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, resolvedAt, *c.ResolvedAt)

	require.NoError(t, Apply(c, Request{
		Target: domain.StatusReopened,
		Actor:  domain.ActorCitizen,
		Reason: "The pothole reappeared after the rain.",
	}, resolvedAt.Add(time.Hour)))
	assert.Nil(t, c.ResolvedAt, "reopening must clear resolvedAt")

	again := resolvedAt.Add(48 * time.Hour)
	require.NoError(t, Apply(c, Request{Target: domain.StatusResolved, Actor: domain.ActorAdmin}, again))
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, again, *c.ResolvedAt)
}

func TestReopenReasonBoundary(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"nine chars rejected", "123456789", false},
		{"ten chars accepted", "1234567890", true},
		{"whitespace does not count", "        12", false},
		{"padded reason trimmed to ten", "  1234567890  ", true},
		{"empty rejected", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newComplaint(domain.StatusResolved)
			err := Apply(c, Request{Target: domain.StatusReopened, Actor: domain.ActorCitizen, Reason: tt.reason}, time.Now())
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, domain.StatusReopened, c.Status)
			} else {
				require.Error(t, err)
				assert.True(t, util.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
				assert.Equal(t, domain.StatusResolved, c.Status)
			}
		})
	}
}

func TestSatisfactionScoreWriteOnce(t *testing.T) {
	c := newComplaint(domain.StatusResolved)

	require.Error(t, SetSatisfactionScore(c, 0))
	require.Error(t, SetSatisfactionScore(c, 6))
	require.Nil(t, c.CitizenSatisfactionScore)

	require.NoError(t, SetSatisfactionScore(c, 4))
	require.NotNil(t, c.CitizenSatisfactionScore)
	assert.Equal(t, 4, *c.CitizenSatisfactionScore)

	err := SetSatisfactionScore(c, 5)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "CONFLICT"))
	assert.Equal(t, 4, *c.CitizenSatisfactionScore, "first score must survive")
}

func TestCloseWithScoreAppliesBeforeTransition(t *testing.T) {
	c := newComplaint(domain.StatusResolved)
	score := 5
	require.NoError(t, Apply(c, Request{Target: domain.StatusClosed, Actor: domain.ActorCitizen, SatisfactionScore: &score}, time.Now()))
	assert.Equal(t, domain.StatusClosed, c.Status)
	require.NotNil(t, c.CitizenSatisfactionScore)
	assert.Equal(t, 5, *c.CitizenSatisfactionScore)
}

func TestCloseWithInvalidScoreLeavesComplaintUntouched(t *testing.T) {
	c := newComplaint(domain.StatusResolved)
	historyLen := len(c.History)
	score := 9
	err := Apply(c, Request{Target: domain.StatusClosed, Actor: domain.ActorCitizen, SatisfactionScore: &score}, time.Now())
	require.Error(t, err)
	assert.Equal(t, domain.StatusResolved, c.Status)
	assert.Len(t, c.History, historyLen)
	assert.Nil(t, c.CitizenSatisfactionScore)
}

func TestReassignDepartmentIsMetadataOnly(t *testing.T) {
	c := newComplaint(domain.StatusInProgress)
	c.EscalationDept = "Sanitation Dept."
	historyLen := len(c.History)

	require.NoError(t, ReassignDepartment(c, "Water Board", domain.ActorAdmin, time.Now()))
	assert.Equal(t, "Water Board", c.EscalationDept)
	assert.Equal(t, domain.StatusInProgress, c.Status, "reassignment never moves the lifecycle")

	require.Len(t, c.History, historyLen+1)
	tail := c.History[len(c.History)-1]
	assert.Equal(t, domain.StatusInProgress, tail.Status, "history note carries the current status")
	assert.Contains(t, tail.Notes, "Sanitation Dept.")
	assert.Contains(t, tail.Notes, "Water Board")
}

func TestReassignDepartmentRejectsUnknown(t *testing.T) {
	c := newComplaint(domain.StatusPending)
	c.EscalationDept = "Sanitation Dept."
	err := ReassignDepartment(c, "Ministry of Magic", domain.ActorAdmin, time.Now())
	require.Error(t, err)
	assert.Equal(t, "Sanitation Dept.", c.EscalationDept)
}

func TestLegacySubmittedAliasNormalizes(t *testing.T) {
	c := newComplaint(domain.StatusPending)
	c.Status = domain.StatusSubmitted

	require.NoError(t, Apply(c, Request{Target: domain.StatusInProgress, Actor: domain.ActorAdmin}, time.Now()))
	assert.Equal(t, domain.StatusInProgress, c.Status)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.StatusPending, domain.StatusInProgress))
	assert.True(t, CanTransition(domain.StatusResolved, domain.StatusReopened))
	assert.False(t, CanTransition(domain.StatusClosed, domain.StatusReopened))
	assert.False(t, CanTransition(domain.StatusDuplicate, domain.StatusInProgress))
	assert.True(t, CanTransition(domain.StatusSubmitted, domain.StatusInProgress), "legacy alias behaves as Pending")
}
