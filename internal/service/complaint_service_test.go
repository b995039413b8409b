package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/store"
	"github.com/civicdesk/complaint-service/pkg/util"
)

// recordingDispatcher captures published events synchronously.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// stubAnalyzer returns a fixed result or error.
type stubAnalyzer struct {
	mu      sync.Mutex
	result  domain.TriageResult
	err     error
	calls   int
	imgErr  error
	finding domain.ImageFinding
}

func (a *stubAnalyzer) AnalyzeComplaint(ctx context.Context, category, description string) (domain.TriageResult, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return a.result, a.err
}

func (a *stubAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ImageFinding, error) {
	return a.finding, a.imgErr
}

func (a *stubAnalyzer) PredictCityRisks(ctx context.Context, recent []domain.Complaint) (domain.PredictionData, error) {
	return domain.PredictionData{CityWideRisk: domain.RiskMedium}, nil
}

func triageFixture() domain.TriageResult {
	return domain.TriageResult{
		EscalationDept:       "Sanitation Dept.",
		Priority:             domain.PriorityHigh,
		Justification:        "Health hazard keywords detected.",
		Summary:              "Garbage uncollected for days.",
		RelevanceFlag:        domain.RelevanceActionable,
		ActionRecommendation: "Dispatch a crew.",
		Confidence:           91,
	}
}

func submitFixture() SubmitInput {
	return SubmitInput{
		Category:    "Waste Management",
		Description: "Garbage not collected for three days in our lane.",
		Location:    "Ward 5",
		Contact:     "9876543210",
	}
}

func newTestService(t *testing.T, analyzer *stubAnalyzer, blocking bool) (*ComplaintService, *recordingDispatcher) {
	t.Helper()
	dispatcher := &recordingDispatcher{}
	svc := NewComplaintService(Dependencies{
		Repo:           store.NewMemoryStore(),
		Analyzer:       analyzer,
		Dispatcher:     dispatcher,
		Logger:         zap.NewNop(),
		TriageBlocking: blocking,
		SLAThreshold:   72 * time.Hour,
	})
	return svc, dispatcher
}

func TestSubmitBlockingTriageAnnotatesComplaint(t *testing.T) {
	analyzer := &stubAnalyzer{result: triageFixture()}
	svc, dispatcher := newTestService(t, analyzer, true)

	c, err := svc.Submit(context.Background(), submitFixture())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, c.Status)
	assert.Equal(t, "Sanitation Dept.", c.EscalationDept)
	assert.Equal(t, domain.PriorityHigh, c.AIPriority)

	created := dispatcher.byType(events.EventComplaintCreated)
	require.Len(t, created, 1)
	assert.Equal(t, c.ID, created[0].TicketID)
	assert.NotEmpty(t, created[0].ID)
	assert.False(t, created[0].Timestamp.IsZero())
}

func TestSubmitBlockingTriageFailureBlocksCreation(t *testing.T) {
	analyzer := &stubAnalyzer{err: util.NewAnalysisError("model unavailable", nil)}
	svc, dispatcher := newTestService(t, analyzer, true)

	_, err := svc.Submit(context.Background(), submitFixture())
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "ANALYSIS_FAILED"))

	list, listErr := svc.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, list, "failed blocking triage must not persist the complaint")
	assert.Empty(t, dispatcher.byType(events.EventComplaintCreated))
}

func TestSubmitNonBlockingPersistsBeforeTriage(t *testing.T) {
	analyzer := &stubAnalyzer{result: triageFixture()}
	svc, _ := newTestService(t, analyzer, false)

	c, err := svc.Submit(context.Background(), submitFixture())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, c.Status)

	// Triage attaches in the background.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		got, err := svc.Track(context.Background(), c.ID)
		require.NoError(t, err)
		if got.EscalationDept != "" {
			assert.Equal(t, "Sanitation Dept.", got.EscalationDept)
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("triage annotations never attached")
}

func TestSubmitNonBlockingSurvivesTriageFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: util.NewAnalysisError("model unavailable", nil)}
	svc, _ := newTestService(t, analyzer, false)

	c, err := svc.Submit(context.Background(), submitFixture())
	require.NoError(t, err)

	got, err := svc.Track(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Empty(t, got.EscalationDept)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing category", func(in *SubmitInput) { in.Category = " " }},
		{"missing description", func(in *SubmitInput) { in.Description = "" }},
		{"missing location", func(in *SubmitInput) { in.Location = "" }},
		{"bad contact prefix", func(in *SubmitInput) { in.Contact = "5876543210" }},
		{"short contact", func(in *SubmitInput) { in.Contact = "987654321" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
			input := submitFixture()
			tt.mutate(&input)
			_, err := svc.Submit(context.Background(), input)
			require.Error(t, err)
			assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestLifecycleOperationsPublishStatusChanges(t *testing.T) {
	svc, dispatcher := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	c, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)

	_, err = svc.StartWork(ctx, c.ID, "Crew assigned.")
	require.NoError(t, err)
	resolved, err := svc.MarkResolved(ctx, c.ID, "")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)

	score := 4
	closed, err := svc.ConfirmClosure(ctx, c.ID, &score)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	require.NotNil(t, closed.CitizenSatisfactionScore)
	assert.Equal(t, 4, *closed.CitizenSatisfactionScore)

	changes := dispatcher.byType(events.EventStatusChanged)
	require.Len(t, changes, 3)
	first, ok := changes[0].Payload.(events.StatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPending, first.OldStatus)
	assert.Equal(t, domain.StatusInProgress, first.NewStatus)
	assert.Equal(t, "9876543210", first.Contact)
}

func TestReopenFlow(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	c, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)
	_, err = svc.StartWork(ctx, c.ID, "")
	require.NoError(t, err)
	_, err = svc.MarkResolved(ctx, c.ID, "")
	require.NoError(t, err)

	_, err = svc.Reopen(ctx, c.ID, "too short")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "VALIDATION_FAILED"))

	reopened, err := svc.Reopen(ctx, c.ID, "The garbage pile is back within a day.")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReopened, reopened.Status)
	assert.Nil(t, reopened.ResolvedAt)
}

func TestReassignDepartmentPublishesEvent(t *testing.T) {
	svc, dispatcher := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	c, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)

	updated, err := svc.ReassignDepartment(ctx, c.ID, "Water Board")
	require.NoError(t, err)
	assert.Equal(t, "Water Board", updated.EscalationDept)
	assert.Equal(t, c.Status, updated.Status)

	reassigned := dispatcher.byType(events.EventDepartmentReassigned)
	require.Len(t, reassigned, 1)
	payload, ok := reassigned[0].Payload.(events.DepartmentReassignedPayload)
	require.True(t, ok)
	assert.Equal(t, "Sanitation Dept.", payload.OldDepartment)
	assert.Equal(t, "Water Board", payload.NewDepartment)
}

func TestSubmitFeedbackWriteOnce(t *testing.T) {
	svc, dispatcher := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	c, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)

	updated, err := svc.SubmitFeedback(ctx, c.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, updated.CitizenSatisfactionScore)
	assert.Equal(t, 5, *updated.CitizenSatisfactionScore)
	require.Len(t, dispatcher.byType(events.EventFeedbackReceived), 1)

	_, err = svc.SubmitFeedback(ctx, c.ID, 1)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "CONFLICT"))
	assert.Len(t, dispatcher.byType(events.EventFeedbackReceived), 1)
}

func TestDashboardStats(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	open, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)
	_, err = svc.StartWork(ctx, open.ID, "")
	require.NoError(t, err)

	other, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)
	_, err = svc.StartWork(ctx, other.ID, "")
	require.NoError(t, err)
	_, err = svc.MarkResolved(ctx, other.ID, "")
	require.NoError(t, err)

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 0, stats.SLABreaches, "fresh complaints are inside SLA")

	// Age the clock past the threshold; the still-open complaint breaches.
	svc.now = func() time.Time { return time.Now().Add(100 * time.Hour) }
	stats, err = svc.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SLABreaches)
}

func TestAnalyticsStats(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: triageFixture()}, true)
	ctx := context.Background()

	c, err := svc.Submit(ctx, submitFixture())
	require.NoError(t, err)
	_, err = svc.StartWork(ctx, c.ID, "")
	require.NoError(t, err)
	_, err = svc.MarkResolved(ctx, c.ID, "")
	require.NoError(t, err)
	score := 5
	_, err = svc.ConfirmClosure(ctx, c.ID, &score)
	require.NoError(t, err)

	stats, err := svc.AnalyticsStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ProcessedLast30Days)
	assert.Equal(t, 100.0, stats.SatisfactionPercent)
	assert.Equal(t, 0.0, stats.DuplicateShare)
}

func TestAnalyzeImagePassthrough(t *testing.T) {
	analyzer := &stubAnalyzer{finding: domain.ImageFinding{
		Category:    "road_maintenance",
		Description: "Large pothole on the carriageway.",
	}}
	svc, _ := newTestService(t, analyzer, true)

	finding, err := svc.AnalyzeImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "road_maintenance", finding.Category)
}
