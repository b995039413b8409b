package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util"
)

func TestParseComplaintAnalysis(t *testing.T) {
	valid := `{
		"escalation_dept": "Sanitation Dept.",
		"priority": "High",
		"justification": "Health hazard keywords detected.",
		"summary": "Garbage uncollected for days.",
		"relevance_flag": "Actionable",
		"action_recommendation": "Dispatch a crew."
	}`

	result, err := parseComplaintAnalysis(valid)
	require.NoError(t, err)
	assert.Equal(t, "Sanitation Dept.", result.EscalationDept)
	assert.Equal(t, domain.PriorityHigh, result.Priority)
	assert.Equal(t, domain.RelevanceActionable, result.RelevanceFlag)
	assert.GreaterOrEqual(t, result.Confidence, 80)
	assert.Less(t, result.Confidence, 100)
}

func TestParseComplaintAnalysisRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "The complaint looks urgent."},
		{"empty object", "{}"},
		{"unknown department", `{"escalation_dept":"Space Agency","priority":"High","justification":"j","summary":"s","relevance_flag":"Actionable","action_recommendation":"a"}`},
		{"unknown priority", `{"escalation_dept":"Water Board","priority":"Urgent","justification":"j","summary":"s","relevance_flag":"Actionable","action_recommendation":"a"}`},
		{"unknown relevance", `{"escalation_dept":"Water Board","priority":"High","justification":"j","summary":"s","relevance_flag":"Spam","action_recommendation":"a"}`},
		{"missing summary", `{"escalation_dept":"Water Board","priority":"High","justification":"j","summary":"","relevance_flag":"Actionable","action_recommendation":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseComplaintAnalysis(tt.raw)
			require.Error(t, err)
			assert.True(t, util.IsCode(err, "ANALYSIS_FAILED"), "got %v", err)
		})
	}
}

func TestParseImageFinding(t *testing.T) {
	finding, err := parseImageFinding(`{"category":"road_maintenance","description":"Large pothole near the junction."}`)
	require.NoError(t, err)
	assert.Equal(t, "road_maintenance", finding.Category)

	_, err = parseImageFinding(`{"category":"graffiti","description":"Wall art."}`)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "ANALYSIS_FAILED"))

	_, err = parseImageFinding(`{"category":"road_maintenance","description":"  "}`)
	require.Error(t, err)
}

func TestParsePrediction(t *testing.T) {
	valid := `{
		"city_wide_risk": "High",
		"predicted_traffic_congestion": "Medium",
		"water_shortage_risk": "Low",
		"top_critical_areas": [{"location":"Ward 5","predicted_issue":"Waste accumulation","severity_score":72}],
		"expected_category_distribution": [{"name":"Waste Management","value":100}],
		"actionable_recommendations": ["Pre-position crews."],
		"seasonal_impact_message": "Monsoon approaching."
	}`

	data, err := parsePrediction(valid)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, data.CityWideRisk)
	require.Len(t, data.TopCriticalAreas, 1)
	assert.Equal(t, 72, data.TopCriticalAreas[0].SeverityScore)

	_, err = parsePrediction(`{}`)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "ANALYSIS_FAILED"))
}

func TestNewAnalyzerFallsBackToMock(t *testing.T) {
	analyzer := NewAnalyzer(config.TriageConfig{APIKey: ""}, zap.NewNop())
	_, ok := analyzer.(*MockAnalyzer)
	assert.True(t, ok, "no API key selects the mock analyzer")

	analyzer = NewAnalyzer(config.TriageConfig{APIKey: "sk-test", Model: "gpt-4o-mini", TimeoutSeconds: 20}, zap.NewNop())
	backed, ok := analyzer.(*OpenAIAnalyzer)
	require.True(t, ok)
	assert.Equal(t, 20*time.Second, backed.timeout)
}

// modelServer serves a canned chat-completion response after an optional delay.
func modelServer(t *testing.T, delay time.Duration, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		payload, err := json.Marshal(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
		require.NoError(t, err)
		_, _ = w.Write(payload)
	}))
}

func newServerBackedAnalyzer(serverURL string, timeout time.Duration) *OpenAIAnalyzer {
	clientCfg := openai.DefaultConfig("sk-test")
	clientCfg.BaseURL = serverURL + "/v1"
	return &OpenAIAnalyzer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   "gpt-4o-mini",
		timeout: timeout,
		logger:  zap.NewNop(),
	}
}

func TestAnalyzeComplaintHonorsConfiguredTimeout(t *testing.T) {
	server := modelServer(t, 200*time.Millisecond, `{}`)
	defer server.Close()

	analyzer := newServerBackedAnalyzer(server.URL, 20*time.Millisecond)
	start := time.Now()
	_, err := analyzer.AnalyzeComplaint(context.Background(), "Waste Management", "Overflowing bin")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "ANALYSIS_FAILED"))
	assert.Less(t, time.Since(start), 150*time.Millisecond, "call must be cut off by the configured deadline")
}

func TestAnalyzeComplaintEndToEnd(t *testing.T) {
	content, err := json.Marshal(map[string]string{
		"escalation_dept":       "Sanitation Dept.",
		"priority":              "High",
		"justification":         "Health hazard keywords detected.",
		"summary":               "Garbage uncollected for days.",
		"relevance_flag":        "Actionable",
		"action_recommendation": "Dispatch a crew.",
	})
	require.NoError(t, err)

	server := modelServer(t, 0, string(content))
	defer server.Close()

	analyzer := newServerBackedAnalyzer(server.URL, 5*time.Second)
	result, err := analyzer.AnalyzeComplaint(context.Background(), "Waste Management", "Overflowing bin")
	require.NoError(t, err)
	assert.Equal(t, "Sanitation Dept.", result.EscalationDept)
	assert.Equal(t, domain.PriorityHigh, result.Priority)
}

func TestMockAnalyzerHonorsContext(t *testing.T) {
	mock := NewMockAnalyzer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.AnalyzeComplaint(ctx, "Waste Management", "Overflowing bin")
	require.Error(t, err)
}

func TestMockAnalyzerReturnsValidShapes(t *testing.T) {
	mock := NewMockAnalyzer(0)
	ctx := context.Background()

	result, err := mock.AnalyzeComplaint(ctx, "Waste Management", "Overflowing bin")
	require.NoError(t, err)
	assert.True(t, domain.ValidDepartment(result.EscalationDept))
	assert.True(t, domain.ValidPriority(result.Priority))
	assert.True(t, domain.ValidRelevance(result.RelevanceFlag))

	finding, err := mock.AnalyzeImage(ctx, []byte{0x89}, "image/png")
	require.NoError(t, err)
	assert.True(t, domain.ValidImageCategory(finding.Category))

	prediction, err := mock.PredictCityRisks(ctx, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, prediction.CityWideRisk)
	assert.NotEmpty(t, prediction.TopCriticalAreas)
}
