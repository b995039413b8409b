package triage

import (
	"context"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// MockAnalyzer returns canned triage results after a configurable delay,
// standing in for the model when no API key is configured. The delay models
// the suspension point real calls introduce.
type MockAnalyzer struct {
	delay time.Duration
}

// NewMockAnalyzer constructs the canned analyzer.
func NewMockAnalyzer(delay time.Duration) *MockAnalyzer {
	return &MockAnalyzer{delay: delay}
}

func (m *MockAnalyzer) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AnalyzeComplaint implements Analyzer.
func (m *MockAnalyzer) AnalyzeComplaint(ctx context.Context, category, description string) (domain.TriageResult, error) {
	if err := m.wait(ctx); err != nil {
		return domain.TriageResult{}, err
	}
	return domain.TriageResult{
		EscalationDept:       "Public Works Dept.",
		Priority:             domain.PriorityMedium,
		Justification:        "Mock AI: Priority set based on keywords in description.",
		Summary:              "Mock AI: A summary of the complaint description would appear here.",
		RelevanceFlag:        domain.RelevanceActionable,
		ActionRecommendation: "Mock AI: A recommended action would be suggested here.",
		Confidence:           88,
	}, nil
}

// AnalyzeImage implements Analyzer.
func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ImageFinding, error) {
	if err := m.wait(ctx); err != nil {
		return domain.ImageFinding{}, err
	}
	return domain.ImageFinding{
		Category:    "road_maintenance",
		Description: "AI analysis suggests a large pothole on a main road, causing a potential hazard for vehicles. Please add more details if possible. (Mock Response)",
	}, nil
}

// PredictCityRisks implements Analyzer.
func (m *MockAnalyzer) PredictCityRisks(ctx context.Context, recent []domain.Complaint) (domain.PredictionData, error) {
	if err := m.wait(ctx); err != nil {
		return domain.PredictionData{}, err
	}
	return domain.PredictionData{
		CityWideRisk:               domain.RiskMedium,
		PredictedTrafficCongestion: domain.RiskHigh,
		WaterShortageRisk:          domain.RiskLow,
		TopCriticalAreas: []domain.CriticalArea{
			{Location: "Ward 5", PredictedIssue: "Waste accumulation", SeverityScore: 72},
			{Location: "MG Road corridor", PredictedIssue: "Road surface degradation", SeverityScore: 65},
		},
		ExpectedCategoryDistribution: []domain.CategoryWeight{
			{Name: "Waste Management", Value: 35},
			{Name: "Road Maintenance", Value: 25},
			{Name: "Water Supply", Value: 20},
			{Name: "Street Lighting", Value: 12},
			{Name: "Public Safety", Value: 8},
		},
		ActionableRecommendations: []string{
			"Mock AI: Pre-position sanitation crews in Ward 5.",
			"Mock AI: Schedule preventive road inspection on MG Road.",
		},
		SeasonalImpactMessage: "Mock AI: Monsoon onset may increase drainage complaints.",
	}, nil
}
