package domain

// DashboardStats summarizes the admin situation room header cards.
type DashboardStats struct {
	Open               int     `json:"open"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	SLABreaches        int     `json:"sla_breaches"`
}

// AnalyticsStats summarizes the public analytics page.
type AnalyticsStats struct {
	ProcessedLast30Days int     `json:"processed_last_30_days"`
	AvgResolutionHours  float64 `json:"avg_resolution_hours"`
	SatisfactionPercent float64 `json:"satisfaction_percent"`
	DuplicateShare      float64 `json:"duplicate_share_percent"`
}

// RiskLevel grades predicted city-wide risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// CriticalArea pinpoints a location predicted to need attention.
type CriticalArea struct {
	Location       string `json:"location"`
	PredictedIssue string `json:"predicted_issue"`
	SeverityScore  int    `json:"severity_score"`
}

// CategoryWeight pairs a complaint category with an expected share.
type CategoryWeight struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PredictionData is the payload behind the predictive analytics view.
type PredictionData struct {
	CityWideRisk                 RiskLevel        `json:"city_wide_risk"`
	PredictedTrafficCongestion   RiskLevel        `json:"predicted_traffic_congestion"`
	WaterShortageRisk            RiskLevel        `json:"water_shortage_risk"`
	TopCriticalAreas             []CriticalArea   `json:"top_critical_areas"`
	ExpectedCategoryDistribution []CategoryWeight `json:"expected_category_distribution"`
	ActionableRecommendations    []string         `json:"actionable_recommendations"`
	SeasonalImpactMessage        string           `json:"seasonal_impact_message,omitempty"`
}
