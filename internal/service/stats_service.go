package service

import (
	"context"
	"math"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// DashboardStats computes the admin situation room header numbers: open
// backlog, average resolution time, and SLA breaches (In Progress complaints
// older than the configured threshold).
func (s *ComplaintService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	complaints, err := s.repo.List(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	now := s.now()

	stats := domain.DashboardStats{}
	var totalResolution time.Duration
	var resolvedCount int
	for i := range complaints {
		c := &complaints[i]
		if c.IsOpen() {
			stats.Open++
		}
		if c.ResolvedAt != nil {
			totalResolution += c.ResolvedAt.Sub(c.SubmittedAt)
			resolvedCount++
		}
		if c.Status == domain.StatusInProgress && now.Sub(c.SubmittedAt) > s.slaThreshold {
			stats.SLABreaches++
		}
	}
	if resolvedCount > 0 {
		stats.AvgResolutionHours = round1(totalResolution.Hours() / float64(resolvedCount))
	}
	return stats, nil
}

// AnalyticsStats computes the public analytics page numbers from the store.
func (s *ComplaintService) AnalyticsStats(ctx context.Context) (domain.AnalyticsStats, error) {
	complaints, err := s.repo.List(ctx)
	if err != nil {
		return domain.AnalyticsStats{}, err
	}
	now := s.now()
	cutoff := now.Add(-30 * 24 * time.Hour)

	stats := domain.AnalyticsStats{}
	var totalResolution time.Duration
	var resolvedCount, scored, scoreSum, duplicates int
	for i := range complaints {
		c := &complaints[i]
		if c.SubmittedAt.After(cutoff) {
			stats.ProcessedLast30Days++
		}
		if c.ResolvedAt != nil {
			totalResolution += c.ResolvedAt.Sub(c.SubmittedAt)
			resolvedCount++
		}
		if c.CitizenSatisfactionScore != nil {
			scored++
			scoreSum += *c.CitizenSatisfactionScore
		}
		if c.Status == domain.StatusDuplicate {
			duplicates++
		}
	}
	if resolvedCount > 0 {
		stats.AvgResolutionHours = round1(totalResolution.Hours() / float64(resolvedCount))
	}
	if scored > 0 {
		stats.SatisfactionPercent = round1(float64(scoreSum) / float64(scored*5) * 100)
	}
	if len(complaints) > 0 {
		stats.DuplicateShare = round1(float64(duplicates) / float64(len(complaints)) * 100)
	}
	return stats, nil
}

// Predict produces the predictive analytics view from recent complaints.
func (s *ComplaintService) Predict(ctx context.Context) (domain.PredictionData, error) {
	complaints, err := s.repo.List(ctx)
	if err != nil {
		return domain.PredictionData{}, err
	}
	return s.analyzer.PredictCityRisks(ctx, complaints)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
