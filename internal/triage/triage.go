// Package triage wraps the generative-model collaborator that classifies and
// summarizes complaints. Callers treat results as enrichment with a defined
// contract; a failed analysis surfaces as an ANALYSIS_FAILED DomainError.
package triage

import (
	"context"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// Analyzer is the AI triage collaborator contract.
type Analyzer interface {
	// AnalyzeComplaint classifies free-text complaint details into
	// department, priority, summary and recommendation.
	AnalyzeComplaint(ctx context.Context, category, description string) (domain.TriageResult, error)

	// AnalyzeImage classifies an uploaded photo into one of the allowed
	// complaint categories with a formal description.
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ImageFinding, error)

	// PredictCityRisks produces the predictive analytics view from recent
	// complaint volume.
	PredictCityRisks(ctx context.Context, recent []domain.Complaint) (domain.PredictionData, error)
}
