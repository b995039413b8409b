package triage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util"
)

// OpenAIAnalyzer calls a chat-completion model in JSON mode.
type OpenAIAnalyzer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewAnalyzer picks the OpenAI-backed analyzer when an API key is configured
// and the canned mock otherwise, mirroring the portal's fallback behavior.
func NewAnalyzer(cfg config.TriageConfig, logger *zap.Logger) Analyzer {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("TRIAGE_API_KEY not set, using mock triage analyzer")
		return NewMockAnalyzer(cfg.MockDelay())
	}
	return &OpenAIAnalyzer{
		client:  openai.NewClient(cfg.APIKey),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

const complaintPrompt = `You are an expert municipal operations manager for an Indian city. Analyze the following civic complaint.
1. Generate a concise, one-sentence summary of the core problem.
2. Determine if the complaint text is actionable. If it describes a clear civic issue, flag it as 'Actionable', otherwise flag as 'Normal Complaint'.
3. Suggest the correct municipal department for escalation ('Sanitation Dept.', 'Public Works Dept.', 'Electrical Dept.', 'Water Board', 'Parks & Recreation', 'Traffic Police', 'Other').
4. Assign a priority level ('High', 'Medium', 'Low').
5. Provide a brief justification for your choices.
6. Recommend a clear, concrete next step for the admin to take.

Respond with a single JSON object with the keys:
escalation_dept, priority, justification, summary, relevance_flag, action_recommendation.

Complaint Category: %q
Complaint Description: %q`

// AnalyzeComplaint implements Analyzer.
func (a *OpenAIAnalyzer) AnalyzeComplaint(ctx context.Context, category, description string) (domain.TriageResult, error) {
	prompt := fmt.Sprintf(complaintPrompt, category, description)
	raw, err := a.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return domain.TriageResult{}, err
	}
	return parseComplaintAnalysis(raw)
}

const imagePrompt = `Analyze the attached image of a civic issue in an Indian city. Based on the image, identify the most appropriate category for the complaint and write a brief, objective description of the problem. The category must be one of the following: waste_management, road_maintenance, water_supply, street_lighting, public_safety, other. The description should be suitable for a formal complaint to municipal authorities.
Respond with a single JSON object with the keys: category, description.`

// AnalyzeImage implements Analyzer.
func (a *OpenAIAnalyzer) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (domain.ImageFinding, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	raw, err := a.complete(ctx, []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: imagePrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		},
	})
	if err != nil {
		return domain.ImageFinding{}, err
	}
	return parseImageFinding(raw)
}

const predictionPrompt = `You are a predictive analytics engine for an Indian municipal corporation. Given the recent complaint summary below, forecast civic risk for the coming week.
Respond with a single JSON object with the keys:
city_wide_risk, predicted_traffic_congestion, water_shortage_risk (each one of 'Low', 'Medium', 'High', 'Critical'),
top_critical_areas (array of {location, predicted_issue, severity_score 1-100}),
expected_category_distribution (array of {name, value} summing to 100),
actionable_recommendations (array of strings),
seasonal_impact_message (string).

Recent complaints:
%s`

// PredictCityRisks implements Analyzer.
func (a *OpenAIAnalyzer) PredictCityRisks(ctx context.Context, recent []domain.Complaint) (domain.PredictionData, error) {
	var sb strings.Builder
	for _, c := range recent {
		fmt.Fprintf(&sb, "- [%s] %s at %s (status %s)\n", c.Category, c.AISummary, c.Location, c.Status)
	}
	raw, err := a.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(predictionPrompt, sb.String())},
	})
	if err != nil {
		return domain.PredictionData{}, err
	}
	return parsePrediction(raw)
}

func (a *OpenAIAnalyzer) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		a.logger.Error("triage model call failed", zap.Error(err))
		return "", util.NewAnalysisError("triage model call failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", util.NewAnalysisError("triage model returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

type complaintAnalysisJSON struct {
	EscalationDept       string `json:"escalation_dept"`
	Priority             string `json:"priority"`
	Justification        string `json:"justification"`
	Summary              string `json:"summary"`
	RelevanceFlag        string `json:"relevance_flag"`
	ActionRecommendation string `json:"action_recommendation"`
}

// parseComplaintAnalysis validates the model output against the triage
// contract. Anything malformed becomes an AnalysisError; the model does not
// report confidence, so one is simulated in the 80-99 range.
func parseComplaintAnalysis(raw string) (domain.TriageResult, error) {
	var parsed complaintAnalysisJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return domain.TriageResult{}, util.NewAnalysisError("invalid response structure from AI for complaint analysis", err)
	}
	result := domain.TriageResult{
		EscalationDept:       parsed.EscalationDept,
		Priority:             domain.TriagePriority(parsed.Priority),
		Justification:        parsed.Justification,
		Summary:              parsed.Summary,
		RelevanceFlag:        domain.RelevanceFlag(parsed.RelevanceFlag),
		ActionRecommendation: parsed.ActionRecommendation,
		Confidence:           80 + rand.Intn(20),
	}
	if !domain.ValidDepartment(result.EscalationDept) ||
		!domain.ValidPriority(result.Priority) ||
		!domain.ValidRelevance(result.RelevanceFlag) ||
		result.Summary == "" || result.Justification == "" {
		return domain.TriageResult{}, util.NewAnalysisError("invalid response structure from AI for complaint analysis", nil)
	}
	return result, nil
}

func parseImageFinding(raw string) (domain.ImageFinding, error) {
	var finding domain.ImageFinding
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &finding); err != nil {
		return domain.ImageFinding{}, util.NewAnalysisError("invalid response structure from AI for image analysis", err)
	}
	if !domain.ValidImageCategory(finding.Category) || strings.TrimSpace(finding.Description) == "" {
		return domain.ImageFinding{}, util.NewAnalysisError("invalid response structure from AI for image analysis", nil)
	}
	return finding, nil
}

func parsePrediction(raw string) (domain.PredictionData, error) {
	var data domain.PredictionData
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return domain.PredictionData{}, util.NewAnalysisError("invalid response structure from AI for prediction", err)
	}
	if data.CityWideRisk == "" {
		return domain.PredictionData{}, util.NewAnalysisError("invalid response structure from AI for prediction", nil)
	}
	return data, nil
}
