package domain

// TriagePriority enumerates urgency suggested by triage.
type TriagePriority string

const (
	PriorityHigh   TriagePriority = "High"
	PriorityMedium TriagePriority = "Medium"
	PriorityLow    TriagePriority = "Low"
)

// RelevanceFlag marks whether a complaint text is actionable.
type RelevanceFlag string

const (
	RelevanceActionable RelevanceFlag = "Actionable"
	RelevanceNormal     RelevanceFlag = "Normal Complaint"
)

// Departments a complaint can be escalated to.
var EscalationDepartments = []string{
	"Sanitation Dept.",
	"Public Works Dept.",
	"Electrical Dept.",
	"Water Board",
	"Parks & Recreation",
	"Traffic Police",
	"Other",
}

// ImageCategories are the only categories image triage may return.
var ImageCategories = []string{
	"waste_management",
	"road_maintenance",
	"water_supply",
	"street_lighting",
	"public_safety",
	"other",
}

// TriageResult is the annotation set produced by complaint triage.
type TriageResult struct {
	EscalationDept       string         `json:"escalation_dept"`
	Priority             TriagePriority `json:"priority"`
	Justification        string         `json:"justification"`
	Summary              string         `json:"summary"`
	RelevanceFlag        RelevanceFlag  `json:"relevance_flag"`
	ActionRecommendation string         `json:"action_recommendation"`
	Confidence           int            `json:"confidence"`
}

// ImageFinding is the result of classifying an uploaded photo.
type ImageFinding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ValidDepartment reports whether dept is one of the allowed departments.
func ValidDepartment(dept string) bool {
	for _, d := range EscalationDepartments {
		if d == dept {
			return true
		}
	}
	return false
}

// ValidImageCategory reports whether cat is one of the allowed image categories.
func ValidImageCategory(cat string) bool {
	for _, c := range ImageCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known triage priority.
func ValidPriority(p TriagePriority) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ValidRelevance reports whether f is a known relevance flag.
func ValidRelevance(f RelevanceFlag) bool {
	return f == RelevanceActionable || f == RelevanceNormal
}
