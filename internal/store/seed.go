package store

import (
	"strings"
	"time"

	"github.com/civicdesk/complaint-service/internal/domain"
)

// SeedSampleData loads the demo complaints the portal ships with so the
// dashboard and tracking pages have data on first boot. No-op for repository
// implementations other than the in-memory store.
func SeedSampleData(repo ComplaintRepository) {
	s, ok := repo.(*memoryStore)
	if !ok {
		return
	}
	now := s.now()
	hoursAgo := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }

	seeds := []*domain.Complaint{
		{
			ID:             "TKT-12345",
			Category:       "Waste Management",
			Description:    "Garbage has not been collected in our area for the past 3 days. It is causing a foul smell and attracting pests.",
			Location:       "Near City Park, Ward 5, Lucknow",
			Contact:        "9876543210",
			Status:         domain.StatusInProgress,
			SubmittedAt:    hoursAgo(96),
			PhotoBeforeURL: "https://picsum.photos/seed/before1/400/300",
			EscalationDept: "Sanitation Dept.",
			AIPriority:     domain.PriorityMedium,
			AIJustification: "Priority set to Medium based on keywords '3 days' and category 'Waste Management'.",
			AISummary:       "Uncollected garbage for 3 days is causing a foul smell and attracting pests in Ward 5.",
			AIRelevanceFlag: domain.RelevanceActionable,
			AIActionRecommendation: "Dispatch a sanitation crew immediately and confirm collection within 24 hours.",
			AIConfidence: 92,
			History: []domain.HistoryEntry{
				{Status: domain.StatusPending, Timestamp: hoursAgo(96), Notes: "Complaint submitted by citizen and pending review.", Actor: domain.ActorCitizen},
				{Status: domain.StatusInProgress, Timestamp: hoursAgo(72), Notes: "Assigned to Sanitation Dept. supervisor.", Actor: domain.ActorAdmin},
			},
		},
		{
			ID:             "TKT-54321",
			Category:       "Road Maintenance",
			Description:    "Large pothole on the main road is causing traffic issues and is dangerous for two-wheelers.",
			Location:       "MG Road, near Metro Station",
			Contact:        "9123456789",
			Status:         domain.StatusResolved,
			SubmittedAt:    hoursAgo(120),
			PhotoBeforeURL: "https://picsum.photos/seed/before2/400/300",
			PhotoAfterURL:  "https://picsum.photos/seed/after2/400/300",
			EscalationDept: "Public Works Dept.",
			AIPriority:     domain.PriorityHigh,
			AIJustification: "Priority set to High due to keyword 'dangerous' and category 'Road Maintenance'.",
			AISummary:       "A large, dangerous pothole on MG Road is creating a traffic hazard, especially for two-wheelers.",
			AIRelevanceFlag: domain.RelevanceActionable,
			AIActionRecommendation: "Assign to PWD for urgent repair. Place temporary barricades until fixed.",
			AIConfidence: 98,
			History: []domain.HistoryEntry{
				{Status: domain.StatusPending, Timestamp: hoursAgo(120), Notes: "Complaint submitted by citizen and pending review.", Actor: domain.ActorCitizen},
				{Status: domain.StatusInProgress, Timestamp: hoursAgo(96), Notes: "Work order created and assigned to contractor.", Actor: domain.ActorAdmin},
				{Status: domain.StatusResolved, Timestamp: hoursAgo(24), Notes: "Pothole repaired. Photos uploaded by field agent.", Actor: domain.ActorAdmin},
			},
		},
		{
			ID:            "TKT-98760",
			Category:      "Street Lighting",
			Description:   "Street light on our lane is not working for a week. It is very dark and unsafe at night.",
			Location:      "Lane 3, Sector B, Indiranagar",
			Contact:       "9988776655",
			Status:        domain.StatusDuplicate,
			SubmittedAt:   hoursAgo(12),
			IsDuplicateOf: "TKT-98755",
			EscalationDept: "Electrical Dept.",
			AIPriority:     domain.PriorityMedium,
			AIJustification: "Priority set to Medium based on category 'Street Lighting' and potential safety risk.",
			AISummary:       "A street light in Lane 3, Indiranagar has been non-functional for a week, causing safety concerns.",
			AIRelevanceFlag: domain.RelevanceActionable,
			AIActionRecommendation: "Check for duplicates, then assign to the Electrical Dept. for repair.",
			AIConfidence: 85,
			History: []domain.HistoryEntry{
				{Status: domain.StatusPending, Timestamp: hoursAgo(12), Notes: "Complaint submitted by citizen.", Actor: domain.ActorCitizen},
				{Status: domain.StatusDuplicate, Timestamp: hoursAgo(11), Notes: "Flagged as duplicate of TKT-98755 during triage.", Actor: domain.ActorSystem},
			},
		},
		{
			ID:          "TKT-24680",
			Category:    "Waste Management",
			Description: "Public dustbin is overflowing near the community hall.",
			Location:    "Community Hall, Sector D",
			Contact:     "9112233445",
			Status:      domain.StatusPending,
			SubmittedAt: hoursAgo(24),
			EscalationDept: "Sanitation Dept.",
			AIPriority:     domain.PriorityLow,
			AIJustification: "Standard priority for 'Waste Management' issues. No urgent keywords detected.",
			AISummary:       "The public dustbin near the community hall in Sector D is overflowing.",
			AIRelevanceFlag: domain.RelevanceActionable,
			AIActionRecommendation: "Schedule for the next available collection round.",
			AIConfidence: 95,
			History: []domain.HistoryEntry{
				{Status: domain.StatusPending, Timestamp: hoursAgo(24), Notes: "Complaint submitted by citizen and is pending review.", Actor: domain.ActorCitizen},
			},
		},
		{
			ID:             "TKT-13579",
			Category:       "Water Supply",
			Description:    "Water leakage from the main pipeline on the street corner. A lot of water is being wasted.",
			Location:       "Corner of 1st Main and 3rd Cross, Jayanagar",
			Contact:        "9555666777",
			Status:         domain.StatusInProgress,
			SubmittedAt:    hoursAgo(48),
			PhotoBeforeURL: "https://picsum.photos/seed/before3/400/300",
			EscalationDept: "Water Board",
			AIPriority:     domain.PriorityHigh,
			AIJustification: "Priority set to High due to 'leakage' and 'wasted' keywords. Potential for significant resource loss.",
			AISummary:       "Significant water wastage is occurring from a main pipeline leak at a street corner in Jayanagar.",
			AIRelevanceFlag: domain.RelevanceActionable,
			AIActionRecommendation: "Dispatch an emergency repair team from the Water Board to prevent further water loss.",
			AIConfidence: 96,
			History: []domain.HistoryEntry{
				{Status: domain.StatusPending, Timestamp: hoursAgo(48), Notes: "Complaint submitted and pending review.", Actor: domain.ActorCitizen},
				{Status: domain.StatusInProgress, Timestamp: hoursAgo(22), Notes: "Repair team dispatched to location.", Actor: domain.ActorAdmin},
			},
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range seeds {
		key := strings.ToLower(c.ID)
		if _, exists := s.byID[key]; exists {
			continue
		}
		if c.Status == domain.StatusResolved {
			t := c.History[len(c.History)-1].Timestamp
			c.ResolvedAt = &t
		}
		s.complaints = append(s.complaints, c)
		s.byID[key] = c
	}
}
