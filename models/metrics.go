package models

// Role-scoped metric records. Each role gets its own named shape rather than
// one open map, so the analytics tool and its prompts stay type-safe.

// VolunteerMetrics are a single volunteer's personal contribution totals.
type VolunteerMetrics struct {
	HoursVolunteered float64 `json:"hoursVolunteerism"`
	RMDonations      float64 `json:"rmDonations"`
	PointsCollected  int     `json:"pointsCollected"`
}

// OrganizerMetrics aggregate an NGO's campaigns, reach, and funds.
type OrganizerMetrics struct {
	TotalVolunteers int     `json:"totalVolunteers"`
	ActiveCampaigns int     `json:"activeCampaigns"`
	ImpactFunds     float64 `json:"impactFunds"`
}

// AdminMetrics are platform-wide counts for administrators.
type AdminMetrics struct {
	NumberOfUsers         int `json:"numberOfUsers"`
	NumberOfOrganisations int `json:"numberOfOrganisations"`
	ActiveEvents          int `json:"activeEvents"`
}
