package tools

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

// Fallback insight strings when the text model is unavailable.
const (
	descriptiveFallback  = "Insights temporarily unavailable."
	prescriptiveFallback = "Try again later."
)

// AnalyticsStore provides the reads the role-scoped metric gatherers need.
type AnalyticsStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	AllAttendancesByUser(ctx context.Context, userID string) ([]models.Attendance, error)
	DonationsByUser(ctx context.Context, userID string) ([]models.Donation, error)
	DrivesByNGO(ctx context.Context, ngoID string) ([]models.DonationDrive, error)
	ListingsByOrganization(ctx context.Context, orgID string) ([]models.Listing, error)
	AttendancesForListings(ctx context.Context, listingIDs []string) ([]models.Attendance, error)
	DonationsForDrives(ctx context.Context, driveIDs []string) ([]models.Donation, error)
	CountUsers(ctx context.Context) (int, error)
	CountOrganizations(ctx context.Context) (int, error)
	CountListings(ctx context.Context) (int, error)
	CountDrives(ctx context.Context) (int, error)
}

// AnalyticsOutput is the analytics tool result. Metrics holds the
// role-specific shape; insight text is grounded strictly in those numbers.
type AnalyticsOutput struct {
	Role         string      `json:"role"`
	Metrics      interface{} `json:"metrics"`
	Descriptive  string      `json:"descriptive,omitempty"`
	Prescriptive string      `json:"prescriptive,omitempty"`
	Answer       string      `json:"answer,omitempty"`
	GeneratedAt  string      `json:"generatedAt"`
}

// AnalyticsTool gathers role-scoped metrics and generates insight text
type AnalyticsTool struct {
	store   AnalyticsStore
	textGen TextGenerator
}

// NewAnalyticsTool creates a new analytics tool
func NewAnalyticsTool(store AnalyticsStore, textGen TextGenerator) *AnalyticsTool {
	return &AnalyticsTool{store: store, textGen: textGen}
}

func (t *AnalyticsTool) Name() string {
	return NameAnalytics
}

func (t *AnalyticsTool) Description() string {
	return `Gather analytics for the requesting user: personal contribution totals for volunteers, campaign and fund totals for organizers, platform-wide counts for admins. Optionally generates descriptive and prescriptive insight text grounded in the gathered numbers.`
}

func (t *AnalyticsTool) InputSchema() map[string]interface{} {
	return userIDSchema(map[string]interface{}{
		"message": map[string]interface{}{
			"type":        "string",
			"description": "Optional question to answer from the gathered metrics",
		},
	})
}

func (t *AnalyticsTool) Run(ctx context.Context, req *Request) (interface{}, error) {
	role := models.RoleVolunteer
	if req.Context != nil && req.Context.Role != "" {
		role = req.Context.Role
	} else if user, err := t.store.GetUser(ctx, req.UserID); err == nil && user.Role != "" {
		role = user.Role
	}

	var metrics interface{}
	var descriptivePrompt, prescriptivePrompt string
	switch role {
	case models.RoleNGO:
		m, err := t.gatherOrganizerMetrics(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		metrics = m
		descriptivePrompt = prompts.OrganizerDescriptive(m)
		prescriptivePrompt = prompts.OrganizerPrescriptive(m)
	case models.RoleAdmin:
		m, err := t.gatherAdminMetrics(ctx)
		if err != nil {
			return nil, err
		}
		metrics = m
		descriptivePrompt = prompts.AdminDescriptive(m)
		prescriptivePrompt = prompts.AdminPrescriptive(m)
	default:
		role = models.RoleVolunteer
		m, err := t.gatherVolunteerMetrics(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		metrics = m
		descriptivePrompt = prompts.VolunteerDescriptive(m)
		prescriptivePrompt = prompts.VolunteerPrescriptive(m)
	}

	out := &AnalyticsOutput{
		Role:        role,
		Metrics:     metrics,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	out.Descriptive = t.generate(ctx, descriptivePrompt, descriptiveFallback)
	out.Prescriptive = t.generate(ctx, prescriptivePrompt, prescriptiveFallback)

	if req.Message != "" {
		if metricsJSON, err := json.Marshal(metrics); err == nil {
			out.Answer = t.generate(ctx, prompts.AnalyticsQuestion(string(metricsJSON), req.Message), "")
		}
	}
	return out, nil
}

func (t *AnalyticsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}

func (t *AnalyticsTool) generate(ctx context.Context, prompt, fallback string) string {
	if t.textGen == nil {
		return fallback
	}
	text, err := t.textGen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Analytics] Insight generation failed: %v", err)
		return fallback
	}
	return text
}

func (t *AnalyticsTool) gatherVolunteerMetrics(ctx context.Context, userID string) (*models.VolunteerMetrics, error) {
	var (
		attendances []models.Attendance
		donations   []models.Donation
		points      int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attendances, err = t.store.AllAttendancesByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		donations, err = t.store.DonationsByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		user, err := t.store.GetUser(gctx, userID)
		if err != nil {
			return err
		}
		points = user.Points
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &models.VolunteerMetrics{PointsCollected: points}
	for _, a := range attendances {
		m.HoursVolunteered += a.Hours
	}
	for _, d := range donations {
		m.RMDonations += d.Amount
	}
	return m, nil
}

func (t *AnalyticsTool) gatherOrganizerMetrics(ctx context.Context, ngoID string) (*models.OrganizerMetrics, error) {
	var (
		drives   []models.DonationDrive
		listings []models.Listing
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		drives, err = t.store.DrivesByNGO(gctx, ngoID)
		return err
	})
	g.Go(func() error {
		var err error
		listings, err = t.store.ListingsByOrganization(gctx, ngoID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	listingIDs := make([]string, 0, len(listings))
	for _, l := range listings {
		listingIDs = append(listingIDs, l.ID)
	}
	driveIDs := make([]string, 0, len(drives))
	for _, d := range drives {
		driveIDs = append(driveIDs, d.ID)
	}

	attendances, err := t.store.AttendancesForListings(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	volunteers := make(map[string]struct{})
	for _, a := range attendances {
		if a.UserID != "" {
			volunteers[a.UserID] = struct{}{}
		}
	}

	now := time.Now()
	active := 0
	for _, d := range drives {
		if d.EndDate.IsZero() || d.EndDate.After(now) {
			active++
		}
	}
	for _, l := range listings {
		if l.EndTime.IsZero() || l.EndTime.After(now) {
			active++
		}
	}

	donations, err := t.store.DonationsForDrives(ctx, driveIDs)
	if err != nil {
		return nil, err
	}
	var funds float64
	for _, d := range donations {
		funds += d.Amount
	}

	return &models.OrganizerMetrics{
		TotalVolunteers: len(volunteers),
		ActiveCampaigns: active,
		ImpactFunds:     funds,
	}, nil
}

func (t *AnalyticsTool) gatherAdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	var users, orgs, listings, drives int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = t.store.CountUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orgs, err = t.store.CountOrganizations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		listings, err = t.store.CountListings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		drives, err = t.store.CountDrives(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.AdminMetrics{
		NumberOfUsers:         users,
		NumberOfOrganisations: orgs,
		ActiveEvents:          listings + drives,
	}, nil
}
