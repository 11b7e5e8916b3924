package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/onlyvolunteer/backend/models"
)

const (
	drivesFetchLimit = 25
	drivesMaxResults = 10
)

// DriveSource provides stored donation drives.
type DriveSource interface {
	RecentDrives(ctx context.Context, limit int) ([]models.DonationDrive, error)
}

// DonationDriveItem is one drive with a relevance score attached
type DonationDriveItem struct {
	models.DonationDrive
	MatchScore float64 `json:"matchScore"`
}

// DonationDrivesOutput is the donation drives tool result
type DonationDrivesOutput struct {
	Drives  []DonationDriveItem `json:"drives"`
	Summary DrivesSummary       `json:"summary"`
}

// DrivesSummary summarizes the fetched drive count
type DrivesSummary struct {
	Total int `json:"total"`
}

// DonationDrivesTool fetches ongoing donation drives, ranked by location
// relevance when the user has one set
type DonationDrivesTool struct {
	store DriveSource
}

// NewDonationDrivesTool creates a new donation drives tool
func NewDonationDrivesTool(store DriveSource) *DonationDrivesTool {
	return &DonationDrivesTool{store: store}
}

func (t *DonationDrivesTool) Name() string {
	return NameDonationDrives
}

func (t *DonationDrivesTool) Description() string {
	return `Fetch ongoing donation drives with their needed items and end dates. Drives near the user's location are ranked first when a location is known.`
}

func (t *DonationDrivesTool) InputSchema() map[string]interface{} {
	return userIDSchema(nil)
}

func (t *DonationDrivesTool) Run(ctx context.Context, req *Request) (interface{}, error) {
	drives, err := t.store.RecentDrives(ctx, drivesFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation drives: %w", err)
	}

	items := make([]DonationDriveItem, 0, len(drives))
	for _, drive := range drives {
		items = append(items, DonationDriveItem{DonationDrive: drive, MatchScore: relevanceBase})
	}

	var userLocation string
	if req.Context != nil {
		userLocation = strings.ToLower(req.Context.Location)
	}
	if userLocation != "" {
		for idx := range items {
			loc := strings.ToLower(items[idx].Location)
			if loc != "" && (strings.Contains(loc, userLocation) || strings.Contains(userLocation, loc)) {
				items[idx].MatchScore = relevanceBoosted
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].MatchScore > items[j].MatchScore
		})
	}

	total := len(items)
	if len(items) > drivesMaxResults {
		items = items[:drivesMaxResults]
	}
	return &DonationDrivesOutput{
		Drives:  items,
		Summary: DrivesSummary{Total: total},
	}, nil
}

func (t *DonationDrivesTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}
