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
	aidFetchLimit = 20
	aidMaxResults = 10

	relevanceBase    = 0.8
	relevanceBoosted = 0.95
)

// AidSource provides stored aid resources.
type AidSource interface {
	RecentAidResources(ctx context.Context, limit int) ([]models.AidResource, error)
}

// NearbyAidItem is one aid resource with a relevance score attached
type NearbyAidItem struct {
	models.AidResource
	MatchScore float64 `json:"matchScore"`
}

// AidFinderOutput is the aid finder tool result
type AidFinderOutput struct {
	NearbyAid []NearbyAidItem `json:"nearbyAid"`
	Summary   AidSummary      `json:"summary"`
}

// AidSummary summarizes how many resources qualified
type AidSummary struct {
	TotalNearby int `json:"totalNearby"`
}

// AidFinderTool fetches aid resources, filters them by the requested
// category and urgency, and ranks by relevance to the user's interests
type AidFinderTool struct {
	store AidSource
}

// NewAidFinderTool creates a new aid finder tool
func NewAidFinderTool(store AidSource) *AidFinderTool {
	return &AidFinderTool{store: store}
}

func (t *AidFinderTool) Name() string {
	return NameAidFinder
}

func (t *AidFinderTool) Description() string {
	return `Find nearby aid resources such as food banks, shelters, and supply points. Supports optional category and urgency filters; results are ranked by relevance to the user's interests.`
}

func (t *AidFinderTool) InputSchema() map[string]interface{} {
	return userIDSchema(map[string]interface{}{
		"metadata": map[string]interface{}{
			"type":        "object",
			"description": "Optional filters: category, urgency",
		},
	})
}

func (t *AidFinderTool) Run(ctx context.Context, req *Request) (interface{}, error) {
	resources, err := t.store.RecentAidResources(ctx, aidFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aid resources: %w", err)
	}

	items := make([]NearbyAidItem, 0, len(resources))
	for _, res := range resources {
		items = append(items, NearbyAidItem{AidResource: res, MatchScore: relevanceBase})
	}

	if req.Metadata != nil {
		if cat := strings.ToLower(req.Metadata.Category); cat != "" {
			items = filterAid(items, func(i NearbyAidItem) bool {
				return strings.Contains(strings.ToLower(i.Category), cat)
			})
		}
		if urg := strings.ToLower(req.Metadata.Urgency); urg != "" {
			items = filterAid(items, func(i NearbyAidItem) bool {
				return strings.Contains(strings.ToLower(i.Urgency), urg)
			})
		}
	}

	var interests []string
	if req.Context != nil {
		interests = req.Context.Interests
	}
	for idx := range items {
		category := strings.ToLower(items[idx].Category)
		for _, interest := range interests {
			if interest != "" && strings.Contains(category, strings.ToLower(interest)) {
				items[idx].MatchScore = relevanceBoosted
				break
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchScore > items[j].MatchScore
	})

	total := len(items)
	if len(items) > aidMaxResults {
		items = items[:aidMaxResults]
	}
	return &AidFinderOutput{
		NearbyAid: items,
		Summary:   AidSummary{TotalNearby: total},
	}, nil
}

func (t *AidFinderTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}

func filterAid(items []NearbyAidItem, keep func(NearbyAidItem) bool) []NearbyAidItem {
	out := items[:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
