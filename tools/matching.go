package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/onlyvolunteer/backend/match"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

const (
	matchingFetchLimit = 50
	matchingThreshold  = 50
	matchingMaxResults = 10
)

// MatchingStore provides the reads the matching tool needs.
type MatchingStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpcomingListings(ctx context.Context, limit int) ([]models.Listing, error)
	RecentListings(ctx context.Context, limit int) ([]models.Listing, error)
}

// MatchingOutput is the matching tool result
type MatchingOutput struct {
	TopMatches []models.MatchResult `json:"topMatches"`
}

// MatchingTool scores upcoming listings against the user's stored profile
// using the capacity-aware strategy
type MatchingTool struct {
	store   MatchingStore
	textGen TextGenerator
}

// NewMatchingTool creates a new matching tool
func NewMatchingTool(store MatchingStore, textGen TextGenerator) *MatchingTool {
	return &MatchingTool{store: store, textGen: textGen}
}

func (t *MatchingTool) Name() string {
	return NameMatching
}

func (t *MatchingTool) Description() string {
	return `Score upcoming volunteer opportunities against the user's stored profile and return the top matches with short explanations. Favors listings with open slots.`
}

func (t *MatchingTool) InputSchema() map[string]interface{} {
	return userIDSchema(nil)
}

func (t *MatchingTool) Run(ctx context.Context, req *Request) (interface{}, error) {
	user, err := t.store.GetUser(ctx, req.UserID)
	if err != nil {
		return &MatchingOutput{TopMatches: []models.MatchResult{}}, nil
	}
	profile := user.MatchProfile()

	listings, err := t.store.UpcomingListings(ctx, matchingFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	if len(listings) == 0 {
		if listings, err = t.store.RecentListings(ctx, matchingFetchLimit); err != nil {
			return nil, fmt.Errorf("failed to fetch listings: %w", err)
		}
	}

	matches := make([]models.MatchResult, 0)
	for _, listing := range listings {
		score := match.CapacityAwareScore(&profile, &listing)
		if score < matchingThreshold {
			continue
		}
		matches = append(matches, models.MatchResult{
			ID:               listing.ID,
			Title:            listing.Title,
			OrganizationName: listing.OrganizationName,
			Location:         listing.Location,
			MatchScore:       score,
			MatchExplanation: t.explain(ctx, &profile, &listing, score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	if len(matches) > matchingMaxResults {
		matches = matches[:matchingMaxResults]
	}
	return &MatchingOutput{TopMatches: matches}, nil
}

func (t *MatchingTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}

func (t *MatchingTool) explain(ctx context.Context, profile *models.MatchProfile, listing *models.Listing, score int) string {
	if t.textGen == nil {
		return prompts.FallbackExplanation(score)
	}
	prompt := prompts.MatchExplanationSystem + "\n\n" + prompts.MatchExplanation(profile, listing, score)
	text, err := t.textGen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Matching] Explanation failed for %s: %v", listing.ID, err)
		return prompts.FallbackExplanation(score)
	}
	return text
}
