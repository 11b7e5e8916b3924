package match

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

// Listing volume and ranking bounds for a single assessment run.
const (
	assessmentFetchLimit = 80
	assessmentThreshold  = 40
	defaultMaxResults    = 10
	defaultMaxConcurrent = 5
)

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// ListingSource provides candidate listings to score.
type ListingSource interface {
	UpcomingListings(ctx context.Context, limit int) ([]models.Listing, error)
	RecentListings(ctx context.Context, limit int) ([]models.Listing, error)
}

// ProfileStore reads and persists the user's match profile.
type ProfileStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SaveMatchProfile(ctx context.Context, userID string, profile models.MatchProfile, embedding []float64) error
}

// Assessor runs the full match assessment: normalize answers, score every
// candidate listing with the weighted strategy, blend in embedding
// similarity when available, explain the survivors, and persist the
// profile back onto the user record.
type Assessor struct {
	listings      ListingSource
	users         ProfileStore
	textGen       TextGenerator
	embedder      Embedder
	maxResults    int
	maxConcurrent int
}

// NewAssessor wires an assessor. textGen and embedder may be nil; both
// degrade to deterministic fallbacks.
func NewAssessor(listings ListingSource, users ProfileStore, textGen TextGenerator, embedder Embedder) *Assessor {
	return &Assessor{
		listings:      listings,
		users:         users,
		textGen:       textGen,
		embedder:      embedder,
		maxResults:    defaultMaxResults,
		maxConcurrent: defaultMaxConcurrent,
	}
}

// AssessmentOutput is the result of one assessment run.
type AssessmentOutput struct {
	Profile    models.MatchProfile  `json:"profile"`
	TopMatches []models.MatchResult `json:"topMatches"`
}

// Run normalizes questionnaire answers into a profile and assesses it.
// userID may be empty for anonymous runs; then nothing is persisted.
func (a *Assessor) Run(ctx context.Context, userID string, answers map[string]any) (*AssessmentOutput, error) {
	profile := models.NormalizeAnswers(answers)
	return a.RunWithProfile(ctx, userID, profile)
}

// RunFromStoredProfile assesses using the profile already saved on the
// user record, skipping the questionnaire.
func (a *Assessor) RunFromStoredProfile(ctx context.Context, userID string) (*AssessmentOutput, error) {
	user, err := a.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Stored fields went through normalization when they were written, so
	// only the cross-fill needs re-applying here.
	profile := user.MatchProfile()
	if len(profile.Skills) == 0 {
		profile.Skills = profile.Interests
	}
	if len(profile.Interests) == 0 {
		profile.Interests = profile.Skills
	}
	out, err := a.assess(ctx, profile)
	if err != nil {
		return nil, err
	}
	return out.AssessmentOutput, nil
}

// RunWithProfile assesses an already-normalized profile and persists it
// onto the user record when userID is set.
func (a *Assessor) RunWithProfile(ctx context.Context, userID string, profile models.MatchProfile) (*AssessmentOutput, error) {
	out, err := a.assess(ctx, profile)
	if err != nil {
		return nil, err
	}

	if userID != "" && !profile.IsEmpty() {
		if err := a.users.SaveMatchProfile(ctx, userID, profile, out.embedding); err != nil {
			log.Printf("[Assessor] Failed to persist profile for %s: %v", userID, err)
		}
	}
	return out.AssessmentOutput, nil
}

type assessmentResult struct {
	*AssessmentOutput
	embedding []float64
}

func (a *Assessor) assess(ctx context.Context, profile models.MatchProfile) (*assessmentResult, error) {
	listings, err := a.listings.UpcomingListings(ctx, assessmentFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		if listings, err = a.listings.RecentListings(ctx, assessmentFetchLimit); err != nil {
			return nil, err
		}
	}

	type candidate struct {
		listing models.Listing
		score   int
	}
	candidates := make([]candidate, 0, len(listings))
	for _, listing := range listings {
		rule := WeightedProfileScore(&profile, &listing)
		if rule >= assessmentThreshold {
			candidates = append(candidates, candidate{listing: listing, score: rule})
		}
	}

	// Semantic blend: transparent fallback to rule-only scores whenever
	// embeddings are missing or the embed call fails.
	var userEmbedding []float64
	if a.embedder != nil && len(candidates) > 0 {
		emb, embErr := a.embedder.EmbedText(ctx, profile.PromptText())
		if embErr != nil {
			log.Printf("[Assessor] Profile embedding failed, using rule scores only: %v", embErr)
		} else {
			userEmbedding = emb
		}
	}
	if userEmbedding != nil {
		for i := range candidates {
			emb := candidates[i].listing.Embedding
			if len(emb) != len(userEmbedding) {
				continue
			}
			sem := CosineSimilarity(userEmbedding, emb)
			candidates[i].score = HybridScore(candidates[i].score, sem)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > a.maxResults {
		candidates = candidates[:a.maxResults]
	}

	// Explain each survivor with bounded concurrency. Results re-attach by
	// index; a failed call gets the deterministic fallback string.
	matches := make([]models.MatchResult, len(candidates))
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.maxConcurrent)
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, listing models.Listing, score int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			matches[i] = models.MatchResult{
				ID:               listing.ID,
				Title:            listing.Title,
				OrganizationName: listing.OrganizationName,
				Location:         listing.Location,
				MatchScore:       score,
				MatchExplanation: a.explain(ctx, &profile, &listing, score),
			}
		}(i, c.listing, c.score)
	}
	wg.Wait()

	return &assessmentResult{
		AssessmentOutput: &AssessmentOutput{Profile: profile, TopMatches: matches},
		embedding:        userEmbedding,
	}, nil
}

func (a *Assessor) explain(ctx context.Context, profile *models.MatchProfile, listing *models.Listing, score int) string {
	if a.textGen == nil {
		return prompts.FallbackExplanation(score)
	}
	prompt := prompts.MatchExplanationSystem + "\n\n" + prompts.MatchExplanation(profile, listing, score)
	text, err := a.textGen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Assessor] Explanation failed for %s: %v", listing.ID, err)
		return prompts.FallbackExplanation(score)
	}
	return text
}
