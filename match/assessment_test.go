package match

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
)

type fakeListings struct {
	upcoming []models.Listing
	recent   []models.Listing
	err      error
}

func (f *fakeListings) UpcomingListings(_ context.Context, _ int) ([]models.Listing, error) {
	return f.upcoming, f.err
}

func (f *fakeListings) RecentListings(_ context.Context, _ int) ([]models.Listing, error) {
	return f.recent, f.err
}

type fakeUsers struct {
	user       *models.User
	savedID    string
	savedProf  *models.MatchProfile
	savedEmbed []float64
}

func (f *fakeUsers) GetUser(_ context.Context, _ string) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("user not found")
	}
	return f.user, nil
}

func (f *fakeUsers) SaveMatchProfile(_ context.Context, userID string, profile models.MatchProfile, embedding []float64) error {
	f.savedID = userID
	f.savedProf = &profile
	f.savedEmbed = embedding
	return nil
}

type fakeEmbedder struct {
	vec []float64
	err error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, _ string) ([]float64, error) {
	return f.vec, f.err
}

func strongListing(id string) models.Listing {
	return models.Listing{
		ID:             id,
		Title:          "After-school Tutoring",
		SkillsRequired: []string{"Teaching"},
		Location:       "Selangor",
		Tags:           []string{"Weekend Only", "Education"},
	}
}

func weakListing(id string) models.Listing {
	return models.Listing{
		ID:       id,
		Title:    "Deep Sea Welding",
		Location: "Sabah",
		Tags:     []string{"Requires Certification"},
	}
}

var testAnswers = map[string]any{
	"skills":       "teaching",
	"availability": "weekends",
	"location":     "Selangor",
	"causes":       "education",
}

func TestAssessorFiltersAndRanks(t *testing.T) {
	listings := &fakeListings{upcoming: []models.Listing{
		weakListing("weak"),
		strongListing("strong"),
	}}
	users := &fakeUsers{}
	a := NewAssessor(listings, users, nil, nil)

	out, err := a.Run(context.Background(), "user-1", testAnswers)
	require.NoError(t, err)
	require.Len(t, out.TopMatches, 1)
	assert.Equal(t, "strong", out.TopMatches[0].ID)
	assert.GreaterOrEqual(t, out.TopMatches[0].MatchScore, 40)
	assert.Contains(t, out.TopMatches[0].MatchExplanation, "fit")
}

func TestAssessorCapsResults(t *testing.T) {
	var upcoming []models.Listing
	for i := 0; i < 15; i++ {
		upcoming = append(upcoming, strongListing(fmt.Sprintf("l%d", i)))
	}
	a := NewAssessor(&fakeListings{upcoming: upcoming}, &fakeUsers{}, nil, nil)

	out, err := a.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	assert.Len(t, out.TopMatches, 10)
}

func TestAssessorFallsBackToRecentListings(t *testing.T) {
	listings := &fakeListings{recent: []models.Listing{strongListing("recent-1")}}
	a := NewAssessor(listings, &fakeUsers{}, nil, nil)

	out, err := a.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	require.Len(t, out.TopMatches, 1)
	assert.Equal(t, "recent-1", out.TopMatches[0].ID)
}

func TestAssessorBlendsEmbeddings(t *testing.T) {
	similar := strongListing("similar")
	similar.Embedding = []float64{1, 0}
	dissimilar := strongListing("dissimilar")
	dissimilar.Embedding = []float64{0, 1}

	listings := &fakeListings{upcoming: []models.Listing{dissimilar, similar}}
	a := NewAssessor(listings, &fakeUsers{}, nil, &fakeEmbedder{vec: []float64{1, 0}})

	out, err := a.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	require.Len(t, out.TopMatches, 2)
	assert.Equal(t, "similar", out.TopMatches[0].ID)
	assert.Greater(t, out.TopMatches[0].MatchScore, out.TopMatches[1].MatchScore)
}

func TestAssessorEmbedFailureKeepsRuleScores(t *testing.T) {
	listings := &fakeListings{upcoming: []models.Listing{strongListing("a")}}
	ruleOnly := NewAssessor(listings, &fakeUsers{}, nil, nil)
	degraded := NewAssessor(listings, &fakeUsers{}, nil, &fakeEmbedder{err: errors.New("quota")})

	want, err := ruleOnly.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	got, err := degraded.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	assert.Equal(t, want.TopMatches[0].MatchScore, got.TopMatches[0].MatchScore)
}

func TestAssessorPersistsProfile(t *testing.T) {
	users := &fakeUsers{}
	listings := &fakeListings{upcoming: []models.Listing{strongListing("a")}}
	a := NewAssessor(listings, users, nil, &fakeEmbedder{vec: []float64{0.1, 0.2}})

	_, err := a.Run(context.Background(), "user-7", testAnswers)
	require.NoError(t, err)
	assert.Equal(t, "user-7", users.savedID)
	require.NotNil(t, users.savedProf)
	assert.Equal(t, []string{"teaching"}, users.savedProf.Skills)
	assert.Equal(t, []float64{0.1, 0.2}, users.savedEmbed)
}

func TestAssessorAnonymousRunSkipsPersistence(t *testing.T) {
	users := &fakeUsers{}
	listings := &fakeListings{upcoming: []models.Listing{strongListing("a")}}
	a := NewAssessor(listings, users, nil, nil)

	_, err := a.Run(context.Background(), "", testAnswers)
	require.NoError(t, err)
	assert.Empty(t, users.savedID)
}

func TestAssessorFromStoredProfile(t *testing.T) {
	users := &fakeUsers{user: &models.User{
		Skills:       []string{"teaching"},
		Availability: "weekends",
		Location:     "Selangor",
	}}
	listings := &fakeListings{upcoming: []models.Listing{strongListing("a"), weakListing("b")}}
	a := NewAssessor(listings, users, nil, nil)

	out, err := a.RunFromStoredProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, out.TopMatches, 1)
	assert.Equal(t, "a", out.TopMatches[0].ID)
	assert.Empty(t, users.savedID)
}
