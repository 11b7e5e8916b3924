package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/match"
	"github.com/onlyvolunteer/backend/models"
)

type fakeAssessor struct {
	profile     *models.MatchProfile
	storedRuns  int
	profileRuns int
	matches     []models.MatchResult
}

func (f *fakeAssessor) RunWithProfile(_ context.Context, _ string, profile models.MatchProfile) (*match.AssessmentOutput, error) {
	f.profileRuns++
	f.profile = &profile
	return &match.AssessmentOutput{Profile: profile, TopMatches: f.matches}, nil
}

func (f *fakeAssessor) RunFromStoredProfile(_ context.Context, _ string) (*match.AssessmentOutput, error) {
	f.storedRuns++
	return &match.AssessmentOutput{TopMatches: f.matches}, nil
}

func miniRequest(message string, state *models.MatchMeState) *Request {
	req := &Request{UserID: "u1", Message: message, Context: &models.UserContext{UserID: "u1"}}
	if state != nil {
		req.Metadata = &models.RequestMetadata{MatchMeState: state}
	}
	return req
}

func TestMatchMeMiniStartsOnIntent(t *testing.T) {
	tool := NewMatchMeMiniTool(&fakeAssessor{})

	out, err := tool.Run(context.Background(), miniRequest("match me with something", nil))
	require.NoError(t, err)
	mini := out.(*MatchMeMiniOutput)
	assert.Equal(t, MiniKindQuestion, mini.Kind)
	assert.Equal(t, 1, mini.Step)
	assert.Equal(t, match.FixedQuestions[0], mini.Question)
	require.NotNil(t, mini.MatchMeState)
	assert.Equal(t, 1, mini.MatchMeState.Step)
	assert.Empty(t, mini.MatchMeState.Answers)
}

func TestMatchMeMiniNoIntentUsesStoredProfile(t *testing.T) {
	assessor := &fakeAssessor{matches: []models.MatchResult{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}
	tool := NewMatchMeMiniTool(assessor)

	out, err := tool.Run(context.Background(), miniRequest("", nil))
	require.NoError(t, err)
	mini := out.(*MatchMeMiniOutput)
	assert.Equal(t, MiniKindMatches, mini.Kind)
	assert.Equal(t, 1, assessor.storedRuns)
	assert.Len(t, mini.TopMatches, 3)
}

func TestMatchMeMiniAdvancesOneStep(t *testing.T) {
	tool := NewMatchMeMiniTool(&fakeAssessor{})
	state := &models.MatchMeState{Step: 2, Answers: map[string]string{"q1": "teaching"}}

	out, err := tool.Run(context.Background(), miniRequest("weekends", state))
	require.NoError(t, err)
	mini := out.(*MatchMeMiniOutput)
	assert.Equal(t, MiniKindQuestion, mini.Kind)
	assert.Equal(t, 3, mini.Step)
	assert.Equal(t, match.FixedQuestions[2], mini.Question)
	assert.Equal(t, "weekends", mini.MatchMeState.Answers["q2"])
	assert.Equal(t, "teaching", mini.MatchMeState.Answers["q1"])
}

func TestMatchMeMiniRepeatsQuestionWithoutAnswer(t *testing.T) {
	tool := NewMatchMeMiniTool(&fakeAssessor{})
	state := &models.MatchMeState{Step: 2, Answers: map[string]string{"q1": "teaching"}}

	out, err := tool.Run(context.Background(), miniRequest("", state))
	require.NoError(t, err)
	mini := out.(*MatchMeMiniOutput)
	assert.Equal(t, 2, mini.Step)
	assert.Equal(t, match.FixedQuestions[1], mini.Question)
}

func TestMatchMeMiniFinalAnswerTriggersAssessment(t *testing.T) {
	assessor := &fakeAssessor{matches: []models.MatchResult{{ID: "a", MatchScore: 90}}}
	tool := NewMatchMeMiniTool(assessor)
	state := &models.MatchMeState{Step: 5, Answers: map[string]string{
		"q1": "teaching", "q2": "weekends", "q3": "education", "q4": "Selangor",
	}}

	out, err := tool.Run(context.Background(), miniRequest("robotics", state))
	require.NoError(t, err)
	mini := out.(*MatchMeMiniOutput)
	assert.Equal(t, MiniKindMatches, mini.Kind)
	assert.Equal(t, 1, assessor.profileRuns)

	require.NotNil(t, assessor.profile)
	assert.Equal(t, []string{"teaching"}, assessor.profile.Skills)
	assert.Equal(t, "weekends", assessor.profile.Availability)
	assert.Equal(t, []string{"education"}, assessor.profile.Causes)
	assert.Equal(t, "Selangor", assessor.profile.Location)
	assert.Equal(t, []string{"robotics"}, assessor.profile.Interests)
}
