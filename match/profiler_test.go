package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
)

func TestParseProfilerOutput(t *testing.T) {
	t.Run("question passthrough", func(t *testing.T) {
		out := ParseProfilerOutput("  What skills do you have?  ")
		assert.False(t, out.Done)
		assert.Equal(t, "What skills do you have?", out.Question)
		assert.Nil(t, out.Profile)
	})

	t.Run("done with full profile", func(t *testing.T) {
		out := ParseProfilerOutput(`DONE:{"skills":["Teaching"],"availability":"Weekends","location":"Selangor","causes":["Education"]}`)
		require.True(t, out.Done)
		require.NotNil(t, out.Profile)
		assert.Equal(t, []string{"Teaching"}, out.Profile.Skills)
		assert.Equal(t, "Weekends", out.Profile.Availability)
		assert.Equal(t, "Selangor", out.Profile.Location)
		assert.Equal(t, []string{"Education"}, out.Profile.Causes)
	})

	t.Run("repairs missing closing brace", func(t *testing.T) {
		out := ParseProfilerOutput(`DONE:{"skills":["Coding"],"availability":"Evenings","location":"KL","causes":["Youth"]`)
		require.True(t, out.Done)
		require.NotNil(t, out.Profile)
		assert.Equal(t, []string{"Coding"}, out.Profile.Skills)
	})

	t.Run("unparseable payload still terminates", func(t *testing.T) {
		out := ParseProfilerOutput(`DONE: not json at all`)
		require.True(t, out.Done)
		require.NotNil(t, out.Profile)
		assert.Empty(t, out.Profile.Skills)
		assert.Empty(t, out.Profile.Causes)
	})

	t.Run("case-insensitive done prefix", func(t *testing.T) {
		out := ParseProfilerOutput(`done:{"skills":[],"availability":"","location":"","causes":[]}`)
		assert.True(t, out.Done)
	})
}

func TestIsMatchIntent(t *testing.T) {
	assert.True(t, IsMatchIntent("Can you match me with something?"))
	assert.True(t, IsMatchIntent("any opportunities for me?"))
	assert.True(t, IsMatchIntent("RECOMMEND a drive"))
	assert.False(t, IsMatchIntent("what alerts are active in Penang"))
	assert.False(t, IsMatchIntent(""))
}

func TestStateProfile(t *testing.T) {
	state := &models.MatchMeState{
		Step: 6,
		Answers: map[string]string{
			"q1": "coding, teaching",
			"q2": " weekends ",
			"q3": "education; youth",
			"q4": "Selangor",
			"q5": "robotics",
		},
	}
	profile := StateProfile(state)
	assert.Equal(t, []string{"coding", "teaching"}, profile.Skills)
	assert.Equal(t, "weekends", profile.Availability)
	assert.Equal(t, []string{"education", "youth"}, profile.Causes)
	assert.Equal(t, "Selangor", profile.Location)
	assert.Equal(t, []string{"robotics"}, profile.Interests)
}

type stubTextGen struct {
	reply string
	err   error
}

func (s *stubTextGen) GenerateText(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func TestProfilerNextQuestion(t *testing.T) {
	history := []models.ChatTurn{
		{Role: models.ChatRoleModel, Content: "What skills do you have?"},
		{Role: models.ChatRoleUser, Content: "Teaching"},
	}

	t.Run("model asks next question", func(t *testing.T) {
		p := NewProfiler(&stubTextGen{reply: "When are you usually free?"})
		out := p.NextQuestion(context.Background(), history)
		assert.False(t, out.Done)
		assert.Equal(t, "When are you usually free?", out.Question)
	})

	t.Run("model failure falls back to canned question", func(t *testing.T) {
		p := NewProfiler(&stubTextGen{err: errors.New("deadline exceeded")})
		out := p.NextQuestion(context.Background(), history)
		assert.False(t, out.Done)
		assert.NotEmpty(t, out.Question)
	})

	t.Run("long conversation terminates without model", func(t *testing.T) {
		long := make([]models.ChatTurn, 6)
		p := NewProfiler(nil)
		out := p.NextQuestion(context.Background(), long)
		require.True(t, out.Done)
		require.NotNil(t, out.Profile)
	})
}
