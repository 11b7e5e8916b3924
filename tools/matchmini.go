package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/onlyvolunteer/backend/match"
	"github.com/onlyvolunteer/backend/models"
)

const miniMaxResults = 3

// Mini profiler output kinds.
const (
	MiniKindQuestion = "question"
	MiniKindMatches  = "matches"
)

// AssessmentRunner runs the full assessment pipeline.
type AssessmentRunner interface {
	RunWithProfile(ctx context.Context, userID string, profile models.MatchProfile) (*match.AssessmentOutput, error)
	RunFromStoredProfile(ctx context.Context, userID string) (*match.AssessmentOutput, error)
}

// MatchMeMiniOutput is either the next fixed question with updated state,
// or the final recommendations.
type MatchMeMiniOutput struct {
	Kind         string               `json:"kind"`
	Step         int                  `json:"step,omitempty"`
	Question     string               `json:"question,omitempty"`
	MatchMeState *models.MatchMeState `json:"matchMeState,omitempty"`
	TopMatches   []models.MatchResult `json:"topMatches,omitempty"`
}

// MatchMeMiniTool runs the 5-question mini profiler flow. The caller holds
// the state between turns; the server stays stateless for this sub-flow.
type MatchMeMiniTool struct {
	assessor AssessmentRunner
}

// NewMatchMeMiniTool creates a new mini profiler tool
func NewMatchMeMiniTool(assessor AssessmentRunner) *MatchMeMiniTool {
	return &MatchMeMiniTool{assessor: assessor}
}

func (t *MatchMeMiniTool) Name() string {
	return NameMatchMeMini
}

func (t *MatchMeMiniTool) Description() string {
	return `Run the mini match-me flow: five fixed questions (skills, availability, cause, location, anything else), then the top 2-3 recommended opportunities. Pass metadata.matchMeState between turns.`
}

func (t *MatchMeMiniTool) InputSchema() map[string]interface{} {
	return userIDSchema(map[string]interface{}{
		"message": map[string]interface{}{
			"type":        "string",
			"description": "The user's answer to the current question, or the message that started the flow",
		},
		"metadata": map[string]interface{}{
			"type":        "object",
			"description": "Carries matchMeState {step, answers} between turns",
		},
	})
}

func (t *MatchMeMiniTool) Run(ctx context.Context, req *Request) (interface{}, error) {
	message := strings.TrimSpace(req.Message)
	hasMessage := message != ""

	var state *models.MatchMeState
	if req.Metadata != nil {
		state = req.Metadata.MatchMeState
	}

	if state == nil {
		if hasMessage && match.IsMatchIntent(message) {
			return questionOutput(1, map[string]string{}), nil
		}
		out, err := t.assessor.RunFromStoredProfile(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("stored profile assessment failed: %w", err)
		}
		return &MatchMeMiniOutput{Kind: MiniKindMatches, TopMatches: capMatches(out.TopMatches)}, nil
	}

	answers := make(map[string]string, len(state.Answers)+1)
	for k, v := range state.Answers {
		answers[k] = v
	}
	if hasMessage && state.Step >= 1 && state.Step <= 5 {
		answers[fmt.Sprintf("q%d", state.Step)] = message
	}

	nextStep := state.Step
	if hasMessage {
		nextStep++
	}
	if nextStep <= 5 {
		return questionOutput(nextStep, answers), nil
	}

	profile := match.StateProfile(&models.MatchMeState{Step: nextStep, Answers: answers})
	out, err := t.assessor.RunWithProfile(ctx, req.UserID, profile)
	if err != nil {
		return nil, fmt.Errorf("assessment failed: %w", err)
	}
	return &MatchMeMiniOutput{Kind: MiniKindMatches, TopMatches: capMatches(out.TopMatches)}, nil
}

func (t *MatchMeMiniTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	return executeRaw(ctx, t, input)
}

func questionOutput(step int, answers map[string]string) *MatchMeMiniOutput {
	return &MatchMeMiniOutput{
		Kind:         MiniKindQuestion,
		Step:         step,
		Question:     match.FixedQuestions[step-1],
		MatchMeState: &models.MatchMeState{Step: step, Answers: answers},
	}
}

func capMatches(matches []models.MatchResult) []models.MatchResult {
	if len(matches) > miniMaxResults {
		return matches[:miniMaxResults]
	}
	return matches
}
