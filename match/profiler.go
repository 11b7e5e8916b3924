package match

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/onlyvolunteer/backend/gemini"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

// FixedQuestions are the five mini-profiler questions, asked in order.
// Step n asks FixedQuestions[n-1].
var FixedQuestions = [5]string{
	"What skills do you have? (e.g. coding, teaching, manual labor)",
	"When are you usually free? (weekdays, weekends, evenings)",
	"Which cause matters most to you? (e.g. animals, education, environment)",
	"Where are you based? (city or region)",
	"Anything else you'd like to add?",
}

var matchIntentKeywords = []string{
	"match", "match me", "recommend", "recommendation", "suitable", "for me",
	"best for me", "what can i do", "opportunities for me", "fit",
}

// IsMatchIntent reports whether a free-form message is asking for matches.
func IsMatchIntent(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, k := range matchIntentKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// StateProfile converts collected mini-profiler answers (q1..q5) into a
// normalized match profile. q1=skills, q2=availability, q3=causes,
// q4=location, q5=interests.
func StateProfile(state *models.MatchMeState) models.MatchProfile {
	a := state.Answers
	return models.MatchProfile{
		Skills:       models.SplitList(a["q1"]),
		Availability: strings.TrimSpace(a["q2"]),
		Causes:       models.SplitList(a["q3"]),
		Location:     strings.TrimSpace(a["q4"]),
		Interests:    models.SplitList(a["q5"]),
	}
}

// ProfilerResponse is one turn of the conversational profiler: either the
// next question, or done with an extracted profile.
type ProfilerResponse struct {
	Done     bool                 `json:"done"`
	Question string               `json:"question,omitempty"`
	Profile  *models.MatchProfile `json:"profile,omitempty"`
}

// ParseProfilerOutput interprets one model turn. A line starting with
// "DONE:" carries a JSON profile; anything else is the next question. The
// model sometimes drops the closing brace near the token limit, so a
// missing one is appended before parsing. Unparseable DONE payloads still
// terminate the flow, with an empty profile.
func ParseProfilerOutput(text string) ProfilerResponse {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "DONE:") {
		return ProfilerResponse{Question: trimmed}
	}

	jsonStr := strings.TrimSpace(trimmed[5:])
	if !strings.HasSuffix(jsonStr, "}") {
		jsonStr += "}"
	}

	var parsed struct {
		Skills       []string `json:"skills"`
		Availability string   `json:"availability"`
		Location     string   `json:"location"`
		Causes       []string `json:"causes"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return ProfilerResponse{Done: true, Profile: &models.MatchProfile{}}
	}
	return ProfilerResponse{
		Done: true,
		Profile: &models.MatchProfile{
			Skills:       parsed.Skills,
			Availability: parsed.Availability,
			Location:     parsed.Location,
			Causes:       parsed.Causes,
		},
	}
}

// Profiler runs the free-form conversational profiling flow against the
// text model.
type Profiler struct {
	textGen TextGenerator
}

func NewProfiler(textGen TextGenerator) *Profiler {
	return &Profiler{textGen: textGen}
}

// doneThreshold: with this many turns recorded the flow terminates even
// when the model is unavailable.
const doneThreshold = 6

// NextQuestion produces the next profiler turn from the conversation so
// far. Model failures fall back to a canned question, or to done when the
// conversation is already long enough.
func (p *Profiler) NextQuestion(ctx context.Context, history []models.ChatTurn) ProfilerResponse {
	if p.textGen == nil {
		return p.fallback(history)
	}

	prompt := prompts.ConversationalProfilerSystem + "\n\n---\n\n" + prompts.ProfilerTurn(history)
	text, err := p.textGen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Profiler] Next question failed: %v", err)
		return p.fallback(history)
	}
	return ParseProfilerOutput(gemini.CleanJSON(text))
}

func (p *Profiler) fallback(history []models.ChatTurn) ProfilerResponse {
	if len(history) >= doneThreshold {
		return ProfilerResponse{Done: true, Profile: &models.MatchProfile{}}
	}
	return ProfilerResponse{
		Question: "What skills or interests do you have that you could volunteer with?",
	}
}
