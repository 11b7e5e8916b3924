package orchestrator

import (
	"context"
	"encoding/json"
	"log"

	"github.com/onlyvolunteer/backend/gemini"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
	"github.com/onlyvolunteer/backend/tools"
)

// Fallback strings when the text model cannot produce a reply.
const (
	formatterFallback  = "I've retrieved the information. Please check the data shown."
	chatFallback       = "I'm not sure how to answer that. Try asking about alerts, insights, matching, or nearby aid."
	capabilitiesPrompt = "Ask me about alerts, insights, matching, or nearby aid."
)

// Generator is the text-model surface the orchestrator needs.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Chat(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error)
}

// FormatToolResult renders structured tool output into the assistant's
// voice. Never fails; model errors fall back to a canned line.
func FormatToolResult(ctx context.Context, gen Generator, userCtx *models.UserContext, toolName string, data interface{}, message string) string {
	if gen == nil {
		return formatterFallback
	}

	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Printf("[Formatter] Tool output marshal failed: %v", err)
		return formatterFallback
	}

	prompt := prompts.AssistantFormat(userCtx.PromptBlock(), toolName, string(dataJSON), message)
	text, err := gen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Formatter] Generation failed: %v", err)
		return formatterFallback
	}
	return text
}

// ChatWithContext answers a tool-free message using prior conversation
// history and the user's context block.
func ChatWithContext(ctx context.Context, gen Generator, userCtx *models.UserContext, history []models.ChatTurn, message string) string {
	if gen == nil {
		return chatFallback
	}

	system := prompts.AssistantChatSystem(userCtx.PromptBlock())
	text, err := gen.Chat(ctx, system, history, message)
	if err != nil {
		log.Printf("[Formatter] Chat failed: %v", err)
		return chatFallback
	}
	if text == "" {
		return chatFallback
	}
	return text
}

// staticSuggestions are the per-tool follow-up chips used when the model
// cannot propose better ones.
var staticSuggestions = map[string][]string{
	tools.NameAlerts:         {"Show me the latest alerts", "Any SOS?"},
	tools.NameAnalytics:      {"What should we focus on?"},
	tools.NameMatching:       {"Find more matches", "What else fits me?"},
	tools.NameMatchMeMini:    {"Find more matches", "What else fits me?"},
	tools.NameAidFinder:      {"Find food banks", "Nearby resources"},
	tools.NameDonationDrives: {"Find food drives", "What can I donate?"},
}

// GenerateSuggestions proposes follow-up chips for the exchange. Falls back
// to the static per-tool set when the model yields fewer than two.
func GenerateSuggestions(ctx context.Context, gen Generator, toolName, message, reply string) []string {
	suggestions := staticSuggestions[toolName]

	if gen == nil || message == "" || reply == "" {
		return suggestions
	}
	text, err := gen.GenerateText(ctx, prompts.Suggestions(message, reply))
	if err != nil {
		return suggestions
	}

	var generated []string
	if err := json.Unmarshal([]byte(gemini.CleanJSON(text)), &generated); err != nil {
		return suggestions
	}
	if len(generated) >= 2 {
		return generated
	}
	return suggestions
}
