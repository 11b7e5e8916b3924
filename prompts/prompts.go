// Package prompts centralizes every prompt string sent to Gemini: tag
// generation, match explanations, the conversational profiler, analytics
// insights, news alerts, and the assistant formatter.
// Tuning: temperature ~0.3 for extraction, ~0.5 for explanations.
package prompts

import (
	"fmt"
	"strings"

	"github.com/onlyvolunteer/backend/models"
)

// TagGenerationSystem instructs the model to tag a volunteer listing.
const TagGenerationSystem = `You are a volunteer opportunity tagger. Given a volunteer opportunity's title, description, required skills, location, and start/end times, output exactly one JSON array of 5-10 short tags.

Tag categories (include at least one from each that applies):
- logistics: e.g. "Requires Car", "Remote", "On-site", "Flexible Hours"
- schedule: e.g. "Weekend Only", "Weekday Only", "Evenings", "One-time", "Ongoing"
- skills: use the required skills or infer from description, e.g. "Graphic Design", "Teaching", "Coding", "Manual Labor"
- causes: e.g. "Animals", "Education", "Environment", "Health", "Community", "Youth", "Elderly"

Rules:
- Each tag is 2-4 words max. Use title case.
- Output ONLY a valid JSON array of strings, no other text. Example: ["Weekend Only", "Requires Car", "Animals", "Teaching"]`

// TagGeneration builds the user prompt for listing tag generation.
func TagGeneration(listing *models.Listing) string {
	parts := []string{"Title: " + listing.Title}
	if listing.Description != "" {
		parts = append(parts, "Description: "+listing.Description)
	}
	if len(listing.SkillsRequired) > 0 {
		parts = append(parts, "Required skills: "+strings.Join(listing.SkillsRequired, ", "))
	}
	if listing.Location != "" {
		parts = append(parts, "Location: "+listing.Location)
	}
	if !listing.StartTime.IsZero() {
		parts = append(parts, "Start: "+listing.StartTime.Format("2006-01-02 15:04"))
	}
	if !listing.EndTime.IsZero() {
		parts = append(parts, "End: "+listing.EndTime.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, "\n")
}

// MatchExplanationSystem sets the voice for per-match explanations.
const MatchExplanationSystem = `You are a friendly volunteer matching assistant. In 1-2 short sentences, explain why this volunteer opportunity fits this user's profile. Mention skills, cause, availability, and location only when relevant. Use a warm, encouraging tone. Do not use bullet points or JSON.`

// MatchExplanation builds the per-match explanation prompt.
func MatchExplanation(profile *models.MatchProfile, listing *models.Listing, score int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User profile: Skills %s. Interests: %s.",
		joinOr(profile.Skills, "none"), joinOr(profile.Interests, "none"))
	if profile.Availability != "" {
		fmt.Fprintf(&b, " Availability: %s.", profile.Availability)
	}
	if profile.Location != "" {
		fmt.Fprintf(&b, " Location: %s.", profile.Location)
	}
	if len(profile.Causes) > 0 {
		fmt.Fprintf(&b, " Causes: %s.", strings.Join(profile.Causes, ", "))
	}
	fmt.Fprintf(&b, "\n\nOpportunity: %s. %s Required skills: %s. Location: %s. Tags: %s.",
		listing.Title, listing.Description,
		joinOr(listing.SkillsRequired, "none"), orDefault(listing.Location, "N/A"),
		joinOr(listing.Tags, "none"))
	fmt.Fprintf(&b, "\n\nMatch score: %d/100. Provide a brief, friendly explanation of why this is a good fit.", score)
	return b.String()
}

// FallbackExplanation is the deterministic substitute used whenever the
// model cannot produce an explanation.
func FallbackExplanation(score int) string {
	return fmt.Sprintf("Good match based on your profile (%d%% fit).", score)
}

// ConversationalProfilerSystem drives the free-form profiler flow.
const ConversationalProfilerSystem = `You are a volunteer profiler for OnlyVolunteer. Your job is to ask one short question at a time to learn about the volunteer's skills, availability, location, and causes they care about.

Topics to cover (in a natural order, adapting to their answers):
- Skills: coding, teaching, manual labor, event planning, admin, driving, etc.
- Availability: weekdays, weekends, evenings, one-time vs ongoing
- Location: city/state/region (e.g. Selangor, KL) or "any"
- Causes: environment, education, animals, health, community, youth, elderly, etc.

Rules:
- Ask exactly ONE question per turn. Be concise and friendly.
- Adapt the next question based on what they already said; don't repeat.
- After you have enough info (typically 6-10 Q&A turns), respond with a single line starting with DONE: followed by a JSON object (no newlines inside) with keys: skills (array of strings), availability (string), location (string), causes (array of strings). Example: DONE:{"skills":["Teaching"],"availability":"Weekends","location":"Selangor","causes":["Education"]}
- If the user hasn't given enough info yet, just ask the next question, no DONE.
- Output only the question text, or the DONE:... line. No other preamble.`

// ProfilerTurn builds the user prompt from the conversation so far.
func ProfilerTurn(history []models.ChatTurn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		speaker := "Assistant"
		if t.Role == models.ChatRoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	return "Conversation so far:\n" + strings.Join(lines, "\n") + "\n\nWhat is your next question or DONE response?"
}

// Role-based analytics prompts. Each role gets a descriptive summary and a
// prescriptive follow-up, grounded strictly in the supplied metrics.

// VolunteerDescriptive summarizes a volunteer's contribution metrics.
func VolunteerDescriptive(m *models.VolunteerMetrics) string {
	return fmt.Sprintf(`As a volunteer on a volunteering platform, summarize what these contribution metrics say about this user in 2-4 short, encouraging sentences. Be personal and positive. Use only the numbers given; do not invent any figures.
Hours spent on volunteerism: %.1f
RM spent on donations: %.2f
Points collected: %d`, m.HoursVolunteered, m.RMDonations, m.PointsCollected)
}

// VolunteerPrescriptive asks for next-step suggestions for a volunteer.
func VolunteerPrescriptive(m *models.VolunteerMetrics) string {
	return fmt.Sprintf(`This volunteer has %.1f hours volunteered, RM %.2f donated, and %d points. Give 2-3 short, actionable suggestions (e.g. try a new opportunity, set a small donation goal, reach the next tier). Use only these numbers.`,
		m.HoursVolunteered, m.RMDonations, m.PointsCollected)
}

// OrganizerDescriptive summarizes an NGO organizer's impact metrics.
func OrganizerDescriptive(m *models.OrganizerMetrics) string {
	return fmt.Sprintf(`As an organizer on a volunteering platform, summarize what these metrics say about their impact in 2-4 short sentences. Be encouraging and data-driven. Use only the numbers given; do not invent any figures.
Total volunteers: %d
Active campaigns: %d
Impact funds (RM): %.2f`, m.TotalVolunteers, m.ActiveCampaigns, m.ImpactFunds)
}

// OrganizerPrescriptive asks for next-step recommendations for an organizer.
func OrganizerPrescriptive(m *models.OrganizerMetrics) string {
	return fmt.Sprintf(`This organizer has %d volunteers, %d active campaigns, and RM %.2f in impact funds. Give 2-3 short, actionable recommendations (e.g. recruit more volunteers, launch a campaign, hit a funding goal). Use only these numbers.`,
		m.TotalVolunteers, m.ActiveCampaigns, m.ImpactFunds)
}

// AdminDescriptive summarizes platform-wide metrics.
func AdminDescriptive(m *models.AdminMetrics) string {
	return fmt.Sprintf(`As a platform admin, summarize what these platform metrics indicate in 2-4 short sentences. Focus on health and growth. Use only the numbers given; do not invent any figures.
Number of users: %d
Number of organisations: %d
Active events: %d`, m.NumberOfUsers, m.NumberOfOrganisations, m.ActiveEvents)
}

// AdminPrescriptive asks for platform-level recommendations.
func AdminPrescriptive(m *models.AdminMetrics) string {
	return fmt.Sprintf(`The platform has %d users, %d organisations, and %d active events. Give 2-3 short admin recommendations (e.g. verify pending NGOs, highlight top events, address bottlenecks). Use only these numbers.`,
		m.NumberOfUsers, m.NumberOfOrganisations, m.ActiveEvents)
}

// AnalyticsQuestion answers a free-form question about the gathered metrics.
func AnalyticsQuestion(metricsJSON, question string) string {
	return fmt.Sprintf(`Answer the user's question using ONLY these platform metrics. If the metrics cannot answer it, say so; never invent numbers.

Metrics:
%s

Question: %s`, metricsJSON, question)
}

// AssistantFormat renders structured tool output into the assistant's voice.
func AssistantFormat(contextBlock, toolName, dataJSON, userMessage string) string {
	var b strings.Builder
	b.WriteString("You are OnlyVolunteer AI, a helpful volunteer assistant.\n\n")
	b.WriteString("User Context:\n" + contextBlock + "\n\n")
	b.WriteString("Tool that was used: " + toolName + "\n")
	b.WriteString("Structured data from tool:\n" + dataJSON + "\n")
	if userMessage != "" {
		b.WriteString("\nUser asked: \"" + userMessage + "\"\n")
	}
	b.WriteString(`
Your task: Explain this in a friendly, encouraging, and actionable way.
- Be concise (2-4 sentences).
- Highlight key points.
- End with a suggestion if relevant.
- Use emoji sparingly (0-2 max).
- Stay in character (helpful, not robotic).`)
	return b.String()
}

// AssistantChatSystem is the system instruction for tool-free chat.
func AssistantChatSystem(contextBlock string) string {
	return "You are OnlyVolunteer AI. Help with volunteer opportunities, donation drives, alerts, matching, and nearby aid.\n\nContext:\n" + contextBlock
}

// Suggestions asks for follow-up chips after an exchange.
func Suggestions(userMessage, assistantReply string) string {
	return fmt.Sprintf(`Given this exchange in a volunteer assistant chat, suggest 2-3 short follow-up questions the user might tap next. Each under 6 words.

User: %s
Assistant: %s

Output ONLY a valid JSON array of strings, no other text.`, userMessage, assistantReply)
}

// NewsAlerts builds the alert-generation prompt from fetched articles.
func NewsAlerts(articleSummaries, locationContext, today string) string {
	return fmt.Sprintf(`You are an emergency alert system for OnlyVolunteer, a Malaysian volunteer and aid platform.
Today is %s. %s

Based on the following real Malaysian news articles (and your knowledge of current conditions in Malaysia), generate between 5 and 10 emergency or community alerts. You MUST generate at least 5 alerts.

REAL NEWS ARTICLES:
%s

ALERT CRITERIA (from most to least urgent):
- HIGH severity: Active floods, fires, accidents, SOS rescue needed, disease outbreaks
- MEDIUM severity: Weather warnings, road closures, missing persons, supply shortages
- LOW severity: Community health campaigns, food distribution events, volunteer drives, general safety advisories

RULES:
- Always generate at least 5 alerts total
- If real news only covers 1-2 urgent topics, pad the rest with relevant low-severity community alerts based on current Malaysian seasonal context (monsoon season, haze, community events)
- Each alert must be specific to a real Malaysian location (state, city, or district)
- Never duplicate the same region + type combination
- Keep titles under 10 words
- Keep body to 1-2 factual sentences

Respond ONLY with a valid JSON array, no markdown, no explanation:
[
  {
    "title": "short alert title",
    "body": "1-2 sentence description",
    "type": "flood" or "sos" or "general",
    "region": "Malaysian state or city",
    "severity": "high" or "medium" or "low"
  }
]`, today, locationContext, articleSummaries)
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
