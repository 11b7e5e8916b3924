package models

import "strings"

// MatchProfile is the normalized description of a volunteer used by the
// scoring engines: what they can do, when, where, and what they care about.
type MatchProfile struct {
	Skills       []string `json:"skills" firestore:"skills"`
	Interests    []string `json:"interests" firestore:"interests"`
	Availability string   `json:"availability,omitempty" firestore:"availability,omitempty"`
	Location     string   `json:"location,omitempty" firestore:"location,omitempty"`
	Causes       []string `json:"causes,omitempty" firestore:"causes,omitempty"`
}

// IsEmpty reports whether nothing at all was captured.
func (p *MatchProfile) IsEmpty() bool {
	return len(p.Skills) == 0 && len(p.Interests) == 0 &&
		p.Availability == "" && p.Location == "" && len(p.Causes) == 0
}

// PromptText serializes the profile for embedding and prompt use.
func (p *MatchProfile) PromptText() string {
	var parts []string
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "Interests: "+strings.Join(p.Interests, ", "))
	}
	if p.Availability != "" {
		parts = append(parts, "Availability: "+p.Availability)
	}
	if p.Location != "" {
		parts = append(parts, "Location: "+p.Location)
	}
	if len(p.Causes) > 0 {
		parts = append(parts, "Causes: "+strings.Join(p.Causes, ", "))
	}
	if len(parts) == 0 {
		return "Volunteer looking for opportunities"
	}
	return strings.Join(parts, ". ")
}

// NormalizeAnswers builds a MatchProfile from free-form questionnaire
// answers. Values may be strings (comma/semicolon separated) or string
// slices; q1..q5 are the mini-profiler answer keys. Skills and interests
// cross-fill each other when one side is empty.
func NormalizeAnswers(answers map[string]any) MatchProfile {
	skills := normalizeList(firstOf(answers, "skills", "skill", "q1"))
	interests := normalizeList(firstOf(answers, "interests", "interest", "q2"))
	availability := normalizeString(firstOf(answers, "availability", "when", "q3", "q2"))
	location := normalizeString(firstOf(answers, "location", "where", "q4", "q3"))
	causes := normalizeList(firstOf(answers, "causes", "cause", "q5", "q4"))

	profile := MatchProfile{
		Skills:       skills,
		Interests:    interests,
		Availability: availability,
		Location:     location,
		Causes:       causes,
	}
	if len(profile.Skills) == 0 {
		profile.Skills = interests
	}
	if len(profile.Interests) == 0 {
		profile.Interests = skills
	}
	return profile
}

// SplitList splits a free-form answer on commas and semicolons, trimming
// whitespace and dropping empties.
func SplitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstOf(answers map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := answers[k]; ok && !isBlank(v) {
			return v
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func normalizeList(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		return SplitList(t)
	}
	return nil
}

func normalizeString(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
