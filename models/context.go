package models

import (
	"strconv"
	"strings"
	"time"
)

// PageContext identifies which screen of the app the request came from.
type PageContext string

// Page context values
const (
	PageHome      PageContext = "home"
	PageAnalytics PageContext = "analytics"
	PageAidFinder PageContext = "aidfinder"
	PageAlerts    PageContext = "alerts"
	PageMatch     PageContext = "match"
	PageChat      PageContext = "chat"
)

// UserContext is the read-derived view of a user built once per orchestrated
// request: profile, role, volunteer history, and the page they are on. The
// core never mutates it.
type UserContext struct {
	UserID                string      `json:"userId"`
	DisplayName           string      `json:"displayName,omitempty"`
	Email                 string      `json:"email,omitempty"`
	Role                  string      `json:"role,omitempty"`
	Skills                []string    `json:"skills"`
	Interests             []string    `json:"interests"`
	Location              string      `json:"location,omitempty"`
	TotalHours            float64     `json:"totalHours,omitempty"`
	RecentActivitySummary []string    `json:"recentActivitySummary"`
	PageContext           PageContext `json:"pageContext"`
}

// PromptBlock serializes the context for a Gemini system prompt.
func (c *UserContext) PromptBlock() string {
	name := c.DisplayName
	if name == "" {
		name = c.Email
	}
	if name == "" {
		name = "User"
	}
	role := c.Role
	if role == "" {
		role = RoleVolunteer
	}
	location := c.Location
	if location == "" {
		location = "Not set"
	}
	parts := []string{
		"User: " + name,
		"Role: " + role,
		"Location: " + location,
		"Skills: " + joinOrNone(c.Skills),
		"Interests: " + joinOrNone(c.Interests),
		"Total volunteer hours: " + strconv.FormatFloat(c.TotalHours, 'f', -1, 64),
		"Current page: " + string(c.PageContext),
	}
	if len(c.RecentActivitySummary) > 0 {
		parts = append(parts, "Recent activity: "+strings.Join(c.RecentActivitySummary, "; "))
	}
	return strings.Join(parts, "\n")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// Chat roles stored in conversation history.
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatTurn is a single message in a user's conversation history.
type ChatTurn struct {
	Role      string    `json:"role" firestore:"role"`
	Content   string    `json:"content" firestore:"content"`
	Timestamp time.Time `json:"-" firestore:"timestamp,serverTimestamp"`
}

// RateCounter is the per-user, per-category fixed-window counter document.
// Windows are wall-clock time truncated to the minute/hour bucket, in unix
// milliseconds.
type RateCounter struct {
	MinuteWindow int64     `firestore:"minuteWindow"`
	MinuteCount  int       `firestore:"minuteCount"`
	HourWindow   int64     `firestore:"hourWindow"`
	HourCount    int       `firestore:"hourCount"`
	UpdatedAt    time.Time `firestore:"updatedAt,serverTimestamp"`
}
