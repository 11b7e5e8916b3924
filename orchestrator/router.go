// Package orchestrator is the entry point of the assistant core: it
// validates requests, enforces rate limits, builds user context, routes to
// a tool, formats the result, and maintains conversation memory.
package orchestrator

import (
	"strings"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/tools"
)

// Keyword groups checked in priority order. First hit wins.
var (
	alertKeywords = []string{
		"alert", "alerts", "sos", "crisis", "emergency", "current issues",
		"flood", "disaster", "urgent", "what's happening", "breaking",
	}
	analyticsKeywords = []string{
		"insight", "insights", "stats", "statistics", "analytics", "performance",
		"how are we", "metrics", "numbers", "report", "dashboard",
	}
	matchingKeywords = []string{
		"match", "match me", "recommend", "recommendation", "suitable", "for me",
		"best for me", "what can i do", "opportunities for me", "fit",
	}
	donationDriveKeywords = []string{
		"donation drive", "donation drives", "drives", "food drive", "food drives",
		"find donation", "ongoing drives", "where to donate", "donation campaign",
	}
	aidFinderKeywords = []string{
		"nearby", "nearby aid", "aid", "find aid", "food bank", "foodbank",
		"resource", "resources", "help near", "where can i get", "donation center",
	}
)

var pageTools = map[models.PageContext]string{
	models.PageAnalytics: tools.NameAnalytics,
	models.PageAidFinder: tools.NameAidFinder,
	models.PageAlerts:    tools.NameAlerts,
	models.PageMatch:     tools.NameMatchMeMini,
}

// Route picks the tool for a request without any model call. Priority:
// page auto-execute, then message keywords, then page fallback. Returns ""
// when no tool applies (plain chat).
func Route(message string, page models.PageContext, autoExecute bool) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	if autoExecute {
		if tool, ok := pageTools[page]; ok {
			return tool
		}
	}

	if lower != "" {
		switch {
		case containsAny(lower, alertKeywords):
			return tools.NameAlerts
		case containsAny(lower, analyticsKeywords):
			return tools.NameAnalytics
		case containsAny(lower, matchingKeywords):
			return tools.NameMatchMeMini
		case containsAny(lower, donationDriveKeywords):
			return tools.NameDonationDrives
		case containsAny(lower, aidFinderKeywords):
			return tools.NameAidFinder
		}
	}

	if tool, ok := pageTools[page]; ok {
		return tool
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
