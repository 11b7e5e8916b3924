package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onlyvolunteer/backend/models"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name        string
		message     string
		page        models.PageContext
		autoExecute bool
		want        string
	}{
		{
			name:    "alert keywords beat page fallback",
			message: "flood alert near me",
			page:    models.PageMatch,
			want:    "alerts",
		},
		{
			name:        "auto-execute uses page",
			message:     "",
			page:        models.PageAnalytics,
			autoExecute: true,
			want:        "analytics",
		},
		{
			name:        "auto-execute on unmapped page falls through to keywords",
			message:     "recommend something for me",
			page:        models.PageHome,
			autoExecute: true,
			want:        "match_me_mini",
		},
		{
			name:    "match intent in message",
			message: "what can I do this weekend?",
			page:    models.PageChat,
			want:    "match_me_mini",
		},
		{
			name:    "donation drives before aidfinder",
			message: "where to donate clothes",
			page:    models.PageChat,
			want:    "donation_drives",
		},
		{
			name:    "aid finder keywords",
			message: "is there a food bank in Klang",
			page:    models.PageChat,
			want:    "aidfinder",
		},
		{
			name:    "page fallback without keywords",
			message: "hello there",
			page:    models.PageAidFinder,
			want:    "aidfinder",
		},
		{
			name:    "no tool for plain chat",
			message: "hello there",
			page:    models.PageChat,
			want:    "",
		},
		{
			name: "no message no mapped page",
			page: models.PageHome,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.message, tt.page, tt.autoExecute)
			assert.Equal(t, tt.want, got)
		})
	}
}
