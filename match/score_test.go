package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onlyvolunteer/backend/models"
)

func TestWeightedProfileScore(t *testing.T) {
	tests := []struct {
		name    string
		profile models.MatchProfile
		listing models.Listing
		want    int
	}{
		{
			name: "teaching weekender in selangor",
			profile: models.MatchProfile{
				Skills:       []string{"teaching"},
				Location:     "Selangor",
				Availability: "weekends",
			},
			listing: models.Listing{
				Title:          "After-school Tutoring",
				SkillsRequired: []string{"Teaching", "Tutoring"},
				Location:       "Selangor, Malaysia",
				Tags:           []string{"Weekend Only"},
			},
			// skills 17.5 + location 20 + availability 15 + tags 5 = 57.5
			want: 58,
		},
		{
			name:    "no required skills and no tag match gives baseline",
			profile: models.MatchProfile{Skills: []string{"quantum juggling"}},
			listing: models.Listing{Title: "Beach Cleanup", Tags: []string{"Animals"}},
			// skills 15 + location neutral 10
			want: 25,
		},
		{
			name:    "no required skills but skill found in tags",
			profile: models.MatchProfile{Skills: []string{"coding"}},
			listing: models.Listing{Title: "Hackathon Helper", Tags: []string{"Coding"}},
			// skills 25 + location neutral 10 + tag overlap 5
			want: 40,
		},
		{
			name: "cause matched in description",
			profile: models.MatchProfile{
				Causes: []string{"environment"},
			},
			listing: models.Listing{
				Title:       "River Restoration",
				Description: "Protect the environment around Sungai Klang",
			},
			// skills 15 + causes 25 + location neutral 10
			want: 50,
		},
		{
			name: "interest matched when causes miss",
			profile: models.MatchProfile{
				Causes:    []string{"animals"},
				Interests: []string{"education"},
			},
			listing: models.Listing{
				Title:       "Education Outreach",
				Description: "Bring lessons to rural schools",
			},
			want: 50,
		},
		{
			name: "location declared but no overlap",
			profile: models.MatchProfile{
				Location: "Penang",
			},
			listing: models.Listing{
				Title:    "Food Bank Sorting",
				Location: "Johor Bahru",
			},
			// skills 15 + location 10
			want: 25,
		},
		{
			name: "availability declared without schedule tag",
			profile: models.MatchProfile{
				Availability: "weekday evenings",
			},
			listing: models.Listing{Title: "Admin Support"},
			// skills 15 + location neutral 10 + availability partial 7
			want: 32,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedProfileScore(&tt.profile, &tt.listing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeightedProfileScoreBounds(t *testing.T) {
	profiles := []models.MatchProfile{
		{},
		{Skills: []string{"teaching", "coding", "driving"}, Interests: []string{"animals"},
			Availability: "weekends and evenings", Location: "KL", Causes: []string{"education", "health"}},
		{Skills: []string{"x"}},
	}
	listings := []models.Listing{
		{},
		{Title: "Everything Event", Description: "teaching coding animals education health",
			SkillsRequired: []string{"Teaching"}, Location: "KL",
			Tags: []string{"Weekend Only", "Evenings", "Teaching", "Animals", "Education"}},
		{Title: "Minimal"},
	}
	for _, p := range profiles {
		for _, l := range listings {
			got := WeightedProfileScore(&p, &l)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}

func TestCapacityAwareScore(t *testing.T) {
	tests := []struct {
		name    string
		profile models.MatchProfile
		listing models.Listing
		want    int
	}{
		{
			name: "full marks",
			profile: models.MatchProfile{
				Skills:    []string{"Teaching"},
				Interests: []string{"education"},
				Location:  "Selangor",
			},
			listing: models.Listing{
				Title:          "School Mentor",
				SkillsRequired: []string{"Teaching"},
				Category:       "Education",
				Location:       "Selangor",
				SlotsTotal:     10,
				SlotsFilled:    2,
			},
			want: 100,
		},
		{
			name: "few slots left lowers capacity credit",
			profile: models.MatchProfile{
				Skills:    []string{"Teaching"},
				Interests: []string{"education"},
				Location:  "Selangor",
			},
			listing: models.Listing{
				Title:          "School Mentor",
				SkillsRequired: []string{"Teaching"},
				Category:       "Education",
				Location:       "Selangor",
				SlotsTotal:     10,
				SlotsFilled:    7,
			},
			want: 93,
		},
		{
			name:    "no required skills gives half skill credit",
			profile: models.MatchProfile{},
			listing: models.Listing{Title: "Open Day Helper"},
			want:    20,
		},
		{
			name: "fuzzy skill does not count",
			profile: models.MatchProfile{
				Skills: []string{"teach"},
			},
			listing: models.Listing{
				Title:          "School Mentor",
				SkillsRequired: []string{"Teaching"},
			},
			want: 0,
		},
		{
			name: "category falls back to title",
			profile: models.MatchProfile{
				Interests: []string{"mentor"},
			},
			listing: models.Listing{
				Title: "School Mentor Program",
			},
			// skills baseline 20 + interest 25
			want: 45,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CapacityAwareScore(&tt.profile, &tt.listing)
			assert.Equal(t, tt.want, got)
		})
	}
}
