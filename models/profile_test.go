package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]any
		want    MatchProfile
	}{
		{
			name: "canonical keys",
			answers: map[string]any{
				"skills":       "coding, teaching",
				"interests":    []string{"robotics"},
				"availability": " weekends ",
				"location":     "Selangor",
				"causes":       "education; youth",
			},
			want: MatchProfile{
				Skills:       []string{"coding", "teaching"},
				Interests:    []string{"robotics"},
				Availability: "weekends",
				Location:     "Selangor",
				Causes:       []string{"education", "youth"},
			},
		},
		{
			name: "questionnaire keys",
			answers: map[string]any{
				"q1": "teaching",
				"q2": "robotics",
				"q3": "weekends",
				"q4": "Penang",
				"q5": "animals",
			},
			want: MatchProfile{
				Skills:       []string{"teaching"},
				Interests:    []string{"robotics"},
				Availability: "weekends",
				Location:     "Penang",
				Causes:       []string{"animals"},
			},
		},
		{
			name: "short questionnaire falls back one key",
			answers: map[string]any{
				"q1": "teaching",
				"q2": "weekends",
			},
			want: MatchProfile{
				Skills:       []string{"teaching"},
				Interests:    []string{"weekends"},
				Availability: "weekends",
			},
		},
		{
			name: "skills cross-fill from interests",
			answers: map[string]any{
				"interests": "gardening",
			},
			want: MatchProfile{
				Skills:    []string{"gardening"},
				Interests: []string{"gardening"},
			},
		},
		{
			name: "interests cross-fill from skills",
			answers: map[string]any{
				"skills": "first aid",
			},
			want: MatchProfile{
				Skills:    []string{"first aid"},
				Interests: []string{"first aid"},
			},
		},
		{
			name: "blank values skipped for aliases",
			answers: map[string]any{
				"skills": "   ",
				"skill":  "driving",
			},
			want: MatchProfile{
				Skills:    []string{"driving"},
				Interests: []string{"driving"},
			},
		},
		{
			name: "mixed any slice",
			answers: map[string]any{
				"skills": []any{"coding", 42, " teaching "},
			},
			want: MatchProfile{
				Skills:    []string{"coding", "teaching"},
				Interests: []string{"coding", "teaching"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswers(tt.answers)
			assert.Equal(t, tt.want.Skills, got.Skills)
			assert.Equal(t, tt.want.Interests, got.Interests)
			assert.Equal(t, tt.want.Availability, got.Availability)
			assert.Equal(t, tt.want.Location, got.Location)
			assert.Equal(t, tt.want.Causes, got.Causes)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b; c"))
	assert.Empty(t, SplitList("  ,  ; "))
}

func TestMatchProfilePromptText(t *testing.T) {
	empty := MatchProfile{}
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "Volunteer looking for opportunities", empty.PromptText())

	full := MatchProfile{
		Skills:       []string{"teaching"},
		Availability: "weekends",
		Location:     "Selangor",
	}
	assert.False(t, full.IsEmpty())
	assert.Equal(t, "Skills: teaching. Availability: weekends. Location: Selangor", full.PromptText())
}

func TestListingSlotsLeft(t *testing.T) {
	assert.Equal(t, 3, (&Listing{SlotsTotal: 10, SlotsFilled: 7}).SlotsLeft())
	assert.Equal(t, 0, (&Listing{SlotsTotal: 5, SlotsFilled: 8}).SlotsLeft())
}
