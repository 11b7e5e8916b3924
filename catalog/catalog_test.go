package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
)

func TestContentChanged(t *testing.T) {
	base := func() *models.Listing {
		return &models.Listing{
			Title:          "Beach Cleanup",
			Description:    "Clean up Port Dickson beach",
			Location:       "Negeri Sembilan",
			SkillsRequired: []string{"manual labor"},
			StartTime:      time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name   string
		mutate func(*models.Listing)
		want   bool
	}{
		{"identical", func(*models.Listing) {}, false},
		{"title", func(l *models.Listing) { l.Title = "River Cleanup" }, true},
		{"description", func(l *models.Listing) { l.Description = "changed" }, true},
		{"location", func(l *models.Listing) { l.Location = "Melaka" }, true},
		{"skills", func(l *models.Listing) { l.SkillsRequired = []string{"driving"} }, true},
		{"start time", func(l *models.Listing) { l.StartTime = l.StartTime.Add(time.Hour) }, true},
		{"tags only", func(l *models.Listing) { l.Tags = []string{"Environment"} }, false},
		{"embedding only", func(l *models.Listing) { l.Embedding = []float64{0.1} }, false},
		{"updatedAt only", func(l *models.Listing) { l.UpdatedAt = time.Now() }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, after := base(), base()
			tt.mutate(after)
			assert.Equal(t, tt.want, ContentChanged(before, after))
		})
	}
}

type fakeListingStore struct {
	listings []models.Listing
	updates  map[string][]string
}

func (f *fakeListingStore) ListingsMissingTags(_ context.Context, _ int) ([]models.Listing, error) {
	return f.listings, nil
}

func (f *fakeListingStore) UpdateListingCatalog(_ context.Context, id string, tags []string, _ []float64) error {
	if f.updates == nil {
		f.updates = make(map[string][]string)
	}
	f.updates[id] = tags
	return nil
}

type fakeTagGen struct{ text string }

func (f *fakeTagGen) GenerateText(_ context.Context, _ string) (string, error) {
	return f.text, nil
}

type fakeEmbedder struct{ vec []float64 }

func (f *fakeEmbedder) EmbedText(_ context.Context, _ string) ([]float64, error) {
	return f.vec, nil
}

func TestSweepFillsMissingCatalogData(t *testing.T) {
	store := &fakeListingStore{listings: []models.Listing{
		{ID: "l1", Title: "Tutoring"},
		{ID: "l2", Title: "Shelter Shift", Tags: []string{"Animals"}},
	}}
	gen := &fakeTagGen{text: `["Education", "Weekend Only", "  "]`}
	maintainer := NewMaintainer(store, gen, &fakeEmbedder{vec: []float64{0.5, 0.5}})

	result, err := maintainer.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Failed)

	// generated tags are trimmed, blanks dropped
	assert.Equal(t, []string{"Education", "Weekend Only"}, store.updates["l1"])
	// existing tags are kept as-is
	assert.Equal(t, []string{"Animals"}, store.updates["l2"])
}

func TestSweepWithoutModels(t *testing.T) {
	store := &fakeListingStore{listings: []models.Listing{{ID: "l1", Title: "Tutoring"}}}
	maintainer := NewMaintainer(store, nil, nil)

	result, err := maintainer.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, store.updates)
}
