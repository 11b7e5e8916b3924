// Package catalog maintains the volunteer listing catalog: generated tags
// and searchable embeddings, refreshed whenever a listing's content changes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/onlyvolunteer/backend/gemini"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

const (
	sweepFetchLimit = 50
	maxTags         = 10
)

// ListingStore provides catalog reads and writes.
type ListingStore interface {
	ListingsMissingTags(ctx context.Context, limit int) ([]models.Listing, error)
	UpdateListingCatalog(ctx context.Context, listingID string, tags []string, embedding []float64) error
}

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// SweepResult reports one maintenance sweep.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Maintainer fills in missing tags and embeddings for listings.
type Maintainer struct {
	store    ListingStore
	textGen  TextGenerator
	embedder Embedder
}

// NewMaintainer creates a catalog maintainer. Either generator may be nil;
// the sweep fills in whatever the available models can produce.
func NewMaintainer(store ListingStore, textGen TextGenerator, embedder Embedder) *Maintainer {
	return &Maintainer{store: store, textGen: textGen, embedder: embedder}
}

// Sweep scans recent listings lacking tags or an embedding and fills them
// in. Per-listing failures are logged and counted, never fatal.
func (m *Maintainer) Sweep(ctx context.Context) (*SweepResult, error) {
	listings, err := m.store.ListingsMissingTags(ctx, sweepFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}

	result := &SweepResult{Scanned: len(listings)}
	for i := range listings {
		listing := &listings[i]

		tags := listing.Tags
		if len(tags) == 0 {
			tags = m.generateTags(ctx, listing)
		}
		embedding := listing.Embedding
		if len(embedding) == 0 {
			embedding = m.embed(ctx, listing)
		}

		if len(tags) == 0 && len(embedding) == 0 {
			result.Failed++
			continue
		}
		if err := m.store.UpdateListingCatalog(ctx, listing.ID, tags, embedding); err != nil {
			log.Printf("[Catalog] Failed to update listing %s: %v", listing.ID, err)
			result.Failed++
			continue
		}
		result.Updated++
	}

	log.Printf("[Catalog] Sweep complete: %d scanned, %d updated, %d failed",
		result.Scanned, result.Updated, result.Failed)
	return result, nil
}

// Refresh regenerates tags and the embedding for one listing. Intended for
// the update path: callers gate it with ContentChanged.
func (m *Maintainer) Refresh(ctx context.Context, listing *models.Listing) error {
	tags := m.generateTags(ctx, listing)
	embedding := m.embed(ctx, listing)
	if len(tags) == 0 && len(embedding) == 0 {
		return fmt.Errorf("no catalog data generated for listing %s", listing.ID)
	}
	return m.store.UpdateListingCatalog(ctx, listing.ID, tags, embedding)
}

func (m *Maintainer) generateTags(ctx context.Context, listing *models.Listing) []string {
	if m.textGen == nil {
		return nil
	}

	prompt := prompts.TagGenerationSystem + "\n\n" + prompts.TagGeneration(listing)
	text, err := m.textGen.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[Catalog] Tag generation failed for listing %s: %v", listing.ID, err)
		return nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(gemini.CleanJSON(text)), &tags); err != nil {
		log.Printf("[Catalog] Unparseable tag response for listing %s: %v", listing.ID, err)
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
		if len(out) >= maxTags {
			break
		}
	}
	return out
}

func (m *Maintainer) embed(ctx context.Context, listing *models.Listing) []float64 {
	if m.embedder == nil {
		return nil
	}

	text := listing.Title
	if listing.Description != "" {
		text += ". " + listing.Description
	}
	embedding, err := m.embedder.EmbedText(ctx, text)
	if err != nil {
		log.Printf("[Catalog] Embedding failed for listing %s: %v", listing.ID, err)
		return nil
	}
	return embedding
}

// ContentChanged reports whether the fields that feed tag generation and
// embeddings differ between two versions of a listing. Tag, embedding, and
// timestamp churn alone never triggers a refresh.
func ContentChanged(before, after *models.Listing) bool {
	if before == nil || after == nil {
		return true
	}
	return before.Title != after.Title ||
		before.Description != after.Description ||
		before.Location != after.Location ||
		!before.StartTime.Equal(after.StartTime) ||
		!before.EndTime.Equal(after.EndTime) ||
		!equalStrings(before.SkillsRequired, after.SkillsRequired)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
