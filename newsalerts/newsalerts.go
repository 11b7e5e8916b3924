// Package newsalerts polls Malaysian news RSS feeds and turns the headline
// stream into short-lived emergency and community alerts. Generated alerts
// carry Source "ai" so each run can replace the previous batch without
// touching hand-curated alerts.
package newsalerts

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/onlyvolunteer/backend/gemini"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/prompts"
)

const (
	itemsPerFeed  = 5
	maxAlerts     = 10
	alertLifetime = 12 * time.Hour

	defaultLocationContext = "Cover Malaysia in general. Focus on: Kuala Lumpur, Selangor, Johor, Pahang, Kelantan, Perak, Sabah, Sarawak."
)

// AlertStore persists generated alerts.
type AlertStore interface {
	DeleteGeneratedAlerts(ctx context.Context) (int, error)
	AddAlert(ctx context.Context, alert *models.Alert) error
}

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Article is one fetched news item reduced to what the prompt needs.
type Article struct {
	Title   string
	Summary string
}

// Result reports what a single polling run did.
type Result struct {
	OK                bool   `json:"ok"`
	Message           string `json:"message,omitempty"`
	ArticlesProcessed int    `json:"articlesProcessed"`
	AlertsCreated     int    `json:"alertsCreated"`
}

// Service runs the news-to-alerts pipeline.
type Service struct {
	store      AlertStore
	textGen    TextGenerator
	feeds      []string
	httpClient *http.Client
}

// NewService creates a news alert service polling the given feed URLs.
func NewService(store AlertStore, textGen TextGenerator, feeds []string, httpClient *http.Client) *Service {
	return &Service{
		store:      store,
		textGen:    textGen,
		feeds:      feeds,
		httpClient: httpClient,
	}
}

// Run fetches the feeds, asks the model for alerts, and replaces the
// previous generated batch. Feed failures are skipped, not fatal: the
// prompt tolerates a thin article list.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	articles := s.fetchArticles(ctx)

	alerts, err := s.generateAlerts(ctx, articles)
	if err != nil {
		return &Result{Message: err.Error(), ArticlesProcessed: len(articles)}, err
	}
	if len(alerts) == 0 {
		return &Result{Message: "no alerts generated", ArticlesProcessed: len(articles)}, nil
	}

	deleted, err := s.store.DeleteGeneratedAlerts(ctx)
	if err != nil {
		log.Printf("[NewsAlerts] Failed to clear previous generated alerts: %v", err)
	} else if deleted > 0 {
		log.Printf("[NewsAlerts] Cleared %d previous generated alerts", deleted)
	}

	created := 0
	expiry := time.Now().Add(alertLifetime)
	for _, alert := range alerts {
		if created >= maxAlerts {
			break
		}
		record := &models.Alert{
			Title:     alert.Title,
			Body:      alert.Body,
			Type:      normalizeAlertType(alert.Type),
			Region:    alert.Region,
			Severity:  alert.Severity,
			Source:    "ai",
			ExpiresAt: expiry,
		}
		if record.Title == "" {
			continue
		}
		if err := s.store.AddAlert(ctx, record); err != nil {
			log.Printf("[NewsAlerts] Failed to store alert %q: %v", record.Title, err)
			continue
		}
		created++
	}

	log.Printf("[NewsAlerts] Run complete: %d articles, %d alerts created", len(articles), created)
	return &Result{
		OK:                true,
		ArticlesProcessed: len(articles),
		AlertsCreated:     created,
	}, nil
}

func (s *Service) fetchArticles(ctx context.Context) []Article {
	var articles []Article
	for _, feedURL := range s.feeds {
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			log.Printf("[NewsAlerts] Feed %s failed: %v", feedURL, err)
			continue
		}
		articles = append(articles, items...)
	}
	return articles
}

func (s *Service) fetchFeed(ctx context.Context, feedURL string) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	return ParseFeed(body)
}

// generateAlerts builds the prompt and parses the model's JSON array.
func (s *Service) generateAlerts(ctx context.Context, articles []Article) ([]generatedAlert, error) {
	if s.textGen == nil {
		return nil, fmt.Errorf("text model not configured")
	}

	prompt := prompts.NewsAlerts(
		formatArticles(articles),
		defaultLocationContext,
		time.Now().Format("Monday, 2 January 2006"),
	)
	text, err := s.textGen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("alert generation failed: %w", err)
	}

	raw := extractJSONArray(gemini.CleanJSON(text))
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var alerts []generatedAlert
	if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
		return nil, fmt.Errorf("failed to parse generated alerts: %w", err)
	}
	return alerts, nil
}

type generatedAlert struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Severity string `json:"severity"`
}

func formatArticles(articles []Article) string {
	if len(articles) == 0 {
		return "(no articles fetched this cycle)"
	}
	var b strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. Title: %s\n   Summary: %s\n", i+1, a.Title, a.Summary)
	}
	return b.String()
}

func normalizeAlertType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "flood":
		return "flood"
	case "sos":
		return "sos"
	default:
		return "general"
	}
}

// extractJSONArray returns the outermost [...] slice of text, or "".
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// rssDocument covers the RSS 2.0 shape all the configured feeds use.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
}

// ParseFeed decodes an RSS body into at most itemsPerFeed articles.
func ParseFeed(body []byte) ([]Article, error) {
	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := doc.Channel.Items
	if len(items) > itemsPerFeed {
		items = items[:itemsPerFeed]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(stripHTML(item.Title))
		if title == "" {
			continue
		}
		articles = append(articles, Article{
			Title:   title,
			Summary: strings.TrimSpace(stripHTML(item.Description)),
		})
	}
	return articles, nil
}

// stripHTML drops markup tags and unescapes entities. Feed descriptions
// often embed anchor tags and image markup around the actual summary.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(strings.Join(strings.Fields(b.String()), " "))
}
