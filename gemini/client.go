package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/onlyvolunteer/backend/config"
	"github.com/onlyvolunteer/backend/models"
)

// Client wraps the Vertex AI Gemini client for text generation and the
// Vertex prediction endpoint for embeddings. Every call site treats the
// service as unreliable and carries its own fallback.
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	predictor     *aiplatform.PredictionClient
	embedEndpoint string
	modelName     string
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.5)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(1024)

	c := &Client{
		client:    client,
		model:     model,
		modelName: cfg.GeminiModel,
	}

	// Embeddings are optional: without them ranking degrades to rule-only.
	predictor, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)))
	if err != nil {
		log.Printf("[Gemini] Embedding client unavailable, falling back to rule-only scoring: %v", err)
	} else {
		c.predictor = predictor
		c.embedEndpoint = fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
			cfg.ProjectID, cfg.Location, cfg.EmbeddingModel)
	}

	return c, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.predictor != nil {
		if err := c.predictor.Close(); err != nil {
			log.Printf("[Gemini] Failed to close prediction client: %v", err)
		}
	}
	return c.client.Close()
}

// GenerateText sends a single prompt and returns the text completion.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("no response from Gemini")
	}
	return text, nil
}

// Chat sends a message with a system instruction and prior turn history.
func (c *Client) Chat(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0.5)
	model.SetTopP(0.8)
	model.SetMaxOutputTokens(1024)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	session := model.StartChat()
	session.History = make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("chat message failed: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", errors.New("no response from Gemini")
	}
	return text, nil
}

// EmbedText returns a fixed-dimension embedding vector for the given text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float64, error) {
	if c.predictor == nil {
		return nil, errors.New("embedding model not configured")
	}

	instance, err := structpb.NewValue(map[string]any{
		"content":   text,
		"task_type": "RETRIEVAL_DOCUMENT",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build embed instance: %w", err)
	}

	resp, err := c.predictor.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  c.embedEndpoint,
		Instances: []*structpb.Value{instance},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return nil, errors.New("empty embedding response")
	}

	values := resp.Predictions[0].
		GetStructValue().Fields["embeddings"].
		GetStructValue().Fields["values"].
		GetListValue().GetValues()
	if len(values) == 0 {
		return nil, errors.New("embedding response has no values")
	}

	vector := make([]float64, len(values))
	for i, v := range values {
		vector[i] = v.GetNumberValue()
	}
	return vector, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}

// CleanJSON strips markdown code fences the model sometimes wraps around
// JSON answers.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
