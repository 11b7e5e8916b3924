package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/tools"
)

const (
	historyLimit = 6

	rateLimitedText = "Too many requests. Please try again later."
	errorText       = "I encountered an error. Please try again or ask about alerts, insights, matching, or nearby aid."
)

// ErrMissingUserID rejects requests with no user identity.
var ErrMissingUserID = errors.New("userId is required")

// RateLimitError signals a rejected request; the transport layer maps it to
// a too-many-requests response.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
}

// Store is the persistence surface the orchestrator itself touches.
type Store interface {
	ContextStore
	ConversationHistory(ctx context.Context, userID string, limit int) ([]models.ChatTurn, error)
	AppendMessage(ctx context.Context, userID, role, content string) error
}

// Orchestrator wires the router, rate limiter, tool registry, formatter,
// and conversation memory behind one Handle call.
type Orchestrator struct {
	store    Store
	registry *tools.Registry
	gen      Generator
	limiter  *Limiter
}

// New creates an orchestrator. gen may be nil; every model-dependent step
// degrades to deterministic fallbacks.
func New(store Store, registry *tools.Registry, gen Generator, limiter *Limiter) *Orchestrator {
	return &Orchestrator{
		store:    store,
		registry: registry,
		gen:      gen,
		limiter:  limiter,
	}
}

// Handle processes one assistant request end to end. Tool and model
// failures never escape; the only returned errors are input validation and
// rate limiting.
func (o *Orchestrator) Handle(ctx context.Context, req *models.AssistantRequest) (*models.AssistantResponse, error) {
	if req.UserID == "" {
		return nil, ErrMissingUserID
	}
	page := req.PageContext
	if page == "" {
		page = models.PageChat
	}

	category := CategoryChat
	if req.AutoExecute || Route(req.Message, page, false) != "" {
		category = CategoryTool
	}
	if result := o.limiter.Check(ctx, category, req.UserID); !result.Allowed {
		return &models.AssistantResponse{Text: rateLimitedText}, &RateLimitError{RetryAfterSeconds: result.RetryAfterSeconds}
	}

	userCtx := BuildContext(ctx, o.store, req.UserID, page)
	toolName := Route(req.Message, page, req.AutoExecute)

	var toolData interface{}
	if toolName != "" {
		if tool, ok := o.registry.Get(toolName); ok {
			out, err := tool.Run(ctx, &tools.Request{
				UserID:   req.UserID,
				Message:  req.Message,
				Context:  userCtx,
				Metadata: req.Metadata,
			})
			if err != nil {
				log.Printf("[Orchestrator] Tool %s failed: %v", toolName, err)
			} else {
				toolData = out
			}
		} else {
			log.Printf("[Orchestrator] No tool registered for %q", toolName)
		}
	}

	var history []models.ChatTurn
	if req.Message != "" {
		h, err := o.store.ConversationHistory(ctx, req.UserID, historyLimit)
		if err != nil {
			log.Printf("[Orchestrator] History read failed for %s: %v", req.UserID, err)
		} else {
			history = h
		}
	}

	var text string
	switch {
	case toolData != nil:
		text = FormatToolResult(ctx, o.gen, userCtx, toolName, toolData, req.Message)
	case req.Message != "":
		text = ChatWithContext(ctx, o.gen, userCtx, history, req.Message)
	default:
		text = capabilitiesPrompt
	}
	if text == "" {
		text = errorText
	}

	if req.Message != "" {
		o.remember(ctx, req.UserID, req.Message, text)
	}

	resp := &models.AssistantResponse{
		Text:     text,
		Data:     toolData,
		ToolUsed: toolName,
	}
	resp.Suggestions = GenerateSuggestions(ctx, o.gen, toolName, req.Message, text)
	return resp, nil
}

func (o *Orchestrator) remember(ctx context.Context, userID, message, reply string) {
	if err := o.store.AppendMessage(ctx, userID, models.ChatRoleUser, message); err != nil {
		log.Printf("[Orchestrator] Conversation append failed: %v", err)
		return
	}
	if err := o.store.AppendMessage(ctx, userID, models.ChatRoleModel, reply); err != nil {
		log.Printf("[Orchestrator] Conversation append failed: %v", err)
	}
}
