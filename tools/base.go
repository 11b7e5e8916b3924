// Package tools implements the assistant's dispatchable tools: alerts,
// analytics, matching, aid finder, donation drives, and the mini profiler.
// Every tool tolerates partial data and treats empty result sets as valid.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/onlyvolunteer/backend/models"
)

// Canonical tool names used by the router and the registry.
const (
	NameAlerts         = "alerts"
	NameAnalytics      = "analytics"
	NameMatching       = "matching"
	NameMatchMeMini    = "match_me_mini"
	NameAidFinder      = "aidfinder"
	NameDonationDrives = "donation_drives"
)

// Request carries the per-invocation inputs shared by every tool.
type Request struct {
	UserID   string
	Message  string
	Context  *models.UserContext
	Metadata *models.RequestMetadata
}

// Tool is a dispatchable unit of assistant capability
type Tool interface {
	// Name returns the tool name
	Name() string

	// Description returns the tool description for the agent
	Description() string

	// InputSchema returns the JSON schema for the tool input
	InputSchema() map[string]interface{}

	// Run executes the tool for an orchestrated request
	Run(ctx context.Context, req *Request) (interface{}, error)

	// Execute runs the tool with raw JSON input (MCP path)
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// TextGenerator produces a text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Registry holds all available tools
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// Definitions returns tool definitions for tools/list responses
func (r *Registry) Definitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		})
	}
	return definitions
}

// Result represents the result of a tool execution
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewSuccessResult creates a successful tool result
func NewSuccessResult(data interface{}) (json.RawMessage, error) {
	result := Result{Success: true}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	result.Data = dataBytes
	return json.Marshal(result)
}

// NewErrorResult creates an error tool result
func NewErrorResult(errMsg string) (json.RawMessage, error) {
	result := Result{
		Success: false,
		Error:   errMsg,
	}
	return json.Marshal(result)
}

// rawInput is the JSON shape accepted by every tool's Execute method.
type rawInput struct {
	UserID   string                  `json:"userId"`
	Message  string                  `json:"message,omitempty"`
	Metadata *models.RequestMetadata `json:"metadata,omitempty"`
}

// executeRaw adapts a raw JSON invocation onto Run with a minimal context.
func executeRaw(ctx context.Context, tool Tool, input json.RawMessage) (json.RawMessage, error) {
	var in rawInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &in); err != nil {
			return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
		}
	}

	req := &Request{
		UserID:   in.UserID,
		Message:  in.Message,
		Context:  &models.UserContext{UserID: in.UserID, PageContext: models.PageChat},
		Metadata: in.Metadata,
	}
	out, err := tool.Run(ctx, req)
	if err != nil {
		return NewErrorResult(err.Error())
	}
	return NewSuccessResult(out)
}

// userIDSchema is the shared base input schema for user-scoped tools.
func userIDSchema(extra map[string]interface{}) map[string]interface{} {
	properties := map[string]interface{}{
		"userId": map[string]interface{}{
			"type":        "string",
			"description": "ID of the user the tool runs for",
		},
	}
	for k, v := range extra {
		properties[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   []string{"userId"},
	}
}
