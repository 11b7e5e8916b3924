package models

// MatchMeState is the caller-held mini-profiler state, passed by value in
// request metadata and returned alongside each question. The server keeps
// no session affinity for this flow.
type MatchMeState struct {
	Step    int               `json:"step"`
	Answers map[string]string `json:"answers"`
}

// RequestMetadata carries optional per-tool knobs from the client.
type RequestMetadata struct {
	Category     string        `json:"category,omitempty" example:"food"`
	Urgency      string        `json:"urgency,omitempty" example:"high"`
	MatchMeState *MatchMeState `json:"matchMeState,omitempty"`
}

// AssistantRequest is the orchestrator entry payload
// @Description AI assistant request
type AssistantRequest struct {
	UserID      string           `json:"userId" example:"uid123"`
	Message     string           `json:"message,omitempty" example:"any flood alerts near me?"`
	PageContext PageContext      `json:"pageContext,omitempty" example:"chat"`
	AutoExecute bool             `json:"autoExecute,omitempty" example:"false"`
	Metadata    *RequestMetadata `json:"metadata,omitempty"`
}

// AssistantResponse is the orchestrator reply
// @Description AI assistant response with optional structured tool output
type AssistantResponse struct {
	Text        string   `json:"text"`
	Data        any      `json:"data,omitempty"`
	ToolUsed    string   `json:"toolUsed,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// AssessmentRequest runs the match assessment from questionnaire answers
// @Description Match assessment request
type AssessmentRequest struct {
	UserID  string         `json:"userId,omitempty" example:"uid123"`
	Answers map[string]any `json:"answers"`
}

// ProfilerRequest asks for the next conversational profiler question
// @Description Conversational profiler request
type ProfilerRequest struct {
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

// ErrorResponse represents an API error response
// @Description Standard error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Code    int    `json:"code" example:"400"`
	Details string `json:"details,omitempty" example:"userId is required"`
}

// HealthResponse represents health check response
// @Description Server health status
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	Timestamp string `json:"timestamp" example:"2025-01-15T10:30:00Z"`
}
