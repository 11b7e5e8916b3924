package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/tools"
)

type fakeStore struct {
	user     *models.User
	history  []models.ChatTurn
	appended []models.ChatTurn
}

func (f *fakeStore) GetUser(_ context.Context, _ string) (*models.User, error) {
	if f.user == nil {
		return nil, errors.New("user not found")
	}
	return f.user, nil
}

func (f *fakeStore) AttendancesByUser(_ context.Context, _ string, _ int) ([]models.Attendance, error) {
	return nil, nil
}

func (f *fakeStore) ConversationHistory(_ context.Context, _ string, _ int) ([]models.ChatTurn, error) {
	return f.history, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, _ string, role, content string) error {
	f.appended = append(f.appended, models.ChatTurn{Role: role, Content: content})
	return nil
}

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func (f *fakeGenerator) Chat(_ context.Context, _ string, _ []models.ChatTurn, _ string) (string, error) {
	return f.reply, f.err
}

type echoTool struct {
	name string
	out  interface{}
	err  error
	last *tools.Request
}

func (t *echoTool) Name() string                          { return t.name }
func (t *echoTool) Description() string                   { return "test tool" }
func (t *echoTool) InputSchema() map[string]interface{}   { return nil }
func (t *echoTool) Run(_ context.Context, req *tools.Request) (interface{}, error) {
	t.last = req
	return t.out, t.err
}
func (t *echoTool) Execute(_ context.Context, _ json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func newTestOrchestrator(store *fakeStore, gen Generator, toolList ...tools.Tool) *Orchestrator {
	registry := tools.NewRegistry()
	for _, tl := range toolList {
		registry.Register(tl)
	}
	return New(store, registry, gen, NewLimiter(nil, true))
}

func TestHandleRequiresUserID(t *testing.T) {
	o := newTestOrchestrator(&fakeStore{}, nil)
	_, err := o.Handle(context.Background(), &models.AssistantRequest{})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestHandleDispatchesTool(t *testing.T) {
	store := &fakeStore{user: &models.User{DisplayName: "Aisyah", Role: models.RoleVolunteer}}
	tool := &echoTool{name: tools.NameAlerts, out: map[string]int{"totalActive": 2}}
	gen := &fakeGenerator{reply: "Two alerts are active right now."}
	o := newTestOrchestrator(store, gen, tool)

	resp, err := o.Handle(context.Background(), &models.AssistantRequest{
		UserID:  "u1",
		Message: "any flood alerts near me?",
	})
	require.NoError(t, err)
	assert.Equal(t, tools.NameAlerts, resp.ToolUsed)
	assert.Equal(t, "Two alerts are active right now.", resp.Text)
	assert.NotNil(t, resp.Data)
	require.NotNil(t, tool.last)
	assert.Equal(t, "u1", tool.last.UserID)
	assert.Equal(t, "Aisyah", tool.last.Context.DisplayName)
}

func TestHandleToolFailureFallsBackToChat(t *testing.T) {
	store := &fakeStore{}
	tool := &echoTool{name: tools.NameAlerts, err: errors.New("store down")}
	gen := &fakeGenerator{reply: "Here is what I know instead."}
	o := newTestOrchestrator(store, gen, tool)

	resp, err := o.Handle(context.Background(), &models.AssistantRequest{
		UserID:  "u1",
		Message: "any alerts?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Here is what I know instead.", resp.Text)
	assert.Nil(t, resp.Data)
}

func TestHandleChatWithoutTool(t *testing.T) {
	store := &fakeStore{history: []models.ChatTurn{{Role: models.ChatRoleUser, Content: "hi"}}}
	gen := &fakeGenerator{reply: "Hello! How can I help?"}
	o := newTestOrchestrator(store, gen)

	resp, err := o.Handle(context.Background(), &models.AssistantRequest{
		UserID:  "u1",
		Message: "hello there",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ToolUsed)
	assert.Equal(t, "Hello! How can I help?", resp.Text)

	// both sides of the exchange are remembered
	require.Len(t, store.appended, 2)
	assert.Equal(t, models.ChatRoleUser, store.appended[0].Role)
	assert.Equal(t, models.ChatRoleModel, store.appended[1].Role)
}

func TestHandleEmptyRequestListsCapabilities(t *testing.T) {
	o := newTestOrchestrator(&fakeStore{}, nil)

	resp, err := o.Handle(context.Background(), &models.AssistantRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, capabilitiesPrompt, resp.Text)
	assert.Empty(t, resp.ToolUsed)
}

func TestHandleRateLimited(t *testing.T) {
	counters := newFakeCounterStore()
	registry := tools.NewRegistry()
	o := New(&fakeStore{}, registry, nil, limiterAt(counters, time.UnixMilli(1_700_000_000_000)))

	var lastErr error
	for i := 0; i < 11; i++ {
		_, lastErr = o.Handle(context.Background(), &models.AssistantRequest{
			UserID:  "u1",
			Message: "hello",
		})
	}
	var rateErr *RateLimitError
	require.ErrorAs(t, lastErr, &rateErr)
	assert.Equal(t, 60, rateErr.RetryAfterSeconds)
}
