package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/model"
	"github.com/beatty/myagent/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel replays a fixed sequence of responses, recording the requests
// it receives.
type scriptedModel struct {
	responses []*model.Response
	requests  []model.Request
}

var _ model.Model = (*scriptedModel)(nil)

func (m *scriptedModel) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	m.requests = append(m.requests, req)
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("script exhausted after %d requests", len(m.requests))
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "mock", SupportsTools: true}
}

func textResponse(text string) *model.Response {
	return &model.Response{
		Content:      core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: "stop",
	}
}

func callResponse(calls ...core.FunctionCall) *model.Response {
	parts := make([]core.Part, 0, len(calls))
	for _, fc := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	return &model.Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Owner: config.Owner{
			Name:  "Alex Doe",
			Email: "alex@example.com",
			Bio:   "Engineer and amateur baker.",
		},
		Agent: config.Agent{
			Name:        "Aria",
			Provider:    "mock",
			Personality: "friendly and concise",
		},
		Storage: config.Storage{
			FilesDir:    filepath.Join(dir, "files"),
			MessagesDir: filepath.Join(dir, "messages"),
		},
		Command: config.Command{TimeoutSeconds: 5},
	}
}

func TestBuildInstruction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Agent.Instruction = "Always answer in English."

	got, err := BuildInstruction(cfg)
	require.NoError(t, err)

	assert.Contains(t, got, "I am Aria.")
	assert.Contains(t, got, "on behalf of Alex Doe")
	assert.Contains(t, got, "Always answer in English.")
	assert.Contains(t, got, "My personality: friendly and concise")
}

func TestAssistantToolRegistry(t *testing.T) {
	a, err := New(testConfig(t), &scriptedModel{})
	require.NoError(t, err)

	var names []string
	for _, tl := range a.Tools() {
		names = append(names, tl.Name())
	}
	assert.Equal(t, []string{
		"get_bio",
		"relay_message",
		"request_meeting",
		"write_file",
		"read_file",
		"list_files",
		"execute_command",
	}, names)
}

func TestRunPlainAnswer(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{textResponse("Hello there!")}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	got, err := a.Run(context.Background(), "s1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", got)

	require.Len(t, m.requests, 1)
	req := m.requests[0]
	assert.Contains(t, req.Instructions, "I am Aria.")
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "hi", req.Contents[0].Text())
	assert.Len(t, req.Tools, 7)
}

func TestRunBioToolRound(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "get_bio", Arguments: "{}"}),
		textResponse("The owner is Alex Doe."),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	got, err := a.Run(context.Background(), "s1", "who do you work for?")
	require.NoError(t, err)
	assert.Equal(t, "The owner is Alex Doe.", got)

	// Second request must carry the tool response turn.
	require.Len(t, m.requests, 2)
	contents := m.requests[1].Contents
	require.Len(t, contents, 3) // user, assistant call, tool response
	assert.Equal(t, "tool", contents[2].Role)

	fr, ok := contents[2].Parts[0].(core.FunctionResponsePart)
	require.True(t, ok)
	assert.Equal(t, "fc-1", fr.FunctionResponse.ID)
	assert.Empty(t, fr.FunctionResponse.Error)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(fr.FunctionResponse.Response.(string)), &record))
	assert.Equal(t, "success", record["status"])
	assert.Equal(t, "Alex Doe", record["name"])
	assert.Equal(t, "alex@example.com", record["email"])
}

func TestRunGeneratesMissingCallID(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{Name: "get_bio", Arguments: "{}"}),
		textResponse("done"),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "bio please")
	require.NoError(t, err)

	contents := m.requests[1].Contents
	fr := contents[2].Parts[0].(core.FunctionResponsePart)
	if fr.FunctionResponse.ID == "" {
		t.Fatal("expected a generated function call id")
	}
}

func TestRunUnknownTool(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "launch_rocket", Arguments: "{}"}),
		textResponse("I cannot do that."),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	got, err := a.Run(context.Background(), "s1", "launch!")
	require.NoError(t, err)
	assert.Equal(t, "I cannot do that.", got)

	fr := m.requests[1].Contents[2].Parts[0].(core.FunctionResponsePart)
	assert.Equal(t, "unknown tool: launch_rocket", fr.FunctionResponse.Error)
	assert.Nil(t, fr.FunctionResponse.Response)
}

func TestRunValidationErrorEchoedToModel(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "relay_message", Arguments: `{"sender_email": 42}`}),
		textResponse("Sorry, I need a proper email."),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "relay this")
	require.NoError(t, err)

	fr := m.requests[1].Contents[2].Parts[0].(core.FunctionResponsePart)
	assert.Contains(t, fr.FunctionResponse.Error, "validation")
}

func TestRunIterationBound(t *testing.T) {
	// A model that never stops asking for tools must not loop forever.
	responses := make([]*model.Response, 0, 3)
	for i := 0; i < 3; i++ {
		responses = append(responses, callResponse(core.FunctionCall{ID: fmt.Sprintf("fc-%d", i), Name: "get_bio", Arguments: "{}"}))
	}
	m := &scriptedModel{responses: responses}
	a, err := New(testConfig(t), m, func(o *Options) { o.MaxIterations = 3 })
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 tool-call rounds")
}

func TestRunFileRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-w", Name: "write_file", Arguments: `{"filename":"notes.txt","content":"remember the milk"}`}),
		callResponse(core.FunctionCall{ID: "fc-r", Name: "read_file", Arguments: `{"filename":"notes.txt"}`}),
		textResponse("Saved and read back."),
	}}
	a, err := New(cfg, m)
	require.NoError(t, err)

	got, err := a.Run(context.Background(), "s1", "save a note")
	require.NoError(t, err)
	assert.Equal(t, "Saved and read back.", got)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.FilesDir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))

	fr := m.requests[2].Contents[4].Parts[0].(core.FunctionResponsePart)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(fr.FunctionResponse.Response.(string)), &record))
	assert.Equal(t, "success", record["status"])
	assert.Equal(t, "remember the milk", record["content"])
	assert.Equal(t, "text", record["encoding"])
	assert.Equal(t, "text/plain", record["mime_type"])
}

func TestRunRelayMessagePersistsRecord(t *testing.T) {
	cfg := testConfig(t)
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{
			ID:        "fc-1",
			Name:      "relay_message",
			Arguments: `{"sender_email":"bob@example.com","priority":"high","message":"call me back"}`,
		}),
		textResponse("Message relayed."),
	}}
	a, err := New(cfg, m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "tell the owner to call Bob")
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.Storage.MessagesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.MessagesDir, entries[0].Name()))
	require.NoError(t, err)

	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "bob@example.com", saved["sender_email"])
	assert.Equal(t, "high", saved["priority"])
	assert.Equal(t, "call me back", saved["message"])
	assert.Equal(t, "Alex Doe", saved["owner_name"])
}

func TestRunExecuteCommand(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "execute_command", Arguments: `{"command":"echo hello"}`}),
		textResponse("The command printed hello."),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "run echo")
	require.NoError(t, err)

	fr := m.requests[1].Contents[2].Parts[0].(core.FunctionResponsePart)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(fr.FunctionResponse.Response.(string)), &record))
	assert.Equal(t, "success", record["status"])
	assert.Equal(t, "hello\n", record["stdout"])
	assert.Equal(t, float64(0), record["return_code"])
}

func TestRunHistoryAcrossTurns(t *testing.T) {
	history := session.NewInMemoryStore()
	m := &scriptedModel{responses: []*model.Response{
		textResponse("Hi!"),
		textResponse("Still here."),
	}}
	a, err := New(testConfig(t), m, func(o *Options) { o.History = history })
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "hello")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "s1", "are you there?")
	require.NoError(t, err)

	// Second request sees the full first exchange.
	require.Len(t, m.requests, 2)
	contents := m.requests[1].Contents
	require.Len(t, contents, 3)
	assert.Equal(t, "hello", contents[0].Text())
	assert.Equal(t, "Hi!", contents[1].Text())
	assert.Equal(t, "are you there?", contents[2].Text())

	turns, err := history.History("s1")
	require.NoError(t, err)
	assert.Len(t, turns, 4)
}

func TestRunSessionIsolation(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		textResponse("a"),
		textResponse("b"),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "first")
	require.NoError(t, err)
	_, err = a.Run(context.Background(), "s2", "second")
	require.NoError(t, err)

	// s2's request must not contain s1's turns.
	contents := m.requests[1].Contents
	require.Len(t, contents, 1)
	assert.Equal(t, "second", contents[0].Text())
}

func TestReadMissingFileDisposition(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "read_file", Arguments: `{"filename":"ghost.txt"}`}),
		textResponse("No such file."),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "s1", "read ghost.txt")
	require.NoError(t, err)

	fr := m.requests[1].Contents[2].Parts[0].(core.FunctionResponsePart)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(fr.FunctionResponse.Response.(string)), &record))
	assert.Equal(t, "error", record["status"])
	assert.Equal(t, "file not found: ghost.txt", record["disposition"])
}

func TestRunToolPanicContained(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		callResponse(core.FunctionCall{ID: "fc-1", Name: "boom", Arguments: "{}"}),
		textResponse("recovered"),
	}}
	a, err := New(testConfig(t), m)
	require.NoError(t, err)
	a.RegisterTool(panicTool{})

	got, err := a.Run(context.Background(), "s1", "explode")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)

	fr := m.requests[1].Contents[2].Parts[0].(core.FunctionResponsePart)
	assert.Equal(t, "boom failed", fr.FunctionResponse.Error)
	if strings.Contains(fr.FunctionResponse.Error, "kaboom") {
		t.Fatal("panic detail leaked into the model-facing error")
	}
}

type panicTool struct{}

func (panicTool) Name() string                { return "boom" }
func (panicTool) Description() string         { return "always panics" }
func (panicTool) Parameters() map[string]any  { return map[string]any{"type": "object"} }
func (panicTool) Call(*core.ToolContext, map[string]any) (any, error) {
	panic("kaboom")
}
