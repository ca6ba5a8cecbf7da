package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/beatty/myagent/command"
	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/logging"
	"github.com/beatty/myagent/model"
	"github.com/beatty/myagent/relay"
	"github.com/beatty/myagent/session"
	"github.com/beatty/myagent/store"
	"github.com/beatty/myagent/tool"
	"github.com/google/uuid"
)

// defaultMaxIterations bounds the generate/execute loop per Run call so a
// model that keeps requesting tools cannot spin forever.
const defaultMaxIterations = 10

// Options configure an Assistant beyond what the config file provides.
type Options struct {
	// Logger receives structured assistant events.
	Logger logging.Logger
	// Artifacts is the optional artifact backend mirrored by the file store.
	Artifacts core.ArtifactStore
	// History stores conversation turns per session.
	History session.Store
	// MaxIterations bounds tool-call rounds per Run invocation.
	MaxIterations int
}

// Assistant drives a model through the personal-assistant toolset. It owns
// the persona instruction, the tool registry and the per-session history;
// the model itself is injected.
type Assistant struct {
	cfg           *config.Config
	model         model.Model
	instruction   string
	logger        logging.Logger
	artifacts     core.ArtifactStore
	history       session.Store
	maxIterations int

	tools map[string]tool.Tool
	order []string // registration order, for stable tool declarations
}

// New assembles an Assistant from configuration: persona instruction,
// bounded command executor, message store, dual-backend file store and the
// standard toolset.
func New(cfg *config.Config, m model.Model, optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		Logger:        logging.NoOpLogger{},
		History:       session.NewInMemoryStore(),
		MaxIterations: defaultMaxIterations,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.History == nil {
		opts.History = session.NewInMemoryStore()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = defaultMaxIterations
	}

	instruction, err := BuildInstruction(cfg)
	if err != nil {
		return nil, fmt.Errorf("build instruction: %w", err)
	}

	a := &Assistant{
		cfg:           cfg,
		model:         m,
		instruction:   instruction,
		logger:        opts.Logger,
		artifacts:     opts.Artifacts,
		history:       opts.History,
		maxIterations: opts.MaxIterations,
		tools:         make(map[string]tool.Tool),
	}

	files := store.NewFileStore(cfg.Storage.FilesDir, func(o *store.Options) {
		o.Artifacts = opts.Artifacts
		o.Logger = opts.Logger
	})
	messages := relay.NewStore(cfg.Storage.MessagesDir, func(o *relay.Options) {
		o.Logger = opts.Logger
	})
	executor := command.NewExecutor(func(o *command.Options) {
		o.Timeout = time.Duration(cfg.Command.TimeoutSeconds) * time.Second
		o.Logger = opts.Logger
	})

	a.RegisterTool(NewBioTool(cfg))
	a.RegisterTool(NewRelayMessageTool(cfg, messages))
	a.RegisterTool(NewRequestMeetingTool(cfg, messages))
	a.RegisterTool(NewWriteFileTool(files))
	a.RegisterTool(NewReadFileTool(files))
	a.RegisterTool(NewListFilesTool(files))
	a.RegisterTool(NewExecuteCommandTool(executor))

	return a, nil
}

// RegisterTool adds (or replaces) a tool in the registry.
func (a *Assistant) RegisterTool(t tool.Tool) {
	if _, exists := a.tools[t.Name()]; !exists {
		a.order = append(a.order, t.Name())
	}
	a.tools[t.Name()] = t
}

// Tools returns the registered tools in registration order.
func (a *Assistant) Tools() []tool.Tool {
	out := make([]tool.Tool, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.tools[name])
	}
	return out
}

// Instruction returns the rendered persona instruction.
func (a *Assistant) Instruction() string { return a.instruction }

// toolDefinitions converts the registry into model-facing declarations.
func (a *Assistant) toolDefinitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(a.order))
	for _, name := range a.order {
		t := a.tools[name]
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

// Run processes one user message for the session: it appends the message to
// the session history, then alternates model generation and tool execution
// until the model answers without tool calls (or the iteration bound is
// reached). The final assistant text is returned; all intermediate turns are
// persisted to the history.
func (a *Assistant) Run(ctx context.Context, sessionID, message string) (string, error) {
	if err := a.history.Append(sessionID, core.NewUserText(message)); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}

	for i := 0; i < a.maxIterations; i++ {
		contents, err := a.history.History(sessionID)
		if err != nil {
			return "", fmt.Errorf("load history: %w", err)
		}

		resp, err := a.model.Generate(ctx, model.Request{
			Instructions: a.instruction,
			Contents:     contents,
			Tools:        a.toolDefinitions(),
		})
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}

		if err := a.history.Append(sessionID, resp.Content); err != nil {
			return "", fmt.Errorf("append assistant turn: %w", err)
		}

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			return resp.Content.Text(), nil
		}

		responses := make([]core.Part, 0, len(calls))
		for _, fc := range calls {
			responses = append(responses, a.executeCall(ctx, sessionID, fc))
		}
		if err := a.history.Append(sessionID, core.Content{Role: "tool", Parts: responses}); err != nil {
			return "", fmt.Errorf("append tool responses: %w", err)
		}
	}

	return "", fmt.Errorf("no final answer after %d tool-call rounds", a.maxIterations)
}

// executeCall dispatches one function call to its tool and packages the
// outcome as a response part. Tool panics and errors are contained here:
// internal fault text goes to the log, the model sees a generic failure.
func (a *Assistant) executeCall(ctx context.Context, sessionID string, fc core.FunctionCall) core.FunctionResponsePart {
	id := fc.ID
	if id == "" {
		id = uuid.NewString()
	}

	respond := func(payload any, errMsg string) core.FunctionResponsePart {
		return core.FunctionResponsePart{
			FunctionResponse: core.FunctionResponse{
				ID:       id,
				Name:     fc.Name,
				Response: payload,
				Error:    errMsg,
			},
		}
	}

	t, ok := a.tools[fc.Name]
	if !ok {
		a.logger.Warn("assistant.tool.unknown", "tool", fc.Name, "fc_id", id)
		return respond(nil, fmt.Sprintf("unknown tool: %s", fc.Name))
	}

	var args map[string]any
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			a.logger.Warn("assistant.tool.bad_arguments", "tool", fc.Name, "error", err.Error())
			return respond(nil, "invalid tool arguments")
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := a.callTool(ctx, sessionID, id, t, args)
	if err != nil {
		if toolErr, ok := err.(*tool.ToolError); ok && toolErr.Code == "VALIDATION_ERROR" {
			// Validation messages describe the model's own arguments and are
			// safe to echo back so it can correct them.
			return respond(nil, toolErr.Message)
		}
		a.logger.Error("assistant.tool.failed", "tool", fc.Name, "error", err.Error())
		return respond(nil, fmt.Sprintf("%s failed", fc.Name))
	}

	payload, err := json.Marshal(result)
	if err != nil {
		a.logger.Error("assistant.tool.encode_failed", "tool", fc.Name, "error", err.Error())
		return respond(nil, fmt.Sprintf("%s failed", fc.Name))
	}
	return respond(string(payload), "")
}

// callTool invokes the tool with panic containment.
func (a *Assistant) callTool(ctx context.Context, sessionID, fcID string, t tool.Tool, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panic: %v", r)
		}
	}()
	toolCtx := core.NewToolContext(ctx, sessionID, fcID, a.logger, a.artifacts)
	return t.Call(toolCtx, args)
}
