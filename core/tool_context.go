package core

import (
	"context"
	"errors"

	"github.com/beatty/myagent/logging"
)

// ErrNoArtifactStore is returned by artifact helpers when no backend was
// injected. The artifact backend is an explicitly optional capability:
// callers check presence via HasArtifactStore instead of probing at runtime.
var ErrNoArtifactStore = errors.New("artifact store not configured")

// ToolContext provides the constrained surface a tool implementation sees
// for a single invocation: the request context, session and function call
// identifiers, a structured logger, and the optional artifact capability.
// It carries no mutable session state; tools close over their own
// dependencies via their constructors.
type ToolContext struct {
	ctx            context.Context
	sessionID      string
	functionCallID string
	logger         logging.Logger
	artifacts      ArtifactStore
}

// NewToolContext constructs a tool context bound to a session and a unique
// functionCallID. artifacts may be nil when no backend is configured.
func NewToolContext(ctx context.Context, sessionID, functionCallID string, logger logging.Logger, artifacts ArtifactStore) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ToolContext{
		ctx:            ctx,
		sessionID:      sessionID,
		functionCallID: functionCallID,
		logger:         logger,
		artifacts:      artifacts,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// HasArtifactStore reports whether an artifact backend was injected.
func (tc *ToolContext) HasArtifactStore() bool { return tc.artifacts != nil }

// ArtifactStore returns the injected artifact backend, or nil.
func (tc *ToolContext) ArtifactStore() ArtifactStore { return tc.artifacts }

// SaveArtifact persists artifact bytes under the invocation's session.
func (tc *ToolContext) SaveArtifact(name string, data []byte) error {
	if tc.artifacts == nil {
		return ErrNoArtifactStore
	}
	return tc.artifacts.Save(tc.ctx, tc.sessionID, name, data)
}

// LoadArtifact retrieves a persisted artifact by name.
func (tc *ToolContext) LoadArtifact(name string) ([]byte, error) {
	if tc.artifacts == nil {
		return nil, ErrNoArtifactStore
	}
	return tc.artifacts.Get(tc.ctx, tc.sessionID, name)
}

// ListArtifacts returns artifact names stored for the session.
func (tc *ToolContext) ListArtifacts() ([]string, error) {
	if tc.artifacts == nil {
		return nil, ErrNoArtifactStore
	}
	return tc.artifacts.List(tc.ctx, tc.sessionID)
}
