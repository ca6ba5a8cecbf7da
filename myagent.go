// Package myagent wires the personal assistant together from configuration:
// the artifact backend, the session history and the assistant itself with its
// standard toolset. The model is injected by the caller so transports stay
// swappable.
package myagent

import (
	"context"
	"fmt"

	"github.com/beatty/myagent/artifact"
	"github.com/beatty/myagent/assistant"
	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/logging"
	"github.com/beatty/myagent/model"
	"github.com/beatty/myagent/session"
)

// Options configure the assembled assistant.
type Options struct {
	// Logger receives structured events from every component. Defaults to a
	// slog text logger on stderr.
	Logger logging.Logger
	// ArtifactStore overrides the backend selected by the configuration.
	ArtifactStore core.ArtifactStore
	// History overrides the default in-memory session store.
	History session.Store
}

// New builds a ready-to-run assistant from the configuration. The artifact
// backend is selected by cfg.Artifact.Backend ("none", "memory" or "redis")
// unless one is injected via options.
func New(ctx context.Context, cfg *config.Config, m model.Model, optFns ...func(o *Options)) (*assistant.Assistant, error) {
	opts := Options{
		Logger:  logging.NewDefaultSlogLogger(),
		History: session.NewInMemoryStore(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	artifacts := opts.ArtifactStore
	if artifacts == nil {
		var err error
		artifacts, err = newArtifactStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return assistant.New(cfg, m, func(o *assistant.Options) {
		o.Logger = opts.Logger
		o.Artifacts = artifacts
		o.History = opts.History
	})
}

// newArtifactStore maps the configured backend name to an implementation.
// "none" yields nil, which the file store treats as local-only operation.
func newArtifactStore(ctx context.Context, cfg *config.Config) (core.ArtifactStore, error) {
	switch cfg.Artifact.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return artifact.NewInMemoryStore(), nil
	case "redis":
		store, err := artifact.NewRedisStore(ctx, artifact.RedisConfig{
			Addr:     cfg.Artifact.Redis.Addr,
			Password: cfg.Artifact.Redis.Password,
			DB:       cfg.Artifact.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("artifact backend: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Artifact.Backend)
	}
}
