package core

import "context"

// ArtifactStore defines the interface for artifact persistence. Implementations
// must be safe for concurrent use and scope artifacts by session identifier.
// Short method names (Save/Get/List/Delete) mirror other store interfaces for
// consistency. Remote implementations honor the supplied context.
type ArtifactStore interface {
	Save(ctx context.Context, sessionID, name string, data []byte) error
	Get(ctx context.Context, sessionID, name string) ([]byte, error)
	List(ctx context.Context, sessionID string) ([]string, error)
	Delete(ctx context.Context, sessionID, name string) error
}
