// Package core holds the domain contracts shared across the module: role
// based content parts exchanged with models, the ArtifactStore interface for
// pluggable blob persistence, and the ToolContext handed to every tool
// invocation. Implementation packages (artifact, store, assistant) depend on
// these contracts rather than on each other.
package core
