// Package model defines the provider-neutral interface the assistant uses to
// drive generation, plus a deterministic mock for tests. Provider adapters
// (OpenAI, Anthropic) live in subpackages and translate the normalized
// Request/Response structures into vendor SDK calls.
package model
