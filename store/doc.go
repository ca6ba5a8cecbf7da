// Package store implements the dual-backend file store: reads and writes
// target an optional artifact backend when one is injected, and a fallback
// directory on local disk otherwise. Writes always land locally first and are
// best-effort mirrored to the backend; reads prefer the backend and degrade
// to disk on miss or backend error, so backend unavailability never surfaces
// as a hard failure.
package store
