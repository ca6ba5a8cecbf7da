// Package session stores per-session conversation history so consecutive
// assistant invocations share context. The canonical Store interface is
// small on purpose: append and read back, keyed by session id.
package session
