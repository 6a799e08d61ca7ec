// Package session orchestrates one CLI invocation's work: it drives the
// session state machine, normalizes reference audio, talks to the backend
// client, and persists voices through the store.
//
// A session holds at most one in-memory voice (the "current voice") and
// moves between three states: Idle (no voice), ReferenceLoaded (a voice is
// ready), and a transient Generating state that collapses back to
// ReferenceLoaded when synthesis completes. The backend is chosen once at
// engine construction and never changes for the engine's lifetime.
package session
