// Package engine is the reaction sync coordinator.
//
// # Overview
//
// The engine is the only component with real control flow: it mediates every
// path between the UI, the in-memory store, the durable persistence adapter,
// and the server gateway.
//
//	         ┌──────────┐  subscribe/notify  ┌────────────┐
//	 UI ────→│  engine  │───────────────────→│   store    │
//	         └────┬─────┘                    └────────────┘
//	              │ fetch/write                    ↑ merge
//	         ┌────┴─────┐                    ┌─────┴──────┐
//	         │ gateway  │                    │  persist   │
//	         └──────────┘                    └────────────┘
//
// # Read Path
//
// Reaction returns a fresh cached entry without touching the network; a stale
// or missing entry triggers a fetch. Reads never fail: on any error the last
// cached value (or the empty state) is returned, because a read error should
// degrade the display, not break it. Entries merged in from durable storage
// or bulk resync carry a zero timestamp, so their counts are revalidated on
// first real read.
//
// # Write Path
//
// UpdateReaction applies the optimistic state (previous kind decremented,
// new kind incremented, user reaction set) and notifies subscribers before
// the request leaves the machine. The server's response then replaces the
// guess wholesale. On failure the engine recovers the true state with a
// fetch, falls back to the empty state if that also fails, and only then
// returns the original error, so the UI is never left holding an unconfirmed
// value while it shows an error.
//
// Per item, one write is in flight at a time. A request arriving mid-flight
// parks in a depth-1 queue slot; a newer request replaces a parked one, and
// the replaced caller resolves with the current local state. When the flight
// settles, a parked request whose kind the server just confirmed completes
// without a second network write, so a rapid double-click costs one request.
//
// # Bulk Resync
//
// Resync (re-entrancy guarded) lists the user's reactions, merges each one
// preserving whatever counts are already cached, persists the merged set, and
// notifies every touched item once. There is no delayed re-notification for
// late-mounting widgets; the store replays the latest state on subscribe.
//
// # Session Lifecycle
//
// BindSession wires the engine to the session signals: establishment starts
// a background resync over the existing cache, end clears the store and
// erases the durable blob, and an Unauthorized server response funnels into
// the end path instead of being retried locally.
package engine
