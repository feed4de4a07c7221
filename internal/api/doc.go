// Package api provides the HTTP client for the reaction service API.
//
// # Overview
//
// This is the engine's only I/O boundary toward the server. It wraps the
// three remote operations the sync engine needs (fetch one item's reaction
// state, fetch the authenticated user's full reaction list, and write or
// clear a reaction) behind the Gateway interface so tests can substitute a
// fake.
//
// # Endpoints
//
//   - GET    /items/{id}/reactions  → {user_reaction, reactions: {kind: count}}
//   - POST   /items/{id}/reaction   {reaction_type} → same shape
//   - DELETE /items/{id}/reaction   → same shape
//   - GET    /user-reactions        → [{item_id, reaction_type}]
//
// Writes return the authoritative post-write state including updated counts,
// which is what lets the engine reconcile an optimistic guess in a single
// round trip.
//
// # Error Taxonomy
//
// Responses with a defined meaning map to sentinel errors resolved through
// errors.Is:
//
//   - 401 → ErrUnauthorized  (session invalid; triggers the logout path)
//   - 404 → ErrNotFound      (item missing; read caches stay untouched)
//   - 409 → ErrConflict      (logically invalid transition, e.g. item deleted)
//
// Transport failures (refused connection, timeout, DNS) are wrapped with
// context and match none of the sentinels; callers treat them as "network
// error, use cached data".
//
// # Authentication
//
// The client holds an optional bearer token, installed at session
// establishment via SetToken and dropped at session end. Token access is
// mutex-guarded because session transitions and in-flight requests run on
// different goroutines.
//
// # Design Rationale
//
// The client is intentionally minimal: no caching (the store owns that), no
// retries (the engine's degrade-to-cache policy makes retries pointless), and
// no streaming. Reaction kinds pass through as opaque strings so a new
// server-side kind needs no client change.
package api
