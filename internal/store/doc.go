// Package store provides the in-memory reaction cache and subscriber registry.
//
// # Overview
//
// The Store is the single place the rest of the engine reads and writes
// reaction state. It maps item ids to their last-known Reaction and keeps a
// per-item list of subscriber callbacks that want to hear about changes.
//
//	Producers:                      Consumers:
//	┌───────────────────┐          ┌──────────────────┐
//	│ sync engine       │          │ UI widgets        │
//	│ persistence merge │──Put────→│ Get / Subscribe   │
//	└───────────────────┘  Notify  └──────────────────┘
//
// # Update Semantics
//
// Put replaces an entry wholesale: last write wins, no merging. The two
// deliberate exceptions live in the callers: an optimistic write starts from
// the current counts, and MergeUserReaction touches only the user's own
// choice while preserving counts, because durable and bulk-resync data never
// carries trustworthy counts. Merged entries keep their old UpdatedAt (zero
// for brand-new ones) so the next read revalidates with the server.
//
// # Notification Contract
//
// Notify is synchronous and delivers in registration order. Each callback
// runs under a recover; a panicking subscriber is logged and the rest still
// get the update. Callbacks receive deep copies and are invoked outside the
// store lock, so a subscriber may call back into the store freely.
//
// Subscribe replays the current cached state to the new subscriber before
// returning. That replay is what lets a widget mount after a bulk resync has
// already run and still render the right value, with no re-broadcast timers.
//
// # Lifecycle
//
// Entries appear on first read-or-write and are evicted only by Clear, the
// session-logout path. Clear returns the dropped ids; the caller notifies
// them so every widget flips to the empty state. Subscriptions are not
// cleared; they belong to live widgets, not to the session.
package store
