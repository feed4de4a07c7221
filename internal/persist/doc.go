// Package persist is the durable-storage adapter for the reaction engine.
//
// # Overview
//
// Two JSON files under a shared data directory stand in for the browser's
// shared key-value storage:
//
//   - reactions.json: the user's own reaction choices (itemID to kind)
//   - session.json: the session marker (active flag, user, token)
//
// Every process pointed at the same directory shares both, and fsnotify on
// the directory is the "changed by another execution context" channel.
//
// # What Persists
//
// Only entries with a present user reaction are stored. Counts never touch
// disk: they are ephemeral cache and must be revalidated from the server, so
// an external merge writes only the user-reaction field into the store and
// leaves locally known counts alone.
//
// # Write Discipline
//
// Writes go through a temp file and rename, so a reader never observes a
// torn blob. Each blob carries the writing process's origin id (a per-process
// uuid); the watcher drops blobs carrying its own origin, which is how a
// process avoids reacting to echoes of its own writes. Rescans are debounced
// because one atomic write produces several fsnotify events, and a
// last-content check suppresses duplicate merges when unrelated files in the
// directory churn.
//
// # Failure Policy
//
// Durable persistence is an optimization, not a correctness requirement; the
// server stays the source of truth. Unreadable blobs and failed saves are
// logged and otherwise ignored; the engine keeps running on server + memory.
package persist
