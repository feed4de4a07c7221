// Package app wires the kudos components together and runs the TUI.
//
// Run builds the dependency graph in a fixed order: configuration and
// preferences first, then the API client, the in-memory store, the durable
// storage adapter, the session signals, and finally the engine. Callback
// registration order matters in one place: the session token is wired into
// the API client before the engine binds its resync hook, so the resync
// that follows a login is already authenticated.
//
// The app is also where session state crosses process boundaries. Local
// establish/end transitions are mirrored to a durable marker file, and
// marker changes written by other kudos processes are replayed into the
// local session signals. Both directions rely on the signals being
// idempotent so the mirroring cannot loop.
package app
