// Package ui provides a Bubble Tea-based terminal UI for kudos.
//
// The model subscribes to every watched item through the engine; store
// notifications flow through a buffered channel into the Bubble Tea loop as
// messages, so optimistic updates, server reconciliation, and changes made
// by other kudos processes all render through the same path. Reaction keys
// toggle: pressing the key for the reaction already held clears it.
//
// Theme and the watched item list are saved to the preferences file on quit
// and on theme change.
package ui
