// Package config handles loading and parsing the kudos configuration file.
//
// # Overview
//
// The configuration lives at ~/.config/kudos/config.toml and tells the
// program where the reaction API listens, where the shared data directory
// (the durable reaction store) lives, how long cached reaction state counts
// as fresh, which items to watch by default, and optionally a stored session.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kudos/config.toml
//  3. If the file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults per field
//
// # File Format
//
//	api_bind = "127.0.0.1:8642"
//	data_dir = "~/.local/share/kudos"
//	fresh_secs = 60
//	items = ["rev-100", "rev-101"]
//
//	[session]
//	user = "ada"
//	token = "..."
//
// # Default Values
//
//   - Config file: ~/.config/kudos/config.toml
//   - API bind:    127.0.0.1:8642
//   - Data dir:    ~/.local/share/kudos
//   - Freshness:   60 seconds
//
// The data_dir is deliberately shared: every kudos process on the machine
// pointed at the same directory converges through it, the way browser tabs
// converge through shared local storage.
//
// # Error Handling
//
// A missing config file is not an error. A present-but-unparsable file is,
// since silently ignoring an explicit configuration would be worse than
// failing at startup.
package config
