// Package app wires configuration, the token store, the API client, and the
// session into the running TUI.
package app
