// Package config loads the syna client configuration from
// ~/.config/syna/config.toml, with defaults when the file is missing and a
// SYNA_API_URL environment override for the API endpoint.
package config
