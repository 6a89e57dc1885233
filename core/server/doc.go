// Package server holds the HTTP server configuration.
//
// While the start command handles the actual server startup, this package
// defines the configuration structure for server settings: the listen port,
// the API key protecting the API, and the tenant scope of the instance.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the start command to bind the listener.
package server
