// Package middleware groups the Fiber middlewares used by the HTTP server.
//
// The subpackages provide:
//   - rayid: assigns a unique ray_id to every request for log correlation
//   - auth: protects the API behind a static API key
//
// Middlewares are registered by the start command; rayid must run first so
// every later log line can carry the request id.
package middleware
