// Package apperr defines the typed error taxonomy shared by all features.
//
// Three terminal kinds exist:
//   - NotFound: a referenced entity does not exist (404-class)
//   - Conflict: a uniqueness constraint was violated (409-class)
//   - Validation: the input itself is malformed or incomplete (400-class)
//
// Services return these errors directly; HTTP handlers translate them to
// status codes at the boundary. Bulk operations downgrade per-item errors
// to recorded failures instead of propagating them (see core/bulk).
package apperr
