// Package assignment reconciles the two sources of truth for "who is
// assigned to what" in the scoring platform.
//
// Explicit Assignment records are authoritative: directly created, they
// carry status, priority and audit fields. Implicit memberships (the
// CategoryJudge roster relation) merely imply an assignment. The reconciled
// view merges both sources keyed by (judge, category); when the same key
// exists on both sides the explicit record always wins; precedence follows
// source kind, not timestamps.
//
// # Cache
//
// List queries are cached for 15 minutes keyed by a fingerprint of the
// filter set. Every successful mutation invalidates the list prefix, the
// judge-scoped key(s) and the category-scoped key(s) touched, in that order.
// The invalidation is best-effort: there is no transactional link to the
// persistence write, and a stale entry self-heals at TTL expiry.
//
// # Bulk Assignment
//
// BulkAssignJudges processes judges sequentially rather than through the
// generic bulk executor: each judge requires an existence check followed by
// a conditional create, and interleaving two such sequences for the same
// category could double-create between the check and the write.
//
// # HTTP Endpoints
//
//   - GET    /assignments                 : reconciled view, filterable
//   - POST   /assignments                 : create an explicit assignment
//   - PATCH  /assignments/:id             : patch status/priority/notes
//   - DELETE /assignments/:id             : delete
//   - POST   /assignments/bulk-delete     : batched delete via the executor
//   - POST   /assignments/bulk-status     : batched status update
//   - GET    /judges/:id/assignments      : judge-scoped view
//   - GET    /categories/:id/assignments  : category-scoped view
//   - POST   /categories/:id/judges       : bulk-assign judges to a category
package assignment
