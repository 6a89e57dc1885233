// Package cache provides a process-local TTL key/value store.
//
// It backs the assignment reconciliation engine and the dashboard counters.
// Entries expire lazily: an expired entry is removed on the next Get rather
// than by a background sweeper. DeletePattern removes every key sharing a
// prefix, which is how list-query fingerprints (arbitrary filter combinations
// that cannot be enumerated) are invalidated after a mutation.
//
// The store is safe for concurrent use but applies no cross-key coordination.
// A concurrent miss-and-recompute on the same key is tolerated: values are
// idempotent and the last write wins.
package cache
