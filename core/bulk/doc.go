// Package bulk provides a generic batched mutation executor.
//
// Execute partitions an item collection into fixed-size chunks and runs the
// supplied operation on every item of a chunk concurrently, while chunks
// themselves run strictly in sequence. Chunking bounds the concurrent load
// on the persistence layer and keeps memory bounded for very large inputs,
// while still parallelizing within a chunk for throughput.
//
// Every item's outcome is captured independently. The default mode records
// failures and keeps going, so callers always receive a complete accounting
// of what succeeded versus failed; StopOnError trades that accounting for an
// immediate abort.
//
// All bulk-* features and the CSV import pipeline run through this package.
package bulk
