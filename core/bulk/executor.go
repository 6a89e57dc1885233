package bulk

import (
	"context"
	"fmt"
	"sync"
)

// DefaultBatchSize is the chunk size used when Options.BatchSize is zero.
const DefaultBatchSize = 10

// Options controls executor behavior.
type Options struct {
	// BatchSize is the number of items processed concurrently per chunk.
	// Zero means DefaultBatchSize.
	BatchSize int

	// StopOnError aborts the whole call on the first item failure instead of
	// recording it. The partial result accumulated so far is discarded; this
	// is a documented sharp edge, not a partial-result contract.
	// The zero value (false) keeps the default record-and-continue behavior.
	StopOnError bool
}

// ItemError records a single failed item with its stringified error.
type ItemError struct {
	Item  any    `json:"item"`
	Error string `json:"error"`
}

// Result is the immutable outcome snapshot of a bulk operation.
// Successful + Failed always equals Total.
type Result struct {
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Errors     []ItemError `json:"errors"`
}

// Execute runs op over items in chunks of opts.BatchSize. Items within a
// chunk run concurrently; chunk n+1 never starts before chunk n has fully
// settled. With StopOnError unset every item is attempted exactly once
// regardless of earlier failures.
func Execute[T any](ctx context.Context, items []T, op func(context.Context, T) error, opts Options) (*Result, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	result := &Result{
		Total:  len(items),
		Errors: []ItemError{},
	}

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]

		// Per-slot outcome keeps error ordering deterministic regardless of
		// goroutine completion order.
		chunkErrs := make([]error, len(chunk))

		var wg sync.WaitGroup
		wg.Add(len(chunk))
		for i := range chunk {
			go func(i int) {
				defer wg.Done()
				chunkErrs[i] = op(ctx, chunk[i])
			}(i)
		}
		wg.Wait()

		for i, err := range chunkErrs {
			if err == nil {
				result.Successful++
				continue
			}
			if opts.StopOnError {
				return nil, fmt.Errorf("bulk operation aborted at item %d: %w", start+i, err)
			}
			result.Failed++
			result.Errors = append(result.Errors, ItemError{
				Item:  chunk[i],
				Error: err.Error(),
			})
		}
	}

	return result, nil
}
