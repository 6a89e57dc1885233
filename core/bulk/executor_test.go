package bulk

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalInvariant(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		batchSize int
		failEvery int // 0 = never fail
	}{
		{"empty input", 0, 10, 0},
		{"single chunk", 5, 10, 0},
		{"exact chunk boundary", 20, 10, 0},
		{"ragged last chunk", 23, 10, 3},
		{"batch of one", 7, 1, 2},
		{"all failing", 9, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.items)
			for i := range items {
				items[i] = i
			}

			op := func(_ context.Context, n int) error {
				if tt.failEvery > 0 && n%tt.failEvery == 0 {
					return fmt.Errorf("item %d failed", n)
				}
				return nil
			}

			result, err := Execute(context.Background(), items, op, Options{BatchSize: tt.batchSize})
			require.NoError(t, err)

			assert.Equal(t, tt.items, result.Total)
			assert.Equal(t, result.Total, result.Successful+result.Failed)
			assert.Len(t, result.Errors, result.Failed)
		})
	}
}

func TestEveryItemAttemptedOnce(t *testing.T) {
	var mu sync.Mutex
	attempts := make(map[string]int)

	items := []string{"a", "b", "c", "d", "e", "f", "g"}
	op := func(_ context.Context, s string) error {
		mu.Lock()
		attempts[s]++
		mu.Unlock()
		if s == "b" || s == "e" {
			return fmt.Errorf("boom")
		}
		return nil
	}

	result, err := Execute(context.Background(), items, op, Options{BatchSize: 3})
	require.NoError(t, err)

	// Earlier failures must not prevent later items from running.
	assert.Equal(t, 5, result.Successful)
	assert.Equal(t, 2, result.Failed)
	for _, s := range items {
		assert.Equal(t, 1, attempts[s], "item %s", s)
	}
}

func TestErrorOrderIsDeterministic(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}
	op := func(_ context.Context, n int) error {
		if n%2 == 1 {
			return fmt.Errorf("odd %d", n)
		}
		return nil
	}

	result, err := Execute(context.Background(), items, op, Options{BatchSize: 6})
	require.NoError(t, err)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 1, result.Errors[0].Item)
	assert.Equal(t, 3, result.Errors[1].Item)
	assert.Equal(t, 5, result.Errors[2].Item)
	assert.Equal(t, "odd 1", result.Errors[0].Error)
}

func TestStopOnError(t *testing.T) {
	var attempted atomic.Int32

	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}
	op := func(_ context.Context, n int) error {
		attempted.Add(1)
		if n == 7 {
			return fmt.Errorf("fatal at %d", n)
		}
		return nil
	}

	result, err := Execute(context.Background(), items, op, Options{BatchSize: 10, StopOnError: true})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "fatal at 7")

	// The failing chunk still settles, but no later chunk starts.
	assert.Equal(t, int32(10), attempted.Load())
}

func TestChunksRunSequentially(t *testing.T) {
	// Track the maximum number of concurrently running operations; it must
	// never exceed the batch size.
	var running, peak atomic.Int32

	items := make([]int, 40)
	op := func(_ context.Context, _ int) error {
		cur := running.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		running.Add(-1)
		return nil
	}

	result, err := Execute(context.Background(), items, op, Options{BatchSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 40, result.Successful)
	assert.LessOrEqual(t, peak.Load(), int32(8))
}

func TestDefaultBatchSize(t *testing.T) {
	items := make([]int, 25)
	result, err := Execute(context.Background(), items, func(context.Context, int) error { return nil }, Options{})
	require.NoError(t, err)
	assert.Equal(t, 25, result.Successful)
}
