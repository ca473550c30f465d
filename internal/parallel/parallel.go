// Package parallel partitions per-box kernel work into contiguous index
// ranges sized by estimated cost and runs them on worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool    // Whether parallel execution is enabled.
	NumWorkers   int     // Number of worker goroutines to use.
	MinChunkCost float64 // Minimum estimated work per chunk to amortize scheduling overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkCost: 10000,
	}
}

// Range is a half-open index interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Chunks partitions [0, n) into contiguous, non-overlapping ranges.
//
// costPerItem is the estimated work of one index in arbitrary units; chunks
// are sized so each carries at least cfg.MinChunkCost estimated work, and no
// more than cfg.NumWorkers chunks are produced. A disabled config yields a
// single range covering everything.
func Chunks(n int, costPerItem float64, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 {
		return []Range{{0, n}}
	}

	numChunks := cfg.NumWorkers
	if cfg.MinChunkCost > 0 {
		totalCost := float64(n) * costPerItem
		byCost := int(totalCost / cfg.MinChunkCost)
		if byCost < numChunks {
			numChunks = byCost
		}
	}
	if numChunks < 1 {
		numChunks = 1
	}

	chunkSize := (n + numChunks - 1) / numChunks
	chunks := make([]Range, 0, numChunks)
	for start := 0; start < n; start += chunkSize {
		chunks = append(chunks, Range{start, min(start+chunkSize, n)})
	}
	return chunks
}

// Shard executes f over a cost-based partition of [0, n), one goroutine per
// chunk. f must be safe to call concurrently on disjoint ranges.
// Falls back to a single sequential call when only one chunk is produced.
func Shard(n int, costPerItem float64, f func(start, end int), cfg Config) {
	chunks := Chunks(n, costPerItem, cfg)
	if len(chunks) == 0 {
		return
	}
	if len(chunks) == 1 {
		f(chunks[0].Start, chunks[0].End)
		return
	}

	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(c.Start, c.End)
	}
	wg.Wait()
}
