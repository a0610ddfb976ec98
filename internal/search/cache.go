package search

import (
	"github.com/pbnjay/memory"
)

const (
	// approxEntryBytes is a rough per-entry cost of the memo map
	// (16-byte board, int depth, float64 value, bucket overhead).
	approxEntryBytes = 64

	fallbackCacheEntries = 1 << 22
	minCacheEntries      = 1 << 16
)

// DefaultMaxCacheEntries sizes the memo table to about an eighth of system
// memory. It falls back to a fixed cap when total memory is unknown.
func DefaultMaxCacheEntries() int {
	return cacheEntriesFor(memory.TotalMemory())
}

func cacheEntriesFor(total uint64) int {
	if total == 0 {
		return fallbackCacheEntries
	}
	n := total / 8 / approxEntryBytes
	if n < minCacheEntries {
		return minCacheEntries
	}
	if n > 1<<30 {
		return 1 << 30
	}
	return int(n)
}
