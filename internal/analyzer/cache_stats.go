package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kmowery/weightline/internal/data/cache"
	"github.com/kmowery/weightline/internal/util"
)

// CacheStats holds statistics for cache usage across one run.
type CacheStats struct {
	totalFiles  int64
	cacheHits   int64
	cacheMisses int64
	failures    int64
	mu          sync.Mutex
	missDetails []MissDetail
}

// MissDetail records details of a cache miss
type MissDetail struct {
	FilePath string
	Reason   cache.MissReason
}

// NewCacheStats creates a new CacheStats instance
func NewCacheStats() *CacheStats {
	return &CacheStats{
		missDetails: make([]MissDetail, 0),
	}
}

// IncrementTotal increases the total file count
func (cs *CacheStats) IncrementTotal() {
	atomic.AddInt64(&cs.totalFiles, 1)
}

// IncrementHit increases the cache hit count
func (cs *CacheStats) IncrementHit() {
	atomic.AddInt64(&cs.cacheHits, 1)
}

// IncrementMiss increases the cache miss count and records the miss detail
func (cs *CacheStats) IncrementMiss(filePath string, reason cache.MissReason) {
	atomic.AddInt64(&cs.cacheMisses, 1)

	cs.mu.Lock()
	cs.missDetails = append(cs.missDetails, MissDetail{
		FilePath: filePath,
		Reason:   reason,
	})
	cs.mu.Unlock()
}

// IncrementFailure increases the failure count
func (cs *CacheStats) IncrementFailure() {
	atomic.AddInt64(&cs.failures, 1)
}

// GetStats returns the current statistics and hit rate
func (cs *CacheStats) GetStats() (total, hits, misses, failures int64, hitRate float64) {
	total = atomic.LoadInt64(&cs.totalFiles)
	hits = atomic.LoadInt64(&cs.cacheHits)
	misses = atomic.LoadInt64(&cs.cacheMisses)
	failures = atomic.LoadInt64(&cs.failures)

	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return
}

// PrintFinalStats logs the final cache statistics and a summary of miss reasons
func (cs *CacheStats) PrintFinalStats() {
	total, hits, misses, failures, hitRate := cs.GetStats()

	util.LogDebug(fmt.Sprintf("Cache statistics: total files %d, hit rate %.1f%% (%d hits/%d misses/%d failures)",
		total, hitRate, hits, misses, failures))

	if misses > 0 {
		cs.mu.Lock()
		reasonCounts := make(map[cache.MissReason]int)
		for _, detail := range cs.missDetails {
			reasonCounts[detail.Reason]++
		}
		cs.mu.Unlock()

		util.LogDebug("Cache miss reason summary:")
		for reason, count := range reasonCounts {
			util.LogDebug(fmt.Sprintf("  %s: %d files", reason, count))
		}
	}
}
