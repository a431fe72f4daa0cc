// Package cache memoizes insight reports per user per calendar day, with
// TTL expiry, size-bounded FIFO eviction, and best-effort durable
// persistence.
//
// Known limitation: two cache instances sharing one storage key race on
// persistence. The last writer's full snapshot wins and silently
// discards the other's concurrent updates. Acceptable for a single-user,
// low-write-frequency cache.
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/models"
)

// Entry is one cached report. Owned exclusively by the cache: created on
// a miss, destroyed on invalidation, TTL expiry, or capacity eviction.
type Entry struct {
	Report    *models.InsightReport `json:"report"`
	Timestamp time.Time             `json:"timestamp"`
	TTL       time.Duration         `json:"ttl"`
}

// Expired reports whether the entry's TTL has elapsed at now.
func (e *Entry) Expired(now time.Time) bool {
	return now.Sub(e.Timestamp) >= e.TTL
}

// Config holds cache tuning. Clock may be nil for wall-clock time.
type Config struct {
	TTL        time.Duration
	MaxSize    int
	StorageKey string
	Clock      func() time.Time
}

// DefaultConfig returns the shared-instance defaults.
func DefaultConfig() Config {
	return Config{
		TTL:        12 * time.Hour,
		MaxSize:    25,
		StorageKey: "wellness_insights",
	}
}

// snapshot is the persisted representation: the full entry mapping plus
// insertion order, serialized as one blob under the storage key.
type snapshot struct {
	Entries map[string]*Entry `json:"entries"`
	Order   []string          `json:"order"`
}

// InsightCache is an insertion-ordered, day-keyed report cache. Any
// number of independent caches may coexist; the application constructs
// one and passes it by reference to whatever needs it.
type InsightCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []string

	cfg   Config
	store Store
	log   logger.Logger

	hits   uint64
	misses uint64
}

// New constructs a cache and restores any persisted snapshot, dropping
// entries whose TTL has already elapsed. Persistence failures are logged
// and never propagated; the in-memory mapping stays authoritative.
func New(cfg Config, store Store, log logger.Logger) *InsightCache {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultConfig().StorageKey
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &InsightCache{
		entries: make(map[string]*Entry),
		cfg:     cfg,
		store:   store,
		log:     log,
	}
	c.restore()
	return c
}

// key embeds the calendar day, so a report generated today is never
// served on a different day even when its TTL has not elapsed.
func (c *InsightCache) key(userID string) string {
	return fmt.Sprintf("%s_%s", userID, c.cfg.Clock().Format("2006-01-02"))
}

// Get returns today's cached report for userID, or nil. Expired entries
// are deleted on sight.
func (c *InsightCache) Get(userID string) *models.InsightReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(userID)
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil
	}
	if entry.Expired(c.cfg.Clock()) {
		c.removeLocked(key)
		c.misses++
		return nil
	}

	c.hits++
	return entry.Report
}

// Set stores a report under today's key, evicting the oldest-inserted
// entry first when at capacity, then persists the snapshot.
func (c *InsightCache) Set(userID string, report *models.InsightReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(userID)
	if _, exists := c.entries[key]; !exists {
		if c.cfg.MaxSize > 0 && len(c.entries) >= c.cfg.MaxSize && len(c.order) > 0 {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = &Entry{
		Report:    report,
		Timestamp: c.cfg.Clock(),
		TTL:       c.cfg.TTL,
	}

	c.persistLocked()
}

// GetOrGenerate is the canonical read-through: return the cached report
// if present and valid, otherwise call generate, store the result, and
// return it. Concurrent misses for the same key each run generate; the
// second write overwrites the first, which is fine because same-user
// same-day reports converge to the same content.
func (c *InsightCache) GetOrGenerate(userID string, generate func() (*models.InsightReport, error)) (*models.InsightReport, error) {
	if report := c.Get(userID); report != nil {
		return report, nil
	}

	report, err := generate()
	if err != nil {
		return nil, err
	}

	c.Set(userID, report)
	return report, nil
}

// Invalidate removes today's entry for userID and persists.
func (c *InsightCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(userID)
	if _, ok := c.entries[key]; !ok {
		return
	}
	c.removeLocked(key)
	c.persistLocked()
}

// Clear removes all entries and persists.
func (c *InsightCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*Entry)
	c.order = nil
	c.persistLocked()
}

// Cleanup removes every expired entry and persists only when something
// was removed. Intended for a recurring scheduler, not the request path.
func (c *InsightCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Clock()
	removed := 0
	for key, entry := range c.entries {
		if entry.Expired(now) {
			c.removeLocked(key)
			removed++
		}
	}

	if removed > 0 {
		c.persistLocked()
	}
	return removed
}

// Stats returns a diagnostic snapshot of the cache.
func (c *InsightCache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Clock()
	stats := models.CacheStats{TotalEntries: len(c.entries)}
	for _, entry := range c.entries {
		if entry.Expired(now) {
			stats.ExpiredEntries++
		} else {
			stats.ValidEntries++
		}
	}

	if lookups := c.hits + c.misses; lookups > 0 {
		stats.CacheHitRate = float64(c.hits) / float64(lookups)
	}

	if data, err := json.Marshal(snapshot{Entries: c.entries, Order: c.order}); err == nil {
		stats.MemoryUsage = int64(len(data))
	}
	return stats
}

func (c *InsightCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// persistLocked writes the full snapshot through the store. Best-effort:
// failures are logged, never raised to the caller.
func (c *InsightCache) persistLocked() {
	if c.store == nil {
		return
	}

	data, err := json.Marshal(snapshot{Entries: c.entries, Order: c.order})
	if err != nil {
		c.log.Warn("failed to encode cache snapshot", logger.Err(err))
		return
	}
	if err := c.store.Save(c.cfg.StorageKey, data); err != nil {
		c.log.Warn("failed to persist cache snapshot",
			logger.Err(err), logger.String("storage_key", c.cfg.StorageKey))
	}
}

// restore loads the persisted snapshot, keeping only entries whose TTL
// has not elapsed. A long-idle process naturally starts cold.
func (c *InsightCache) restore() {
	if c.store == nil {
		return
	}

	data, err := c.store.Load(c.cfg.StorageKey)
	if err != nil {
		c.log.Warn("failed to load cache snapshot, starting cold",
			logger.Err(err), logger.String("storage_key", c.cfg.StorageKey))
		return
	}
	if data == nil {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.Warn("failed to decode cache snapshot, starting cold", logger.Err(err))
		return
	}

	now := c.cfg.Clock()
	for _, key := range snap.Order {
		entry, ok := snap.Entries[key]
		if !ok || entry.Expired(now) {
			continue
		}
		c.entries[key] = entry
		c.order = append(c.order, key)
	}
}
