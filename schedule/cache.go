package schedule

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sort"
	"sync"
	"time"
)

// CacheEntry represents a cached generation result
type CacheEntry struct {
	Result     []Occurrence
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// ResultCache memoizes Generate results keyed by rule, instant and location.
type ResultCache struct {
	entries         map[string]*CacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// CacheConfig holds configuration for the result cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides defaults for preview caching
var DefaultCacheConfig = CacheConfig{
	TTL:             time.Minute,
	MaxEntries:      256,
	CleanupInterval: 30 * time.Second,
}

// NewResultCache creates a new result cache with the given configuration
func NewResultCache(config CacheConfig) *ResultCache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheConfig.TTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheConfig.MaxEntries
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCacheConfig.CleanupInterval
	}

	cache := &ResultCache{
		entries:         make(map[string]*CacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// generateCacheKey hashes every input Generate depends on. now is taken at
// second precision, the resolution of the monitoring API.
func (c *ResultCache) generateCacheKey(rule Rule, now time.Time, loc *time.Location) string {
	hasher := sha256.New()

	if loc == nil {
		loc = time.UTC
	}
	// Zone names are not unique (FixedZone("", ...)), so the offset in
	// effect at now is part of the key too.
	zone, offset := now.In(loc).Zone()
	fmt.Fprintf(hasher, "%d|%d|%d|%d|%s|%s|%d|",
		rule.ActiveSince.Unix(), rule.ActiveTill.Unix(), now.Unix(), rule.Duration, loc, zone, offset)

	writeSchedule(hasher, rule.Schedule)

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func writeSchedule(h hash.Hash, s Schedule) {
	switch s := s.(type) {
	case OneTime:
		fmt.Fprintf(h, "once|%d", s.Start.Unix())
	case Daily:
		fmt.Fprintf(h, "daily|%d|%d", s.Every, s.StartTime)
	case Weekly:
		fmt.Fprintf(h, "weekly|%d|%d|%d", s.Every, s.Weekdays.Bits(), s.StartTime)
	case Monthly:
		fmt.Fprintf(h, "monthly|%d|%d|", s.Months.Bits(), s.StartTime)
		if day, ok := s.Placement.Left(); ok {
			fmt.Fprintf(h, "day|%d", day)
		} else {
			nth, _ := s.Placement.Right()
			fmt.Fprintf(h, "nth|%d|%d", nth.Ordinal, nth.Weekdays.Bits())
		}
	default:
		fmt.Fprint(h, "none")
	}
}

// Get retrieves a cached result if it exists and hasn't expired
func (c *ResultCache) Get(rule Rule, now time.Time, loc *time.Location) ([]Occurrence, bool) {
	key := c.generateCacheKey(rule, now, loc)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	current := time.Now()
	if current.After(entry.ExpiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	entry.AccessedAt = current

	return cloneOccurrences(entry.Result), true
}

// Set stores a result in the cache
func (c *ResultCache) Set(rule Rule, now time.Time, loc *time.Location, result []Occurrence) {
	key := c.generateCacheKey(rule, now, loc)
	current := time.Now()

	entry := &CacheEntry{
		Result:     cloneOccurrences(result),
		ExpiresAt:  current.Add(c.ttl),
		AccessedAt: current,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries and the least recently accessed ones when
// over the limit. Callers hold the write lock.
func (c *ResultCache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}

	if len(c.entries) <= c.maxEntries {
		return
	}

	type keyAccess struct {
		key        string
		accessedAt time.Time
	}

	keyAccessList := make([]keyAccess, 0, len(c.entries))
	for key, entry := range c.entries {
		keyAccessList = append(keyAccessList, keyAccess{key: key, accessedAt: entry.AccessedAt})
	}
	sort.Slice(keyAccessList, func(i, j int) bool {
		return keyAccessList[i].accessedAt.Before(keyAccessList[j].accessedAt)
	})

	entriesToRemove := len(c.entries) - c.maxEntries
	for i := 0; i < entriesToRemove; i++ {
		delete(c.entries, keyAccessList[i].key)
	}
}

// cleanupLoop runs periodic cleanup
func (c *ResultCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache
func (c *ResultCache) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
	c.mutex.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics
func (c *ResultCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache usage
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

func cloneOccurrences(in []Occurrence) []Occurrence {
	if in == nil {
		return nil
	}
	out := make([]Occurrence, len(in))
	copy(out, in)
	return out
}
