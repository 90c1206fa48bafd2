package schedule

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func cacheRule(every int) Rule {
	return Rule{
		ActiveSince: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ActiveTill:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Period:      Period{Duration: time.Hour, Schedule: Daily{Every: every}},
	}
}

func TestResultCache_BasicOperations(t *testing.T) {
	cache := NewResultCache(CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 1 * time.Minute,
	})
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rule := cacheRule(1)
	want := Generate(rule, now, time.UTC)

	// Cache miss first
	result, found := cache.Get(rule, now, time.UTC)
	if found {
		t.Error("Expected cache miss, got hit")
	}
	if result != nil {
		t.Error("Expected nil result on cache miss")
	}

	cache.Set(rule, now, time.UTC, want)

	result, found = cache.Get(rule, now, time.UTC)
	if !found {
		t.Fatal("Expected cache hit, got miss")
	}
	if len(result) != len(want) || !result[0].Start.Equal(want[0].Start) {
		t.Errorf("Expected %v, got %v", want, result)
	}

	// Callers must not be able to alter the cached slice
	result[0].Start = time.Time{}
	again, _ := cache.Get(rule, now, time.UTC)
	if again[0].Start.IsZero() {
		t.Error("Cached result was modified through a returned slice")
	}
}

func TestResultCache_TTLExpiration(t *testing.T) {
	cache := NewResultCache(CacheConfig{
		TTL:             100 * time.Millisecond, // Very short TTL for testing
		MaxEntries:      100,
		CleanupInterval: 50 * time.Millisecond,
	})
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rule := cacheRule(1)

	cache.Set(rule, now, time.UTC, []Occurrence{{Start: now}})

	if _, found := cache.Get(rule, now, time.UTC); !found {
		t.Error("Expected cache hit immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, found := cache.Get(rule, now, time.UTC); found {
		t.Error("Expected cache miss after TTL expiration")
	}
}

func TestResultCache_DifferentKeys(t *testing.T) {
	cache := NewResultCache(DefaultCacheConfig)
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	berlin := time.FixedZone("CET", 3600)

	cache.Set(cacheRule(1), now, time.UTC, []Occurrence{{Start: now}})

	tests := []struct {
		name string
		rule Rule
		now  time.Time
		loc  *time.Location
	}{
		{"different schedule", cacheRule(2), now, time.UTC},
		{"different instant", cacheRule(1), now.Add(time.Second), time.UTC},
		{"different location", cacheRule(1), now, berlin},
		{"different type", Rule{ActiveSince: now, Period: Period{Duration: time.Hour, Schedule: Weekly{Every: 1}}}, now, time.UTC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, found := cache.Get(tt.rule, tt.now, tt.loc); found {
				t.Error("Expected cache miss for a different key")
			}
		})
	}

	// Sub-second differences share an entry
	if _, found := cache.Get(cacheRule(1), now.Add(500*time.Millisecond), time.UTC); !found {
		t.Error("Expected cache hit within the same second")
	}
}

func TestResultCache_UnnamedZones(t *testing.T) {
	cache := NewResultCache(DefaultCacheConfig)
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	east := time.FixedZone("", 3600)
	west := time.FixedZone("", -5*3600)

	cache.Set(cacheRule(1), now, east, Generate(cacheRule(1), now, east))

	if _, found := cache.Get(cacheRule(1), now, west); found {
		t.Error("Expected cache miss for a zone with the same name but another offset")
	}
	if _, found := cache.Get(cacheRule(1), now, time.FixedZone("", 3600)); !found {
		t.Error("Expected cache hit for an equivalent zone")
	}
}

func TestResultCache_Stats(t *testing.T) {
	cache := NewResultCache(DefaultCacheConfig)
	defer cache.Close()

	stats := cache.Stats()
	if stats.TotalEntries != 0 {
		t.Errorf("Expected 0 total entries, got %d", stats.TotalEntries)
	}

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	cache.Set(cacheRule(1), now, time.UTC, nil)
	cache.Set(cacheRule(2), now, time.UTC, nil)

	stats = cache.Stats()
	if stats.TotalEntries != 2 {
		t.Errorf("Expected 2 total entries, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 2 {
		t.Errorf("Expected 2 active entries, got %d", stats.ActiveEntries)
	}
}

func TestResultCache_MaxEntriesEviction(t *testing.T) {
	cache := NewResultCache(CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      3,
		CleanupInterval: 1 * time.Minute,
	})
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		cache.Set(cacheRule(i), now, time.UTC, nil)
		time.Sleep(time.Millisecond) // distinct access times
	}

	stats := cache.Stats()
	if stats.TotalEntries > 3 {
		t.Errorf("Expected at most 3 entries after eviction, got %d", stats.TotalEntries)
	}

	// The oldest entries are evicted first
	if _, found := cache.Get(cacheRule(1), now, time.UTC); found {
		t.Error("Expected oldest entry to be evicted")
	}
	if _, found := cache.Get(cacheRule(5), now, time.UTC); !found {
		t.Error("Expected newest entry to be kept")
	}
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	cache := NewResultCache(CacheConfig{MaxEntries: 1000})
	defer cache.Close()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				rule := cacheRule(g*50 + i + 1)
				cache.Set(rule, now, time.UTC, []Occurrence{{Start: now}})
				if _, found := cache.Get(rule, now, time.UTC); !found {
					t.Errorf("goroutine %d: expected hit for %s", g, fmt.Sprint(rule.Schedule))
				}
			}
		}(g)
	}
	wg.Wait()

	if stats := cache.Stats(); stats.TotalEntries != 500 {
		t.Errorf("Expected 500 entries, got %d", stats.TotalEntries)
	}
}

func TestResultCache_CloseIsIdempotent(t *testing.T) {
	cache := NewResultCache(CacheConfig{})
	cache.Set(cacheRule(1), time.Now(), time.UTC, nil)

	cache.Close()
	cache.Close()

	if stats := cache.Stats(); stats.TotalEntries != 0 {
		t.Errorf("Expected empty cache after Close, got %d entries", stats.TotalEntries)
	}
}
