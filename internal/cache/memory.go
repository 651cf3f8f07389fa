package cache

import (
	"context"
	"sync"
	"time"

	"admin/internal/models"
)

type memoryEntry struct {
	snapshot  models.CachedSnapshot
	expiresAt time.Time
}

// maxRateWindows triggers a sweep of expired counters.
const maxRateWindows = 1024

type rateWindow struct {
	count     int
	expiresAt time.Time
}

// MemoryCache keeps snapshots and rate limit counters in process.
// It is the default when no Redis or Valkey cluster is configured.
type MemoryCache struct {
	mu        sync.Mutex
	snapshots map[string]memoryEntry
	windows   map[string]rateWindow
	now       func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		snapshots: make(map[string]memoryEntry),
		windows:   make(map[string]rateWindow),
		now:       time.Now,
	}
}

func (m *MemoryCache) GetSnapshot(_ context.Context, sessionKey string) (models.CachedSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.snapshots[sessionKey]
	if !ok {
		return models.CachedSnapshot{}, false, nil
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.snapshots, sessionKey)
		return models.CachedSnapshot{}, false, nil
	}
	return entry.snapshot, true, nil
}

func (m *MemoryCache) SetSnapshot(
	_ context.Context,
	sessionKey string,
	snapshot models.CachedSnapshot,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.snapshots[sessionKey] = memoryEntry{snapshot: snapshot, expiresAt: now.Add(ttl)}

	// Sessions come and go; drop what expired so the map does not grow without bound.
	for key, entry := range m.snapshots {
		if !now.Before(entry.expiresAt) {
			delete(m.snapshots, key)
		}
	}
	return nil
}

func (m *MemoryCache) GetRateLimit(_ context.Context, identifier string, requestsPerMinute int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if len(m.windows) > maxRateWindows {
		for key, w := range m.windows {
			if !now.Before(w.expiresAt) {
				delete(m.windows, key)
			}
		}
	}

	window, ok := m.windows[identifier]
	if !ok || !now.Before(window.expiresAt) {
		window = rateWindow{expiresAt: now.Add(time.Minute)}
	}
	window.count++
	m.windows[identifier] = window

	if window.count > requestsPerMinute {
		return max(int(window.expiresAt.Sub(now).Seconds()), 1), nil
	}
	return 0, nil
}

func (m *MemoryCache) Close() error {
	return nil
}
