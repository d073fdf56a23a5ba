// Package tables provides a TTL-bearing cache of parsed CSV tables so a
// long-running server (cmd/comparemcp, cmd/comparehttp) comparing many
// candidates against one reference table does not re-parse the same file
// on every call.
package tables

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/extest/tablesim/config"
	"github.com/extest/tablesim/internal/table"
)

// Handle pairs a parsed Table with the source file's modification time, so
// a stale cache entry can be detected and refreshed.
type Handle struct {
	Path      string
	ModTime   time.Time
	Table     table.Table
	LoadedAt  time.Time
	ExpiresAt time.Time
	mu        sync.RWMutex
}

// Manager is a path-keyed cache of parsed tables with idle-TTL eviction.
type Manager struct {
	mu           sync.RWMutex
	handles      map[string]*Handle
	ttl          time.Duration
	cleanupEvery time.Duration
	clock        func() time.Time
	stopCh       chan struct{}
	cleanupWG    sync.WaitGroup
	validator    PathValidator
}

// PathValidator abstracts filesystem path validation (internal/security).
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// ErrHandleNotFound indicates an unknown or expired cache entry.
var ErrHandleNotFound = errors.New("tables: handle not found")

// NewManager constructs a cache with idle TTL. Pass ttl or cleanupEvery <=
// 0 to use defaults; clock defaults to time.Now when nil (tests can
// substitute a deterministic clock).
func NewManager(ttl, cleanupEvery time.Duration, validator PathValidator, clock func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = config.DefaultTableIdleTTL
	}
	if cleanupEvery <= 0 {
		cleanupEvery = config.DefaultTableCleanupPeriod
	}
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		handles:      make(map[string]*Handle),
		ttl:          ttl,
		cleanupEvery: cleanupEvery,
		clock:        clock,
		validator:    validator,
		stopCh:       make(chan struct{}),
	}
}

// Start launches periodic eviction of expired handles.
func (m *Manager) Start() {
	m.cleanupWG.Add(1)
	ticker := time.NewTicker(m.cleanupEvery)
	go func() {
		defer m.cleanupWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.EvictExpired()
			}
		}
	}()
}

// Close stops background cleanup.
func (m *Manager) Close(ctx context.Context) error {
	close(m.stopCh)
	done := make(chan struct{})
	go func() { m.cleanupWG.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handles = make(map[string]*Handle)
	return nil
}

// GetOrLoad returns a cached, freshly-loaded Table for path, re-parsing it
// only when the cache is empty or the file's modification time has
// advanced since the last load.
func (m *Manager) GetOrLoad(role table.Role, path string) (table.Table, error) {
	canonical := path
	if m.validator != nil {
		real, err := m.validator.ValidateOpenPath(path)
		if err != nil {
			return table.Table{}, err
		}
		canonical = real
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return table.Table{}, fmt.Errorf("tables: stat %s: %w", canonical, err)
	}

	if h, ok := m.get(canonical); ok {
		h.mu.RLock()
		fresh := h.ModTime.Equal(info.ModTime())
		cached := h.Table
		h.mu.RUnlock()
		if fresh {
			m.touch(canonical)
			return cached, nil
		}
	}

	tbl, err := table.LoadCSV(role, canonical)
	if err != nil {
		return table.Table{}, err
	}

	now := m.clock()
	h := &Handle{
		Path:      canonical,
		ModTime:   info.ModTime(),
		Table:     tbl,
		LoadedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Lock()
	m.handles[canonical] = h
	m.mu.Unlock()

	return tbl, nil
}

func (m *Manager) get(canonical string) (*Handle, bool) {
	m.mu.RLock()
	h, ok := m.handles[canonical]
	m.mu.RUnlock()
	return h, ok
}

func (m *Manager) touch(canonical string) {
	m.mu.RLock()
	h, ok := m.handles[canonical]
	m.mu.RUnlock()
	if !ok {
		return
	}
	h.mu.Lock()
	h.ExpiresAt = m.clock().Add(m.ttl)
	h.mu.Unlock()
}

// EvictExpired removes cache entries past their idle TTL.
func (m *Manager) EvictExpired() {
	now := m.clock()
	var expired []string

	m.mu.RLock()
	for path, h := range m.handles {
		h.mu.RLock()
		isExpired := now.After(h.ExpiresAt)
		h.mu.RUnlock()
		if isExpired {
			expired = append(expired, path)
		}
	}
	m.mu.RUnlock()

	if len(expired) == 0 {
		return
	}
	m.mu.Lock()
	for _, path := range expired {
		delete(m.handles, path)
	}
	m.mu.Unlock()
}

// Count returns the current number of cached tables.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}
