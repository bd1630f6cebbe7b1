package document

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// --- Mocks ---

type cacheEntry struct {
	size    int64
	modTime time.Time
	content string
}

// mockCache implements contentCache in memory.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	gets    int
	puts    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]cacheEntry{}}
}

func (m *mockCache) Get(_ context.Context, path string, size int64, modTime time.Time) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	e, ok := m.entries[path]
	if !ok || e.size != size || !e.modTime.Equal(modTime) {
		return "", false
	}
	return e.content, true
}

func (m *mockCache) Put(_ context.Context, path string, size int64, modTime time.Time, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[path] = cacheEntry{size: size, modTime: modTime, content: content}
}

// --- Helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestLoader(t *testing.T, dir string, opts ...Option) *Loader {
	t.Helper()
	return New(Config{Directory: dir}, NewRegistry(time.Second), zap.NewNop(), opts...)
}

func docNames(t *testing.T, l *Loader) []string {
	t.Helper()
	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name())
	}
	return names
}
