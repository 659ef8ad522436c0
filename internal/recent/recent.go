// Bounded recency list of viewed images with JSON persistence
package recent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultMaxItems bounds the recency list; the oldest-added entry is
// evicted at capacity.
const DefaultMaxItems = 20

// Item records one viewed image.
type Item struct {
	Path         string    `json:"path"`
	LastViewed   time.Time `json:"last_viewed"`
	ViewCount    int       `json:"view_count"`
	FileSize     int64     `json:"file_size"`
	LastModified time.Time `json:"last_modified"`
}

// Name returns the file name for display.
func (it Item) Name() string {
	return filepath.Base(it.Path)
}

// Manager keeps the bounded list and round-trips it to a JSON file.
type Manager struct {
	mu       sync.Mutex
	items    []Item
	maxItems int
}

// NewManager creates an empty manager bounded at maxItems (DefaultMaxItems
// when <= 0).
func NewManager(maxItems int) *Manager {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Manager{maxItems: maxItems}
}

// Add records a viewed path. A path already present has its view count and
// timestamps bumped instead of gaining a second entry.
func (m *Manager) Add(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for i := range m.items {
		if m.items[i].Path == path {
			m.items[i].ViewCount++
			m.items[i].LastViewed = now
			m.items[i].LastModified = now
			return
		}
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	m.items = append(m.items, Item{
		Path:         path,
		LastViewed:   now,
		ViewCount:    1,
		FileSize:     size,
		LastModified: now,
	})
	if len(m.items) > m.maxItems {
		m.items = m.items[1:]
	}
}

// Items returns a snapshot of the current list, oldest first.
func (m *Manager) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of recorded items.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type persisted struct {
	RecentItems []Item `json:"recent_items"`
	MaxItems    int    `json:"max_items"`
}

// Load reads a manager from the JSON file at path. A missing file yields an
// empty manager rather than an error.
func Load(path string, maxItems int) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManager(maxItems), nil
		}
		return nil, fmt.Errorf("load recents: %w", err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("load recents: %w", err)
	}

	m := NewManager(p.MaxItems)
	if maxItems > 0 {
		m.maxItems = maxItems
	}
	m.items = p.RecentItems
	if len(m.items) > m.maxItems {
		m.items = m.items[len(m.items)-m.maxItems:]
	}
	return m, nil
}

// Save writes the list to the JSON file at path, creating parent
// directories as needed.
func (m *Manager) Save(path string) error {
	m.mu.Lock()
	p := persisted{RecentItems: append([]Item(nil), m.items...), MaxItems: m.maxItems}
	m.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("save recents: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save recents: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save recents: %w", err)
	}
	return nil
}
