// Bounded LRU cache of gallery thumbnails keyed by file path
package thumbs

import (
	"bytes"
	"container/list"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	imgio "interactive-image-viewer/internal/io"
	"interactive-image-viewer/internal/raster"
	"interactive-image-viewer/internal/resample"
)

const (
	// Size is the fixed square thumbnail edge in pixels.
	Size = 80
	// DefaultCapacity bounds the cache in entries; least recently used
	// thumbnails are evicted at capacity.
	DefaultCapacity = 256
)

// Placeholder fills, one per failure class, so a gallery of mixed-validity
// files still renders without error.
var (
	missingFill     = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	unsupportedFill = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	decodeFailFill  = color.NRGBA{R: 255, G: 100, B: 100, A: 255}
)

// Thumb is an encoded 80x80 PNG, flagged when it is a placeholder rather
// than real image content.
type Thumb struct {
	Data        []byte
	Placeholder bool
}

// Stats reports cache behavior for debug logging.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

type entry struct {
	path  string
	thumb Thumb
}

// Cache maps file paths to small encoded rasters, populated lazily on first
// need. Keys are exact paths: replacing a file at the same path does not
// invalidate its entry.
type Cache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = most recent
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64

	loader *imgio.Loader
	logger *logrus.Logger
}

// NewCache creates a thumbnail cache bounded at capacity entries. A
// capacity <= 0 falls back to DefaultCapacity.
func NewCache(loader *imgio.Loader, capacity int, logger *logrus.Logger) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		loader:   loader,
		logger:   logger,
	}
}

// GetOrCreate returns the cached thumbnail for path, generating it on miss.
// Unsupported extensions short-circuit to a placeholder with no decode
// attempt; decode failures and missing files also degrade to placeholders.
func (c *Cache) GetOrCreate(path string) Thumb {
	c.mu.Lock()
	if elem, ok := c.items[path]; ok {
		c.order.MoveToFront(elem)
		c.hits++
		t := elem.Value.(*entry).thumb
		c.mu.Unlock()
		return t
	}
	c.misses++
	c.mu.Unlock()

	t := c.build(path)

	c.mu.Lock()
	if elem, ok := c.items[path]; ok {
		// Another caller populated the entry while we were building.
		c.order.MoveToFront(elem)
		t = elem.Value.(*entry).thumb
	} else {
		c.items[path] = c.order.PushFront(&entry{path: path, thumb: t})
		for c.order.Len() > c.capacity {
			c.evictOldest()
		}
	}
	c.mu.Unlock()
	return t
}

// Contains reports whether path already has a cached thumbnail, without
// affecting recency.
func (c *Cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[path]
	return ok
}

// Stats returns a snapshot of hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Entries: c.order.Len()}
}

func (c *Cache) build(path string) Thumb {
	if !imgio.Supported(path) {
		c.logger.WithField("path", path).Debug("Unsupported extension, placeholder thumbnail")
		return placeholder(unsupportedFill)
	}

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.logger.WithField("path", path).Debug("Missing file, placeholder thumbnail")
		return placeholder(missingFill)
	}

	src, err := c.loader.Load(path)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Thumbnail decode failed")
		return placeholder(decodeFailFill)
	}

	small, err := resample.CoverThumbnail(src, Size, Size, resample.Lanczos3)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Thumbnail resize failed")
		return placeholder(decodeFailFill)
	}

	data, err := encodePNG(small)
	if err != nil {
		return placeholder(decodeFailFill)
	}
	return Thumb{Data: data}
}

func (c *Cache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := c.order.Remove(back).(*entry)
	delete(c.items, e.path)
	c.evictions++
}

func placeholder(fill color.NRGBA) Thumb {
	data, err := encodePNG(raster.Flat(Size, Size, fill))
	if err != nil {
		return Thumb{Placeholder: true}
	}
	return Thumb{Data: data, Placeholder: true}
}

func encodePNG(r *raster.Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.ToNRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
