package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imgio "interactive-image-viewer/internal/io"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestCache(t *testing.T, capacity int) *Cache {
	t.Helper()
	return NewCache(imgio.NewLoader(testLogger()), capacity, testLogger())
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: byte(x * 3), G: byte(y * 5), B: 99, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func decodeThumb(t *testing.T, th Thumb) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(th.Data))
	require.NoError(t, err)
	return img
}

func TestThumbnailDimensions(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t, 8)

	for _, dims := range []struct{ w, h int }{{200, 100}, {100, 200}, {80, 80}} {
		path := writePNG(t, dir, fmt.Sprintf("img-%dx%d.png", dims.w, dims.h), dims.w, dims.h)
		th := c.GetOrCreate(path)
		assert.False(t, th.Placeholder)

		img := decodeThumb(t, th)
		assert.Equal(t, Size, img.Bounds().Dx())
		assert.Equal(t, Size, img.Bounds().Dy())
	}
}

func TestUnsupportedExtensionPlaceholderWithoutDecode(t *testing.T) {
	dir := t.TempDir()
	// Valid PNG bytes behind a .txt name: the extension gate must win and no
	// decode may be attempted.
	src := writePNG(t, dir, "actually-a-png.png", 10, 10)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, data, 0o644))

	c := newTestCache(t, 8)
	th := c.GetOrCreate(txt)
	assert.True(t, th.Placeholder)

	img := decodeThumb(t, th)
	r, g, b, _ := img.At(40, 40).RGBA()
	assert.Equal(t, uint32(150), r>>8)
	assert.Equal(t, uint32(150), g>>8)
	assert.Equal(t, uint32(150), b>>8)
}

func TestMissingFilePlaceholder(t *testing.T) {
	c := newTestCache(t, 8)
	th := c.GetOrCreate(filepath.Join(t.TempDir(), "gone.png"))
	assert.True(t, th.Placeholder)

	img := decodeThumb(t, th)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, uint32(200), g>>8)
	assert.Equal(t, uint32(200), b>>8)
}

func TestCorruptFilePlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png at all"), 0o644))

	c := newTestCache(t, 8)
	th := c.GetOrCreate(path)
	assert.True(t, th.Placeholder)

	img := decodeThumb(t, th)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(255), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(100), b>>8)
}

func TestCacheHitReturnsSameBytes(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 40, 40)

	c := newTestCache(t, 8)
	first := c.GetOrCreate(path)
	second := c.GetOrCreate(path)
	assert.Equal(t, first.Data, second.Data)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestEvictionAtCapacity(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t, 2)

	a := writePNG(t, dir, "a.png", 20, 20)
	b := writePNG(t, dir, "b.png", 20, 20)
	d := writePNG(t, dir, "c.png", 20, 20)

	c.GetOrCreate(a)
	c.GetOrCreate(b)
	c.GetOrCreate(d) // evicts a, the least recently used

	assert.False(t, c.Contains(a))
	assert.True(t, c.Contains(b))
	assert.True(t, c.Contains(d))

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Evictions)
	assert.Equal(t, 2, stats.Entries)
}

func TestHitPromotesEntry(t *testing.T) {
	dir := t.TempDir()
	c := newTestCache(t, 2)

	a := writePNG(t, dir, "a.png", 20, 20)
	b := writePNG(t, dir, "b.png", 20, 20)
	d := writePNG(t, dir, "c.png", 20, 20)

	c.GetOrCreate(a)
	c.GetOrCreate(b)
	c.GetOrCreate(a) // a is now most recent
	c.GetOrCreate(d) // so b is evicted instead

	assert.True(t, c.Contains(a))
	assert.False(t, c.Contains(b))
	assert.True(t, c.Contains(d))
}

func TestPlaceholdersAreCachedToo(t *testing.T) {
	c := newTestCache(t, 8)
	missing := filepath.Join(t.TempDir(), "nope.png")

	c.GetOrCreate(missing)
	c.GetOrCreate(missing)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}
