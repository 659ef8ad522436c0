package io

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	stdio "io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader() *Loader {
	logger := logrus.New()
	logger.SetOutput(stdio.Discard)
	return NewLoader(logger)
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.bmp", "f.tiff", "g.tif", "h.webp", "i.svg"} {
		assert.True(t, Supported(p), p)
	}
	for _, p := range []string{"a.txt", "b.pdf", "noext", "c.png.bak", ".png.d"} {
		assert.False(t, Supported(p), p)
	}
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "png")
	assert.Contains(t, formats, "webp")
	for _, f := range formats {
		assert.NotContains(t, f, ".")
	}
}

func TestLoadDecodesPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.SetNRGBA(2, 1, color.NRGBA{R: 11, G: 22, B: 33, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "small.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	r, err := testLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, r.Width)
	assert.Equal(t, 4, r.Height)
	assert.Equal(t, color.NRGBA{R: 11, G: 22, B: 33, A: 255}, r.At(2, 1))
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := testLoader().Load(path)
	assert.Error(t, err)
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := testLoader().Load(filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
}

func TestLoadReportsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := testLoader().Load(path)
	assert.Error(t, err)
}
