// Image file loading for the viewer session and thumbnail cache
package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	// Register decoders beyond imaging's built-in png/jpeg/gif/tiff/bmp set.
	_ "golang.org/x/image/webp"

	"interactive-image-viewer/internal/raster"
)

// supportedExtensions is the extension gate applied before any decode
// attempt. SVG files pass the gate but have no registered decoder; they fall
// through to the placeholder path like any other decode failure.
var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".svg"}

// Loader decodes image files into RGB rasters.
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{logger: logger}
}

// Supported reports whether the path's extension passes the format gate.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// SupportedFormats lists the accepted extensions without the leading dot.
func SupportedFormats() []string {
	out := make([]string, 0, len(supportedExtensions))
	for _, s := range supportedExtensions {
		out = append(out, strings.TrimPrefix(s, "."))
	}
	return out
}

// Load decodes the image at path into an RGB raster.
func (l *Loader) Load(path string) (*raster.Raster, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	r := raster.FromImage(img)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  r.Width,
		"height": r.Height,
	}).Info("Image loaded")

	return r, nil
}
