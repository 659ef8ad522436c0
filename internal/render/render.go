// Crop-and-rescale render pipeline producing encoded display buffers
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/raster"
	"interactive-image-viewer/internal/resample"
	"interactive-image-viewer/internal/viewport"
)

// Tier is the quality/cost class of a render pass.
type Tier int

const (
	// Preview renders with the fastest algorithm regardless of the user
	// selection, to bound latency during continuous dragging.
	Preview Tier = iota
	// Final renders with the user-selected algorithm.
	Final
)

func (t Tier) String() string {
	if t == Preview {
		return "preview"
	}
	return "final"
}

// Result is an encoded render output tagged with its tier and the session
// generation it was produced for. The session discards results whose
// generation no longer matches.
type Result struct {
	Data       []byte
	Tier       Tier
	Generation uint64
}

// Pipeline turns (source, zoom, pan, algorithm, tier) into encoded PNG
// bytes. It holds no mutable state; rendering is a pure function of its
// inputs.
type Pipeline struct {
	logger *logrus.Logger
}

func NewPipeline(logger *logrus.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Render crops the source per the viewport mapper, resamples the region
// back to the source's full dimensions, and encodes the result losslessly.
// Preview-tier passes always use NearestNeighbor.
func (p *Pipeline) Render(src *raster.Raster, zoom float64, pan viewport.Offset, algo resample.Algorithm, tier Tier) ([]byte, error) {
	if src.Empty() {
		return nil, fmt.Errorf("render with no source loaded")
	}

	crop, err := viewport.Crop(src.Width, src.Height, zoom, pan)
	if err != nil {
		return nil, fmt.Errorf("viewport mapping: %w", err)
	}

	region, err := src.SubRegion(crop)
	if err != nil {
		return nil, fmt.Errorf("crop extraction: %w", err)
	}

	effective := algo
	if tier == Preview {
		effective = resample.NearestNeighbor
	}

	scaled, err := resample.Resize(region, src.Width, src.Height, effective)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled.ToNRGBA()); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"tier":      tier.String(),
		"algorithm": effective.String(),
		"crop":      crop.String(),
		"zoom":      zoom,
		"bytes":     buf.Len(),
	}).Debug("Render pass completed")

	return buf.Bytes(), nil
}
