// Viewport-to-source coordinate mapping under zoom and pan
package viewport

import (
	"fmt"
	"image"
	"math"
)

const (
	// NeutralZoom shows the full source with no magnification.
	NeutralZoom = 1.0
	// MinZoom and MaxZoom bound the zoom factor domain.
	MinZoom = 0.5
	MaxZoom = 3.0

	// SliderMin and SliderMax are the zoom control's raw range; the slider
	// value maps to a zoom factor by division with SliderNeutral.
	SliderMin     = 50
	SliderMax     = 150
	SliderNeutral = 50
)

// Offset is a pan vector in display-pixel units, accumulated additively
// across drag events.
type Offset struct {
	X float64
	Y float64
}

// Add returns the offset shifted by a drag delta.
func (o Offset) Add(dx, dy float64) Offset {
	return Offset{X: o.X + dx, Y: o.Y + dy}
}

// ZoomFromSlider maps a raw slider value to a zoom factor.
func ZoomFromSlider(v float64) float64 {
	return ClampZoom(v / SliderNeutral)
}

// ClampZoom bounds a zoom factor into the valid domain.
func ClampZoom(z float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// Crop computes the source-pixel rectangle visible at the given zoom and pan
// offset. The logical window is (W/z, H/z), centered on the source center
// and shifted by (-ox/z, -oy/z): dragging content right moves the visible
// window left within the source. The result is always non-empty and fully
// inside [0, W) x [0, H); the same clamp applies to preview and final passes.
func Crop(srcW, srcH int, zoom float64, pan Offset) (image.Rectangle, error) {
	if srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid source dimensions: %dx%d", srcW, srcH)
	}
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return image.Rectangle{}, fmt.Errorf("invalid zoom factor: %v", zoom)
	}

	w := float64(srcW)
	h := float64(srcH)

	// Logical window size, clamped to the source when zooming out.
	viewW := math.Max(1, math.Min(w/zoom, w))
	viewH := math.Max(1, math.Min(h/zoom, h))

	// Window top-left corner relative to the source center, pan inverted.
	x := w/2 - viewW/2 - pan.X/zoom
	y := h/2 - viewH/2 - pan.Y/zoom

	x = math.Max(0, math.Min(x, w-viewW))
	y = math.Max(0, math.Min(y, h-viewH))

	x0 := int(x)
	y0 := int(y)
	cw := int(viewW)
	ch := int(viewH)
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	if x0+cw > srcW {
		x0 = srcW - cw
	}
	if y0+ch > srcH {
		y0 = srcH - ch
	}

	return image.Rect(x0, y0, x0+cw, y0+ch), nil
}
