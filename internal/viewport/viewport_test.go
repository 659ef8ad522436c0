package viewport

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCropCenteredHalfWindow(t *testing.T) {
	// 200x100 at zoom 2.0 with no pan selects the center half-size window.
	rect, err := Crop(200, 100, 2.0, Offset{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(50, 25, 150, 75), rect)
}

func TestCropNeutralZoomIgnoresPan(t *testing.T) {
	// At neutral zoom the window equals the source, so panning cannot move it.
	for _, pan := range []Offset{{}, {X: 500, Y: -500}, {X: -1e6, Y: 1e6}} {
		rect, err := Crop(640, 480, NeutralZoom, pan)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 640, 480), rect, "pan %+v", pan)
	}
}

func TestCropAlwaysInsideSource(t *testing.T) {
	dims := []struct{ w, h int }{
		{1, 1}, {3, 7}, {200, 100}, {1920, 1080}, {33, 1000},
	}
	zooms := []float64{0.5, 0.75, 1.0, 1.3, 2.0, 3.0}
	pans := []Offset{
		{}, {X: 10, Y: 10}, {X: -10000, Y: 4}, {X: 1e9, Y: -1e9}, {X: -0.5, Y: 12345},
	}

	for _, d := range dims {
		for _, z := range zooms {
			for _, pan := range pans {
				rect, err := Crop(d.w, d.h, z, pan)
				require.NoError(t, err)
				assert.False(t, rect.Empty(), "dims %v zoom %v pan %+v", d, z, pan)
				assert.True(t, rect.Min.X >= 0, "x >= 0")
				assert.True(t, rect.Min.Y >= 0, "y >= 0")
				assert.True(t, rect.Max.X <= d.w, "x+w <= W for dims %v zoom %v pan %+v", d, z, pan)
				assert.True(t, rect.Max.Y <= d.h, "y+h <= H for dims %v zoom %v pan %+v", d, z, pan)
			}
		}
	}
}

func TestCropZoomOutClampsWindowToSource(t *testing.T) {
	// Zoom < 1 would request a window larger than the source; the window is
	// clamped to the source bounds instead.
	rect, err := Crop(100, 80, 0.5, Offset{X: 50, Y: -50})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 80), rect)
}

func TestCropPanDirectionInverted(t *testing.T) {
	// Dragging content right (positive X offset) moves the window left.
	center, err := Crop(200, 200, 2.0, Offset{})
	require.NoError(t, err)
	panned, err := Crop(200, 200, 2.0, Offset{X: 20})
	require.NoError(t, err)
	assert.Less(t, panned.Min.X, center.Min.X)
	assert.Equal(t, center.Min.Y, panned.Min.Y)
}

func TestCropRejectsDegenerateInput(t *testing.T) {
	_, err := Crop(0, 100, 1.0, Offset{})
	assert.Error(t, err)
	_, err = Crop(100, 0, 1.0, Offset{})
	assert.Error(t, err)
	_, err = Crop(100, 100, 0, Offset{})
	assert.Error(t, err)
	_, err = Crop(100, 100, -2, Offset{})
	assert.Error(t, err)
}

func TestZoomFromSlider(t *testing.T) {
	assert.InDelta(t, 1.0, ZoomFromSlider(50), 1e-9)
	assert.InDelta(t, 2.0, ZoomFromSlider(100), 1e-9)
	assert.InDelta(t, 3.0, ZoomFromSlider(150), 1e-9)
	// Out-of-range slider values clamp into the zoom domain.
	assert.InDelta(t, MinZoom, ZoomFromSlider(10), 1e-9)
	assert.InDelta(t, MaxZoom, ZoomFromSlider(400), 1e-9)
}

func TestOffsetAccumulates(t *testing.T) {
	o := Offset{}
	o = o.Add(3, -4)
	o = o.Add(-1, 10)
	assert.Equal(t, Offset{X: 2, Y: 6}, o)
}
