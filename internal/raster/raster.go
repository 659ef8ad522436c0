// Core raster data structure shared by the rendering pipeline
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Raster is an 8-bit-per-channel RGB pixel grid. A loaded raster is never
// mutated in place; loading a new image replaces it wholesale, so background
// resample tasks can read it without synchronization.
type Raster struct {
	Width  int
	Height int
	Pix    []byte // packed RGB, len == 3*Width*Height
}

// New allocates a zeroed raster of the given dimensions.
func New(w, h int) (*Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions: %dx%d", w, h)
	}
	return &Raster{
		Width:  w,
		Height: h,
		Pix:    make([]byte, 3*w*h),
	}, nil
}

// Flat returns a raster filled with a single color, used for thumbnail
// placeholders.
func Flat(w, h int, c color.NRGBA) *Raster {
	r, _ := New(w, h)
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i] = c.R
		r.Pix[i+1] = c.G
		r.Pix[i+2] = c.B
	}
	return r
}

// FromImage converts any decoded image into an RGB raster. Alpha is
// composited over black, matching an opaque display surface.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return &Raster{}
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || !b.Min.Eq(image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	r := &Raster{Width: w, Height: h, Pix: make([]byte, 3*w*h)}
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*w]
		dst := r.Pix[y*3*w : (y+1)*3*w]
		for x := 0; x < w; x++ {
			dst[3*x] = src[4*x]
			dst[3*x+1] = src[4*x+1]
			dst[3*x+2] = src[4*x+2]
		}
	}
	return r
}

// ToNRGBA converts the raster into an NRGBA image for resampling or
// encoding. The result shares no memory with the raster.
func (r *Raster) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		src := r.Pix[y*3*r.Width : (y+1)*3*r.Width]
		dst := img.Pix[y*img.Stride : y*img.Stride+4*r.Width]
		for x := 0; x < r.Width; x++ {
			dst[4*x] = src[3*x]
			dst[4*x+1] = src[3*x+1]
			dst[4*x+2] = src[3*x+2]
			dst[4*x+3] = 0xff
		}
	}
	return img
}

// Empty reports whether the raster holds no pixels.
func (r *Raster) Empty() bool {
	return r == nil || r.Width <= 0 || r.Height <= 0 || len(r.Pix) == 0
}

// Bounds returns the raster bounds anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, r.Width, r.Height)
}

// At returns the pixel at (x, y). The caller must stay inside bounds.
func (r *Raster) At(x, y int) color.NRGBA {
	i := (y*r.Width + x) * 3
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: 0xff}
}

// Clone returns an independent copy of the raster.
func (r *Raster) Clone() *Raster {
	if r.Empty() {
		return &Raster{}
	}
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// SubRegion extracts the given rectangle as a new raster. The rectangle must
// be non-empty and lie fully inside the raster bounds; the viewport mapper
// guarantees this for pipeline crops.
func (r *Raster) SubRegion(rect image.Rectangle) (*Raster, error) {
	if r.Empty() {
		return nil, fmt.Errorf("sub-region of empty raster")
	}
	if rect.Empty() || !rect.In(r.Bounds()) {
		return nil, fmt.Errorf("sub-region %v outside raster bounds %v", rect, r.Bounds())
	}

	w, h := rect.Dx(), rect.Dy()
	out := &Raster{Width: w, Height: h, Pix: make([]byte, 3*w*h)}
	for y := 0; y < h; y++ {
		srcOff := ((rect.Min.Y+y)*r.Width + rect.Min.X) * 3
		copy(out.Pix[y*3*w:(y+1)*3*w], r.Pix[srcOff:srcOff+3*w])
	}
	return out, nil
}

// Validate checks the buffer-length invariant.
func (r *Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", r.Width, r.Height)
	}
	if len(r.Pix) != 3*r.Width*r.Height {
		return fmt.Errorf("buffer length %d does not match %dx%d RGB raster", len(r.Pix), r.Width, r.Height)
	}
	return nil
}
