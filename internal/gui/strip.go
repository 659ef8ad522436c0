// Horizontal thumbnail strip for the active directory
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/thumbs"
)

// ThumbnailStrip shows one 80x80 thumbnail per image in the active
// directory. Thumbnails are generated off the event loop and slotted in as
// they complete.
type ThumbnailStrip struct {
	cache   *thumbs.Cache
	onImage func(path string)
	logger  *logrus.Logger

	row    *fyne.Container
	scroll *container.Scroll
}

func NewThumbnailStrip(cache *thumbs.Cache, onImage func(path string), logger *logrus.Logger) *ThumbnailStrip {
	ts := &ThumbnailStrip{
		cache:   cache,
		onImage: onImage,
		logger:  logger,
		row:     container.NewHBox(),
	}
	ts.scroll = container.NewHScroll(ts.row)
	ts.scroll.SetMinSize(fyne.NewSize(0, float32(thumbs.Size)+24))
	return ts
}

// Container returns the scrollable strip.
func (ts *ThumbnailStrip) Container() fyne.CanvasObject {
	return ts.scroll
}

// SetImages rebuilds the strip for a new image collection.
func (ts *ThumbnailStrip) SetImages(paths []string, selected int) {
	ts.row.RemoveAll()

	for i, path := range paths {
		p := path
		img := canvas.NewImageFromResource(nil)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(thumbs.Size, thumbs.Size))

		btn := widget.NewButton("", func() {
			ts.onImage(p)
		})
		if i == selected {
			btn.Importance = widget.HighImportance
		}

		ts.row.Add(container.NewStack(btn, img))

		// Decode and resize run off the event loop; the slot updates when
		// the thumbnail lands.
		go func(target *canvas.Image) {
			t := ts.cache.GetOrCreate(p)
			if len(t.Data) == 0 {
				return
			}
			fyne.Do(func() {
				target.Resource = fyne.NewStaticResource(fmt.Sprintf("thumb-%s.png", p), t.Data)
				target.Refresh()
			})
		}(img)
	}

	ts.row.Refresh()
}
