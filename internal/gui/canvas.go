// Image display canvas with hand-tool panning
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/viewer"
)

// ImageCanvas displays the session's current buffer and forwards pointer
// drags to the pan gesture when the hand tool is active.
type ImageCanvas struct {
	widget.BaseWidget

	session *viewer.Session
	logger  *logrus.Logger

	img      *canvas.Image
	handTool bool
}

func NewImageCanvas(session *viewer.Session, logger *logrus.Logger) *ImageCanvas {
	ic := &ImageCanvas{
		session: session,
		logger:  logger,
		img:     canvas.NewImageFromResource(nil),
	}
	ic.img.FillMode = canvas.ImageFillContain
	ic.ExtendBaseWidget(ic)
	return ic
}

// SetHandTool toggles whether pointer drags pan the image.
func (ic *ImageCanvas) SetHandTool(active bool) {
	ic.handTool = active
	ic.logger.WithField("active", active).Debug("Hand tool toggled")
}

// Container returns the canvas wrapped for layout.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic
}

// Refresh re-selects the display buffer per the current interaction state:
// the preview buffer while dragging, the final buffer otherwise, falling
// back to the unscaled source when neither has been rendered yet.
func (ic *ImageCanvas) Refresh() {
	data, tier, ok := ic.session.DisplayBuffer()
	if ok {
		ic.img.Image = nil
		ic.img.Resource = fyne.NewStaticResource(fmt.Sprintf("render-%s.png", tier), data)
	} else if src := ic.session.Source(); !src.Empty() {
		ic.img.Resource = nil
		ic.img.Image = src.ToNRGBA()
	}
	ic.img.Refresh()
	ic.BaseWidget.Refresh()
}

// Dragged accumulates pan offset while the hand tool is active.
func (ic *ImageCanvas) Dragged(e *fyne.DragEvent) {
	if !ic.handTool || !ic.session.HasImage() {
		return
	}
	ic.session.PanBy(float64(e.Dragged.DX), float64(e.Dragged.DY))
}

// DragEnd releases the pan gesture; the throttle schedules the final render.
func (ic *ImageCanvas) DragEnd() {
	if !ic.handTool {
		return
	}
	ic.session.PanReleased()
}

func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic, img: ic.img}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
	img    *canvas.Image
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.img.Resize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.img}
}

func (r *imageCanvasRenderer) Refresh() {
	r.img.Refresh()
}

func (r *imageCanvasRenderer) Destroy() {}
