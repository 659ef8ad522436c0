// Zoom slider and resampling algorithm controls
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/resample"
	"interactive-image-viewer/internal/viewer"
	"interactive-image-viewer/internal/viewport"
)

// ControlPanel hosts the zoom slider, the algorithm selector and the hand
// tool toggle.
type ControlPanel struct {
	session *viewer.Session
	logger  *logrus.Logger

	slider     *widget.Slider
	algorithms *widget.RadioGroup
	handTool   *widget.Button
	box        *fyne.Container

	onHandTool func(active bool)
	handActive bool
}

func NewControlPanel(session *viewer.Session, logger *logrus.Logger) *ControlPanel {
	cp := &ControlPanel{session: session, logger: logger}

	cp.slider = widget.NewSlider(viewport.SliderMin, viewport.SliderMax)
	cp.slider.Step = 1
	cp.slider.Value = viewport.SliderNeutral
	// Every slider move is a drag event; the throttle decides whether it
	// becomes a preview render or is coalesced.
	cp.slider.OnChanged = func(v float64) {
		session.SliderChanged(v)
	}
	cp.slider.OnChangeEnded = func(v float64) {
		session.SliderChanged(v)
		session.SliderReleased()
	}

	names := make([]string, 0, len(resample.Algorithms()))
	for _, a := range resample.Algorithms() {
		names = append(names, a.String())
	}
	cp.algorithms = widget.NewRadioGroup(names, func(name string) {
		if name == "" {
			return
		}
		algo, err := resample.ParseAlgorithm(name)
		if err != nil {
			logger.WithField("name", name).Warn("Unknown algorithm selected")
			return
		}
		session.SetAlgorithm(algo)
	})
	cp.algorithms.Horizontal = true
	cp.algorithms.SetSelected(session.Algorithm().String())

	cp.handTool = widget.NewButton("Hand Tool", func() {
		cp.handActive = !cp.handActive
		if cp.onHandTool != nil {
			cp.onHandTool(cp.handActive)
		}
	})

	cp.box = container.NewVBox(
		widget.NewLabel("Zoom Level"),
		cp.slider,
		widget.NewLabel("Resampling Algorithm"),
		cp.algorithms,
	)
	return cp
}

// Container returns the control layout.
func (cp *ControlPanel) Container() fyne.CanvasObject {
	return cp.box
}

// HandToolButton returns the toggle button for the top bar.
func (cp *ControlPanel) HandToolButton() fyne.CanvasObject {
	return cp.handTool
}

// SetOnHandTool registers the hand tool toggle callback.
func (cp *ControlPanel) SetOnHandTool(fn func(active bool)) {
	cp.onHandTool = fn
}

// SyncFromSession resets the controls after an image load (zoom back to
// neutral, selection unchanged).
func (cp *ControlPanel) SyncFromSession() {
	cp.slider.Value = cp.session.SliderValue()
	cp.slider.Refresh()
}
