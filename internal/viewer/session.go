// Viewer session owning zoom/pan/algorithm state and render buffers
package viewer

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/cloud"
	"interactive-image-viewer/internal/interaction"
	imgio "interactive-image-viewer/internal/io"
	"interactive-image-viewer/internal/raster"
	"interactive-image-viewer/internal/recent"
	"interactive-image-viewer/internal/render"
	"interactive-image-viewer/internal/resample"
	"interactive-image-viewer/internal/viewport"
)

// Session owns all mutable viewer state: the loaded raster, zoom, pan,
// algorithm selection, the interaction throttle and the per-tier render
// buffers. All mutating methods are called from the UI event loop; expensive
// render work runs in goroutines over an immutable raster reference and
// re-enters the loop through the configured deliver function.
type Session struct {
	mu sync.Mutex

	logger   *logrus.Logger
	loader   *imgio.Loader
	pipeline *render.Pipeline
	throttle *interaction.Throttle
	recents  *recent.Manager
	uploader *cloud.Client

	// RecentsPath, when non-empty, is where the recency list is persisted
	// after every successful load.
	RecentsPath string

	source      *raster.Raster
	path        string
	sliderValue float64
	zoom        float64
	pan         viewport.Offset
	algorithm   resample.Algorithm
	generation  uint64

	preview []byte
	final   []byte

	deliver  func(render.Result)
	onUpdate func()
}

// NewSession wires the session with its collaborators. recents and uploader
// may be nil. Throttle options are forwarded so tests can inject a synthetic
// clock.
func NewSession(logger *logrus.Logger, loader *imgio.Loader, pipeline *render.Pipeline, recents *recent.Manager, uploader *cloud.Client, opts ...interaction.Option) *Session {
	s := &Session{
		logger:      logger,
		loader:      loader,
		pipeline:    pipeline,
		recents:     recents,
		uploader:    uploader,
		sliderValue: viewport.SliderNeutral,
		zoom:        viewport.NeutralZoom,
		algorithm:   resample.Lanczos3,
	}
	s.deliver = s.Apply
	s.throttle = interaction.NewThrottle(logger,
		func() { s.renderAsync(render.Preview) },
		func() { s.renderAsync(render.Final) },
		opts...)
	return s
}

// SetDeliver routes completed render results back into the event loop; the
// GUI wraps Apply in fyne.Do. The default applies results directly.
func (s *Session) SetDeliver(fn func(render.Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliver = fn
}

// SetOnUpdate registers the display refresh callback, invoked whenever a
// buffer or the source changes.
func (s *Session) SetOnUpdate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Load decodes the image at path and resets the interactive state: throttle
// to idle, pan to the origin, zoom to neutral, both render buffers cleared,
// generation bumped so stale results are discarded. On failure the previous
// state is kept intact.
func (s *Session) Load(path string) error {
	src, err := s.loader.Load(path)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"path": path, "error": err}).Error("Image load failed, keeping previous state")
		return err
	}

	s.mu.Lock()
	s.source = src
	s.path = path
	s.sliderValue = viewport.SliderNeutral
	s.zoom = viewport.NeutralZoom
	s.pan = viewport.Offset{}
	s.generation++
	s.preview = nil
	s.final = nil
	update := s.onUpdate
	s.mu.Unlock()

	s.throttle.Reset()

	if s.recents != nil {
		s.recents.Add(path)
		if s.RecentsPath != "" {
			if err := s.recents.Save(s.RecentsPath); err != nil {
				s.logger.WithField("error", err).Warn("Failed to persist recents")
			}
		}
	}

	if s.uploader != nil && s.uploader.Enabled() {
		go func() {
			if err := s.uploader.Upload(context.Background(), path); err != nil {
				s.logger.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Cloud upload failed")
			}
		}()
	}

	if update != nil {
		update()
	}
	return nil
}

// SliderChanged records a zoom slider drag event. Coalesced events update
// state without triggering a render.
func (s *Session) SliderChanged(value float64) {
	s.mu.Lock()
	if s.source.Empty() {
		s.mu.Unlock()
		return
	}
	s.sliderValue = value
	s.zoom = viewport.ZoomFromSlider(value)
	s.mu.Unlock()

	s.throttle.Move()
}

// SliderReleased ends the slider gesture; the throttle schedules the final
// render after quiescence.
func (s *Session) SliderReleased() {
	s.throttle.Release()
}

// PanBy accumulates a pointer drag delta in display pixels.
func (s *Session) PanBy(dx, dy float64) {
	s.mu.Lock()
	if s.source.Empty() {
		s.mu.Unlock()
		return
	}
	s.pan = s.pan.Add(dx, dy)
	s.mu.Unlock()

	s.throttle.Move()
}

// PanReleased ends the pointer drag gesture.
func (s *Session) PanReleased() {
	s.throttle.Release()
}

// SetAlgorithm switches the resampling algorithm. When no gesture is in
// progress this is a deliberate user action and fires an immediate final
// render, bypassing the throttle; during a drag the new algorithm simply
// applies to the gesture's eventual final render.
func (s *Session) SetAlgorithm(a resample.Algorithm) {
	s.mu.Lock()
	s.algorithm = a
	s.generation++
	hasImage := !s.source.Empty()
	s.mu.Unlock()

	s.logger.WithField("algorithm", a.String()).Info("Resampling algorithm changed")

	if hasImage && s.throttle.State() == interaction.Idle {
		s.renderAsync(render.Final)
	}
}

// renderAsync snapshots the current state and dispatches one render pass off
// the event loop. The raster reference is immutable, so zoom/pan may keep
// changing while the pass runs.
func (s *Session) renderAsync(tier render.Tier) {
	s.mu.Lock()
	src := s.source
	zoom := s.zoom
	pan := s.pan
	algo := s.algorithm
	gen := s.generation
	deliver := s.deliver
	s.mu.Unlock()

	if src.Empty() {
		return
	}

	go func() {
		data, err := s.pipeline.Render(src, zoom, pan, algo, tier)
		if err != nil {
			// The previous valid buffer for this tier remains displayed.
			s.logger.WithFields(logrus.Fields{"tier": tier.String(), "error": err}).Error("Render pass failed")
			return
		}
		deliver(render.Result{Data: data, Tier: tier, Generation: gen})
	}()
}

// Apply lands a completed render result. Results from an older generation
// are discarded; a preview result arriving after the session left the
// dragging state is stale and is discarded rather than clobbering the
// display.
func (s *Session) Apply(res render.Result) {
	s.mu.Lock()
	if res.Generation != s.generation {
		s.mu.Unlock()
		s.logger.WithFields(logrus.Fields{"tier": res.Tier.String(), "generation": res.Generation}).Debug("Discarded stale render result")
		return
	}

	switch res.Tier {
	case render.Preview:
		if !s.throttle.IsDragging() {
			s.mu.Unlock()
			s.logger.Debug("Discarded preview result after drag ended")
			return
		}
		s.preview = res.Data
	case render.Final:
		s.final = res.Data
	}
	update := s.onUpdate
	s.mu.Unlock()

	if update != nil {
		update()
	}
}

// DisplayBuffer returns the encoded buffer appropriate to the current
// interaction state: the preview while dragging, the final otherwise. ok is
// false when that buffer has not been produced yet and the caller should
// fall back to the unscaled source.
func (s *Session) DisplayBuffer() (data []byte, tier render.Tier, ok bool) {
	dragging := s.throttle.IsDragging()

	s.mu.Lock()
	defer s.mu.Unlock()

	if dragging && s.preview != nil {
		return s.preview, render.Preview, true
	}
	if s.final != nil {
		return s.final, render.Final, true
	}
	return nil, render.Final, false
}

// Source returns the loaded raster, or nil when nothing is loaded.
func (s *Session) Source() *raster.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Path returns the path of the loaded image.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.source.Empty()
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// Pan returns the accumulated pan offset.
func (s *Session) Pan() viewport.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pan
}

// Algorithm returns the selected resampling algorithm.
func (s *Session) Algorithm() resample.Algorithm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.algorithm
}

// SliderValue returns the raw zoom control value.
func (s *Session) SliderValue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sliderValue
}

// Generation returns the current session generation, bumped on every load
// and algorithm change.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Throttle exposes the interaction state machine, mainly for the GUI to
// inspect drag state.
func (s *Session) Throttle() *interaction.Throttle {
	return s.throttle
}
