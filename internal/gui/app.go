// Main application window and layout
package gui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/dirtree"
	"interactive-image-viewer/internal/render"
	"interactive-image-viewer/internal/thumbs"
	"interactive-image-viewer/internal/viewer"
)

// Application wires the viewer session to the Fyne widgets.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger

	session *viewer.Session
	tree    *dirtree.Tree
	cache   *thumbs.Cache

	canvas   *ImageCanvas
	controls *ControlPanel
	sidebar  *Sidebar
	strip    *ThumbnailStrip

	// collection is the ordered image list of the active directory, used by
	// next/previous navigation.
	collection []string
	current    int
}

func NewApplication(app fyne.App, logger *logrus.Logger, session *viewer.Session, tree *dirtree.Tree, cache *thumbs.Cache, startDir string) *Application {
	window := app.NewWindow("Image Browser")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:     app,
		window:  window,
		logger:  logger,
		session: session,
		tree:    tree,
		cache:   cache,
	}

	a.canvas = NewImageCanvas(session, logger)
	a.controls = NewControlPanel(session, logger)
	a.sidebar = NewSidebar(tree, a.openImage, logger)
	a.strip = NewThumbnailStrip(cache, a.openImage, logger)
	a.controls.SetOnHandTool(a.canvas.SetHandTool)

	// Background render results re-enter the event loop before touching
	// session buffers; the display refresh then runs on the UI thread.
	session.SetDeliver(func(res render.Result) {
		fyne.Do(func() {
			session.Apply(res)
		})
	})
	session.SetOnUpdate(a.canvas.Refresh)

	if startDir != "" {
		if _, err := tree.AddRoot(startDir); err != nil {
			logger.WithField("error", err).Warn("Start directory unavailable")
		} else {
			a.setCollectionFromDir(startDir)
		}
	}

	a.setupLayout()
	return a
}

func (a *Application) setupLayout() {
	topBar := container.NewHBox(
		widget.NewButton("Open", a.openDialog),
		widget.NewButton("Previous", a.previousImage),
		widget.NewButton("Next", a.nextImage),
		widget.NewSeparator(),
		a.controls.HandToolButton(),
	)

	center := container.NewBorder(
		topBar,
		container.NewVBox(a.controls.Container(), a.strip.Container()),
		nil,
		nil,
		a.canvas.Container(),
	)

	split := container.NewHSplit(a.sidebar.Container(), center)
	split.SetOffset(0.22)

	a.window.SetContent(split)
}

// ShowAndRun displays the window and enters the event loop.
func (a *Application) ShowAndRun() {
	a.window.ShowAndRun()
}

func (a *Application) openDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		a.openImage(path)
	}, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp", ".svg"}))
	fd.Show()
}

// openImage loads the image into the session and refreshes the gallery
// around it.
func (a *Application) openImage(path string) {
	if err := a.session.Load(path); err != nil {
		a.logger.WithFields(logrus.Fields{"path": path, "error": err}).Error("Open failed")
		return
	}

	a.setCollectionFromPath(path)
	a.canvas.Refresh()
	a.controls.SyncFromSession()
}

func (a *Application) setCollectionFromPath(path string) {
	a.setCollectionFromDir(filepath.Dir(path))
	for i, p := range a.collection {
		if p == path {
			a.current = i
			break
		}
	}
	a.strip.SetImages(a.collection, a.current)
}

func (a *Application) setCollectionFromDir(dir string) {
	images, err := dirtree.ListImages(dir)
	if err != nil {
		a.logger.WithFields(logrus.Fields{"dir": dir, "error": err}).Warn("Could not list directory images")
		return
	}
	a.collection = images
	a.current = 0
	a.strip.SetImages(a.collection, a.current)
}

func (a *Application) nextImage() {
	if len(a.collection) == 0 {
		return
	}
	a.current = (a.current + 1) % len(a.collection)
	a.openImage(a.collection[a.current])
}

func (a *Application) previousImage() {
	if len(a.collection) == 0 {
		return
	}
	a.current--
	if a.current < 0 {
		a.current = len(a.collection) - 1
	}
	a.openImage(a.collection[a.current])
}
