// Demo viewer: original image next to the five filter outputs
package gui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-filter-engine/internal/core"
	"image-filter-engine/internal/io"
)

// Application is the main viewer window
type Application struct {
	app       fyne.App
	window    fyne.Window
	logger    logrus.FieldLogger
	debugMode bool
	workers   int

	imageData *core.ImageData
	loader    *io.ImageLoader

	panels      *PanelGrid
	menuHandler *MenuHandler
	status      *widget.Label
	progress    *widget.ProgressBarInfinite

	cancel context.CancelFunc
}

func NewApplication(app fyne.App, logger logrus.FieldLogger, debugMode bool, workers int) *Application {
	window := app.NewWindow("Grayscale Filter Comparison")
	window.Resize(fyne.NewSize(1500, 1000))
	window.CenterOnScreen()

	a := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		debugMode: debugMode,
		workers:   workers,
		imageData: core.NewImageData(),
		loader:    io.NewImageLoader(logger),
	}

	a.panels = NewPanelGrid(core.DemoPanels)
	a.menuHandler = NewMenuHandler(window, a.imageData, a.loader, logger)
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) setupLayout() {
	a.status = widget.NewLabel("Open an image to compare filters")
	a.progress = widget.NewProgressBarInfinite()
	a.progress.Stop()
	a.progress.Hide()

	statusBar := container.NewBorder(nil, nil, nil, a.progress, a.status)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(container.NewBorder(nil, statusBar, nil, nil, a.panels.GetContainer()))
}

func (a *Application) setupCallbacks() {
	a.menuHandler.SetCallbacks(
		// onImageLoaded
		func(path string) {
			a.runFilters(path)
		},
		// onImageSaved
		func(dir string) {
			fyne.Do(func() {
				a.updateStatusMessage(fmt.Sprintf("Saved results to %s", dir))
			})
		},
	)
}

// LoadImageFromPath loads path and runs the filters, as File > Open does.
func (a *Application) LoadImageFromPath(path string) error {
	g, err := a.loader.LoadGrayscale(path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	if err := a.imageData.SetOriginal(g, path); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	a.runFilters(path)
	return nil
}

// runFilters recomputes every panel in the background, cancelling a run
// still in flight for a previous image.
func (a *Application) runFilters(path string) {
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.panels.Reset()
	a.panels.Show(0, a.imageData.GetOriginal())
	a.updateStatusMessage(fmt.Sprintf("Filtering %s...", path))
	a.progress.Show()
	a.progress.Start()

	go func() {
		start := time.Now()
		err := core.RunDemo(ctx, a.imageData, a.workers)
		if ctx.Err() != nil || errors.Is(err, core.ErrStaleResult) {
			return
		}

		log := a.logger.WithFields(logrus.Fields{
			"filepath": path,
			"duration": time.Since(start),
		})

		fyne.Do(func() {
			a.progress.Stop()
			a.progress.Hide()
			if err != nil {
				a.showError("Filtering failed", err)
				return
			}
			for i, panel := range core.DemoPanels {
				if panel.Algorithm == "" {
					continue
				}
				if out, ok := a.imageData.GetResult(panel.Algorithm); ok {
					a.panels.Show(i, out)
				}
			}
			meta := a.imageData.GetMetadata()
			a.updateStatusMessage(fmt.Sprintf("%s  %dx%d  filtered in %s",
				path, meta.Width, meta.Height, time.Since(start).Round(time.Millisecond)))
		})
		log.Info("PIPELINE: demo filters complete")
	}()
}

func (a *Application) updateStatusMessage(message string) {
	a.status.SetText(message)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	if a.cancel != nil {
		a.cancel()
	}
	a.imageData.Clear()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}
